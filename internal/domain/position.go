package domain

import "math"

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo возвращает точное евклидово расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ManhattanTo возвращает манхэттенское расстояние (эвристика для A*)
func (p Position) ManhattanTo(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением (не меняя текущую)
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionTo возвращает знаковый единичный шаг к цели по обеим осям
func (p Position) DirectionTo(other Position) (int, int) {
	sx, sy := 0, 0
	if other.X > p.X {
		sx = 1
	} else if other.X < p.X {
		sx = -1
	}
	if other.Y > p.Y {
		sy = 1
	} else if other.Y < p.Y {
		sy = -1
	}
	return sx, sy
}
