package systems

import (
	"testing"

	"gridworld-server/internal/domain"
)

func TestAStarOpenGrid(t *testing.T) {
	w := createTestWorld(5, 5)
	start := domain.Position{X: 0, Y: 0}
	goal := domain.Position{X: 4, Y: 4}

	// С диагоналями: 4 шага по диагонали, 5 клеток включая обе конечные
	path := AStar(w, start, goal, true)
	if len(path) != 5 {
		t.Errorf("diagonal path length = %d cells, want 5", len(path))
	}

	// Только оси: манхэттенское расстояние 8, путь из 9 клеток
	path = AStar(w, start, goal, false)
	if len(path) != 9 {
		t.Errorf("axis-only path length = %d cells, want 9", len(path))
	}
}

func TestAStarContracts(t *testing.T) {
	w := createTestWorld(5, 5)
	start := domain.Position{X: 0, Y: 0}

	// start == goal -> путь из одной клетки
	path := AStar(w, start, start, true)
	if len(path) != 1 || path[0].Pos != start {
		t.Errorf("start==goal must yield a single-cell path, got %d cells", len(path))
	}

	// Блокирующая цель -> nil
	placeWall(t, w, 4, 4)
	if path := AStar(w, start, domain.Position{X: 4, Y: 4}, true); path != nil {
		t.Error("blocking goal must yield nil")
	}

	// Недостижимая цель (за сплошной стеной) -> nil
	w2 := createTestWorld(5, 5)
	for y := 0; y < 5; y++ {
		placeWall(t, w2, 2, y)
	}
	if path := AStar(w2, start, domain.Position{X: 4, Y: 0}, true); path != nil {
		t.Error("unreachable goal must yield nil")
	}
}

func TestAStarPathIsLegal(t *testing.T) {
	w := createTestWorld(8, 8)
	// Стена с проходом
	for y := 0; y < 7; y++ {
		placeWall(t, w, 4, y)
	}

	start := domain.Position{X: 1, Y: 1}
	goal := domain.Position{X: 6, Y: 1}
	path := AStar(w, start, goal, true)
	if path == nil {
		t.Fatal("path through the gap must exist")
	}
	if path[0].Pos != start || path[len(path)-1].Pos != goal {
		t.Fatal("path must run from start to goal inclusive")
	}

	for i := 1; i < len(path); i++ {
		if !path[i-1].Pos.IsAdjacent(path[i].Pos) {
			t.Errorf("cells %v and %v are not neighbors", path[i-1].Pos, path[i].Pos)
		}
		// Все клетки, кроме стартовой, проходимы
		if path[i].BlocksMovement {
			t.Errorf("path passes through blocking cell %v", path[i].Pos)
		}
	}
}

func TestAStarStartCellExempt(t *testing.T) {
	w := createTestWorld(5, 5)
	start := domain.Position{X: 2, Y: 2}
	// Сущность в стартовой клетке блокирует движение (например, сам актор)
	placeWall(t, w, 2, 2)

	path := AStar(w, start, domain.Position{X: 2, Y: 4}, false)
	if path == nil {
		t.Fatal("blocking start cell must not prevent pathing out of it")
	}
	if path[0].Pos != start {
		t.Error("path must begin at the start cell")
	}
}

func TestDijkstraBounded(t *testing.T) {
	w := createTestWorld(9, 9)
	start := domain.Position{X: 4, Y: 4}

	distances, cameFrom := Dijkstra(w, start, 2, false)

	// Радиус 2 без диагоналей: 1 + 4 + 8 = 13 клеток
	if len(distances) != 13 {
		t.Errorf("expected 13 reachable cells, got %d", len(distances))
	}
	for id, d := range distances {
		if d > 2 {
			t.Errorf("cell %d beyond max distance: %d", id, d)
		}
	}

	// Восстановление пути по карте предшественников
	target := w.Grid.Index(4, 2)
	path := BestPath(w, start, cameFrom, target)
	if len(path) != 3 {
		t.Errorf("best path to (4,2) should have 3 cells, got %d", len(path))
	}
}

func TestDijkstraRespectsWalls(t *testing.T) {
	w := createTestWorld(5, 5)
	for y := 0; y < 5; y++ {
		placeWall(t, w, 2, y)
	}

	distances, _ := Dijkstra(w, domain.Position{X: 0, Y: 0}, 10, true)
	for id := range distances {
		node := w.Grid.NodeByID(id)
		if node.Pos.X >= 2 {
			t.Errorf("wave leaked through the wall to %v", node.Pos)
		}
	}
}
