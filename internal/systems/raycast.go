package systems

import (
	"gridworld-server/internal/domain"
	"gridworld-server/pkg/logger"
	"github.com/sirupsen/logrus"
)

// TraceLine трассирует прямую от from к to целочисленным алгоритмом
// Брезенхэма. Возвращает клетки ПОСЛЕ исходной, по порядку следования.
// Останавливается на первой клетке, блокирующей свет (сама клетка
// включается в результат - стену видно, за ней уже нет).
func TraceLine(w *domain.World, from, to domain.Position) []*domain.Node {
	var out []*domain.Node
	if from == to {
		return out
	}

	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := from.DirectionTo(to)

	err := dx - dy

	for {
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}

		node := w.Grid.Node(domain.Position{X: x0, Y: y0})
		if node == nil {
			// Вышли за границы - дальше луч не идет
			break
		}
		out = append(out, node)
		if node.BlocksLight {
			break
		}
	}
	return out
}

// Raycast проверяет прямую видимость между двумя названными клетками.
// Возвращает (есть ли чистый путь, промежуточные клетки). Обе конечные
// точки исключаются из результата. Путь НЕ чистый, если блокирующая
// свет клетка встретилась строго между from и to; в этом случае
// промежуточный список обрезан на блокирующей клетке включительно.
func Raycast(w *domain.World, from, to domain.Position) (bool, []*domain.Node) {
	rcLogger := logger.WithComponent("raycast").WithFields(logrus.Fields{
		"start_pos": from,
		"end_pos":   to,
	})

	// Вырожденный случай: из клетки в саму себя путь всегда чист
	if from == to {
		return true, nil
	}

	traced := TraceLine(w, from, to)
	var between []*domain.Node
	for _, node := range traced {
		if node.Pos == to {
			break // конечную точку не включаем и не проверяем
		}
		between = append(between, node)
		if node.BlocksLight {
			rcLogger.WithField("blocking_point", node.Pos).
				Debug("Raycast blocked before reaching target")
			return false, between
		}
	}

	// Луч мог оборваться на границе карты, не дойдя до цели
	if len(traced) == 0 || traced[len(traced)-1].Pos != to {
		rcLogger.Debug("Raycast left the grid before reaching target")
		return false, between
	}

	rcLogger.Debug("Raycast clear")
	return true, between
}
