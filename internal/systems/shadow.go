package systems

import (
	"math"

	"gridworld-server/internal/domain"
	"gridworld-server/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Угловой шаг веера лучей в градусах. 0.5° достаточно, чтобы на радиусе
// до ~50 клеток между соседними лучами не оставалось дыр.
const shadowAngleStep = 0.5

// ComputeShadow возвращает множество клеток, видимых из from в радиусе
// maxRadius с учетом перекрытия света.
//
// Алгоритм: веер лучей через каждые shadowAngleStep градусов, каждый луч
// трассируется Брезенхэмом до первой блокирующей свет клетки, объединение
// всех лучей дедуплицируется по ID клетки.
//
// Это сознательное приближение, а не честный асимметричный shadowcasting:
// лучи могут "протекать" за угол одиночного препятствия. Поведение
// зафиксировано как часть контракта - потребители (ИИ, туман войны)
// откалиброваны под слегка щедрую видимость.
func ComputeShadow(w *domain.World, from domain.Position, maxRadius int) map[domain.NodeID]*domain.Node {
	shadowLogger := logger.WithComponent("shadow").WithFields(logrus.Fields{
		"observer_pos": from,
		"max_radius":   maxRadius,
	})

	visible := make(map[domain.NodeID]*domain.Node)

	origin := w.Grid.Node(from)
	if origin == nil {
		shadowLogger.Warn("Shadow requested for out-of-bounds origin")
		return visible
	}

	// Своя клетка видна всегда
	visible[origin.ID] = origin
	if maxRadius <= 0 {
		return visible
	}

	r := float64(maxRadius)
	for deg := 0.0; deg < 360.0; deg += shadowAngleStep {
		rad := deg * math.Pi / 180.0
		target := domain.Position{
			X: from.X + int(math.Round(r*math.Cos(rad))),
			Y: from.Y + int(math.Round(r*math.Sin(rad))),
		}
		for _, node := range TraceLine(w, from, target) {
			if float64(from.DistanceSquaredTo(node.Pos)) > r*r {
				break
			}
			visible[node.ID] = node
		}
	}

	shadowLogger.WithField("visible_nodes", len(visible)).Debug("Shadow computed")
	return visible
}
