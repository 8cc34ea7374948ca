package systems

import (
	"container/heap"

	"gridworld-server/internal/domain"
)

// pathNode - элемент приоритетного фронтира.
// seq фиксирует порядок вставки: при равном f первым выходит тот,
// кто был добавлен раньше (стабильность ради воспроизводимости).
type pathNode struct {
	node   *domain.Node
	g      int
	f      int
	seq    int
	parent *pathNode
	index  int
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// AStar ищет кратчайший путь от start к goal.
// Единичная стоимость шага, манхэттенская эвристика, расширение только
// через проходимые клетки: путь легален, если все клетки, кроме стартовой,
// не блокируют движение.
//
// Возвращает nil, если goal блокирует или недостижим.
// Если start == goal - путь из одной клетки.
func AStar(w *domain.World, start, goal domain.Position, allowDiagonal bool) []*domain.Node {
	startNode := w.Grid.Node(start)
	goalNode := w.Grid.Node(goal)
	if startNode == nil || goalNode == nil {
		return nil
	}
	if goalNode.BlocksMovement {
		return nil
	}
	if start == goal {
		return []*domain.Node{startNode}
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{node: startNode, g: 0, f: start.ManhattanTo(goal), seq: seq})

	gScore := map[domain.NodeID]int{startNode.ID: 0}
	closed := make(map[domain.NodeID]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if closed[current.node.ID] {
			continue
		}
		closed[current.node.ID] = true

		if current.node.ID == goalNode.ID {
			return reconstructPath(current)
		}

		for _, nb := range w.Grid.Neighbors(current.node.Pos, allowDiagonal) {
			// Стартовая клетка - единственное исключение из правила проходимости
			if nb.BlocksMovement {
				continue
			}
			if closed[nb.ID] {
				continue
			}
			tentative := current.g + 1
			if prev, ok := gScore[nb.ID]; ok && tentative >= prev {
				continue
			}
			gScore[nb.ID] = tentative
			seq++
			heap.Push(open, &pathNode{
				node:   nb,
				g:      tentative,
				f:      tentative + nb.Pos.ManhattanTo(goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil
}

func reconstructPath(end *pathNode) []*domain.Node {
	var path []*domain.Node
	for n := end; n != nil; n = n.parent {
		path = append(path, n.node)
	}
	// Разворачиваем: собирали от цели к старту
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Dijkstra разливает волну из start с единичной стоимостью шага,
// ограниченную maxDistance. Возвращает карту расстояний и карту
// лучших предшественников (для восстановления путей).
// Используется для запросов достижимости и "что в N шагах".
func Dijkstra(w *domain.World, start domain.Position, maxDistance int, allowDiagonal bool) (map[domain.NodeID]int, map[domain.NodeID]domain.NodeID) {
	distances := make(map[domain.NodeID]int)
	cameFrom := make(map[domain.NodeID]domain.NodeID)

	startNode := w.Grid.Node(start)
	if startNode == nil {
		return distances, cameFrom
	}
	distances[startNode.ID] = 0

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{node: startNode, g: 0, f: 0, seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if d, ok := distances[current.node.ID]; ok && current.g > d {
			continue // устаревшая запись фронтира
		}
		if current.g >= maxDistance {
			continue
		}

		for _, nb := range w.Grid.Neighbors(current.node.Pos, allowDiagonal) {
			if nb.BlocksMovement {
				continue
			}
			tentative := current.g + 1
			if prev, ok := distances[nb.ID]; ok && tentative >= prev {
				continue
			}
			distances[nb.ID] = tentative
			cameFrom[nb.ID] = current.node.ID
			seq++
			heap.Push(open, &pathNode{node: nb, g: tentative, f: tentative, seq: seq})
		}
	}
	return distances, cameFrom
}

// BestPath восстанавливает путь к target по карте предшественников Dijkstra.
// nil, если target не был достигнут.
func BestPath(w *domain.World, start domain.Position, cameFrom map[domain.NodeID]domain.NodeID, target domain.NodeID) []*domain.Node {
	startNode := w.Grid.Node(start)
	if startNode == nil {
		return nil
	}
	if target == startNode.ID {
		return []*domain.Node{startNode}
	}
	if _, ok := cameFrom[target]; !ok {
		return nil
	}
	var rev []*domain.Node
	cur := target
	for {
		node := w.Grid.NodeByID(cur)
		if node == nil {
			return nil
		}
		rev = append(rev, node)
		if cur == startNode.ID {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
