package domain

// World - явное хранилище (арена) сущностей плюс грид.
// Передается по ссылке всем, кому нужен поиск по ID: глобального
// реестра нет, в одном процессе может жить несколько независимых миров.
type World struct {
	Grid *Grid

	entities map[EntityID]*Entity
	// order хранит порядок регистрации - обходы по нему детерминированы,
	// в отличие от итерации по мапе.
	order []EntityID

	// GlobalTick - текущее время симуляции (увеличивается резолвером).
	GlobalTick int
}

// NewWorld создает пустой мир поверх готового грида.
func NewWorld(grid *Grid) *World {
	return &World{
		Grid:     grid,
		entities: make(map[EntityID]*Entity),
	}
}

// Entity ищет сущность по ID. nil, если не зарегистрирована.
func (w *World) Entity(id EntityID) *Entity {
	return w.entities[id]
}

// Register добавляет сущность в реестр мира.
func (w *World) Register(e *Entity) {
	if _, exists := w.entities[e.ID]; !exists {
		w.order = append(w.order, e.ID)
	}
	w.entities[e.ID] = e
}

// Unregister удаляет сущность из реестра.
func (w *World) Unregister(id EntityID) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	for i, eid := range w.order {
		if eid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Entities возвращает все сущности в порядке регистрации.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e, ok := w.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// PositionOf возвращает позицию сущности в мире.
// Для удерживаемой сущности это позиция держателя (вложенность означает
// со-расположение), цепочка держателей раскручивается до клетки.
func (w *World) PositionOf(e *Entity) (Position, bool) {
	seen := make(map[EntityID]bool)
	for e != nil {
		if e.Location != NoNode {
			node := w.Grid.NodeByID(e.Location)
			if node == nil {
				return Position{}, false
			}
			return node.Pos, true
		}
		if e.StoredIn == NoHolder {
			return Position{}, false
		}
		if seen[e.ID] {
			// Цикл держателей - поврежденное состояние
			return Position{}, false
		}
		seen[e.ID] = true
		e = w.Entity(e.StoredIn)
	}
	return Position{}, false
}

// recomputeNode пересчитывает производные флаги клетки по её сущностям.
// Удерживаемые сущности не учитываются (их в списках клеток и не бывает,
// но инвариант проверяем и здесь).
func (w *World) recomputeNode(n *Node) {
	n.BlocksMovement = false
	n.BlocksLight = false
	for _, id := range n.EntityIDs {
		e := w.entities[id]
		if e == nil || e.StoredIn != NoHolder {
			continue
		}
		if e.BlocksMovement {
			n.BlocksMovement = true
		}
		if e.BlocksLight {
			n.BlocksLight = true
		}
	}
}

// SetBlocksMovement меняет флаг сущности и синхронно обновляет её клетку.
func (w *World) SetBlocksMovement(e *Entity, v bool) {
	e.BlocksMovement = v
	if e.Location != NoNode {
		if n := w.Grid.NodeByID(e.Location); n != nil {
			w.recomputeNode(n)
		}
	}
}

// SetBlocksLight меняет флаг сущности и синхронно обновляет её клетку.
func (w *World) SetBlocksLight(e *Entity, v bool) {
	e.BlocksLight = v
	if e.Location != NoNode {
		if n := w.Grid.NodeByID(e.Location); n != nil {
			w.recomputeNode(n)
		}
	}
}
