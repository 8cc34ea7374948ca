package domain

// NodeID - индекс клетки в плоском массиве грида (y*Width + x).
type NodeID int

// NoNode - ссылка "сущность не размещена в мире".
const NoNode NodeID = -1

// Node - одна клетка грида. Знает свою позицию и хранит упорядоченный
// список ID размещенных в ней сущностей.
//
// BlocksMovement/BlocksLight - ПРОИЗВОДНЫЕ флаги: true, если хотя бы одна
// неудерживаемая сущность клетки выставила соответствующий флаг.
// Пересчитываются синхронно при каждом изменении списка сущностей.
type Node struct {
	ID  NodeID   `json:"id"`
	Pos Position `json:"pos"`

	EntityIDs []EntityID `json:"entityIds,omitempty"`

	BlocksMovement bool `json:"blocksMovement"`
	BlocksLight    bool `json:"blocksLight"`
}

// contains проверяет наличие сущности в списке клетки.
func (n *Node) contains(id EntityID) bool {
	for _, eid := range n.EntityIDs {
		if eid == id {
			return true
		}
	}
	return false
}

// removeID удаляет сущность из списка, сохраняя порядок остальных.
// Порядок важен: он определяет детерминизм обходов и снапшотов.
func (n *Node) removeID(id EntityID) bool {
	for i, eid := range n.EntityIDs {
		if eid == id {
			n.EntityIDs = append(n.EntityIDs[:i], n.EntityIDs[i+1:]...)
			return true
		}
	}
	return false
}
