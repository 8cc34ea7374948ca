package domain

import "fmt"

// ContainmentError - нарушение инварианта вложенности.
// Это ошибка программиста (или невалидная цель трансформации),
// поднимается сразу, а не глотается молча.
type ContainmentError struct {
	Op     string
	Entity EntityID
	Reason string
}

func (e *ContainmentError) Error() string {
	return fmt.Sprintf("containment: %s(%s): %s", e.Op, e.Entity, e.Reason)
}

// PlaceInNode ставит сущность в клетку мира.
// Ошибка, если сущность лежит в чьем-то инвентаре (сначала её нужно
// извлечь) или уже стоит в другой клетке.
func (w *World) PlaceInNode(e *Entity, n *Node) error {
	if e.StoredIn != NoHolder {
		return &ContainmentError{Op: "PlaceInNode", Entity: e.ID,
			Reason: fmt.Sprintf("сущность удерживается %s, сначала извлеките её из инвентаря", e.StoredIn)}
	}
	if e.Location != NoNode {
		return &ContainmentError{Op: "PlaceInNode", Entity: e.ID,
			Reason: fmt.Sprintf("сущность уже размещена в клетке %d", e.Location)}
	}
	n.EntityIDs = append(n.EntityIDs, e.ID)
	e.Location = n.ID
	w.recomputeNode(n)
	return nil
}

// RemoveFromNode убирает сущность из клетки.
// Симметрично PlaceInNode: ошибка для удерживаемой сущности
// и для сущности, которой в этой клетке нет.
func (w *World) RemoveFromNode(e *Entity, n *Node) error {
	if e.StoredIn != NoHolder {
		return &ContainmentError{Op: "RemoveFromNode", Entity: e.ID,
			Reason: "сущность удерживается и не стоит в клетке"}
	}
	if !n.removeID(e.ID) {
		return &ContainmentError{Op: "RemoveFromNode", Entity: e.ID,
			Reason: fmt.Sprintf("сущности нет в клетке %d", n.ID)}
	}
	e.Location = NoNode
	w.recomputeNode(n)
	return nil
}

// MoveToNode переносит размещенную сущность в другую клетку
// (убрать из старой + поставить в новую, оба пересчета флагов синхронны).
func (w *World) MoveToNode(e *Entity, target *Node) error {
	if e.StoredIn != NoHolder {
		return &ContainmentError{Op: "MoveToNode", Entity: e.ID,
			Reason: "удерживаемая сущность перемещается вместе с держателем"}
	}
	if e.Location != NoNode {
		old := w.Grid.NodeByID(e.Location)
		if old == nil {
			return &ContainmentError{Op: "MoveToNode", Entity: e.ID,
				Reason: fmt.Sprintf("битая ссылка на клетку %d", e.Location)}
		}
		if err := w.RemoveFromNode(e, old); err != nil {
			return err
		}
	}
	return w.PlaceInNode(e, target)
}

// AddToInventory кладет item в инвентарь holder.
// Если item стоит в клетке - неявно сначала убирает его оттуда
// (сущность не может быть одновременно в клетке и в инвентаре).
func (w *World) AddToInventory(holder, item *Entity) error {
	if holder.ID == item.ID {
		return &ContainmentError{Op: "AddToInventory", Entity: item.ID,
			Reason: "сущность не может хранить саму себя"}
	}
	if item.StoredIn != NoHolder {
		if item.StoredIn == holder.ID {
			return nil // уже там
		}
		return &ContainmentError{Op: "AddToInventory", Entity: item.ID,
			Reason: fmt.Sprintf("сущность уже удерживается %s", item.StoredIn)}
	}
	if holder.Container != nil && holder.Container.Capacity > 0 &&
		len(holder.Inventory) >= holder.Container.Capacity {
		return &ContainmentError{Op: "AddToInventory", Entity: item.ID,
			Reason: fmt.Sprintf("инвентарь %s полон", holder.ID)}
	}
	if item.Location != NoNode {
		node := w.Grid.NodeByID(item.Location)
		if node == nil {
			return &ContainmentError{Op: "AddToInventory", Entity: item.ID,
				Reason: fmt.Sprintf("битая ссылка на клетку %d", item.Location)}
		}
		if err := w.RemoveFromNode(item, node); err != nil {
			return err
		}
	}
	item.StoredIn = holder.ID
	holder.Inventory = append(holder.Inventory, item.ID)
	return nil
}

// RemoveFromInventory извлекает item из инвентаря holder.
// Сущность остается "в лимбо" (без клетки), пока её не разместят.
func (w *World) RemoveFromInventory(holder, item *Entity) error {
	if item.StoredIn != holder.ID {
		return &ContainmentError{Op: "RemoveFromInventory", Entity: item.ID,
			Reason: fmt.Sprintf("сущность не лежит в инвентаре %s", holder.ID)}
	}
	for i, id := range holder.Inventory {
		if id == item.ID {
			holder.Inventory = append(holder.Inventory[:i], holder.Inventory[i+1:]...)
			break
		}
	}
	item.StoredIn = NoHolder
	return nil
}
