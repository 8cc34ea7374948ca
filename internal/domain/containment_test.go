package domain

import (
	"errors"
	"testing"
)

func newTestWorld(w, h int) *World {
	return NewWorld(NewGrid(w, h))
}

func TestPlaceAndRemoveRecomputeFlags(t *testing.T) {
	w := newTestWorld(5, 5)
	node := w.Grid.Node(Position{X: 2, Y: 2})

	wall := NewEntity(EntityTypeWall, "Стена")
	wall.BlocksMovement = true
	wall.BlocksLight = true
	w.Register(wall)

	// До размещения клетка проходима
	if node.BlocksMovement || node.BlocksLight {
		t.Fatal("empty node must not block")
	}

	if err := w.PlaceInNode(wall, node); err != nil {
		t.Fatalf("PlaceInNode failed: %v", err)
	}
	// Производные флаги пересчитаны синхронно
	if !node.BlocksMovement || !node.BlocksLight {
		t.Error("node must block after a blocking entity is placed")
	}

	if err := w.RemoveFromNode(wall, node); err != nil {
		t.Fatalf("RemoveFromNode failed: %v", err)
	}
	if node.BlocksMovement || node.BlocksLight {
		t.Error("node must not block after the entity is removed")
	}
	if wall.Location != NoNode {
		t.Error("Location must be cleared after removal")
	}
}

func TestContainmentInvariant(t *testing.T) {
	w := newTestWorld(5, 5)
	node := w.Grid.Node(Position{X: 0, Y: 0})

	holder := NewEntity(EntityTypeCharacter, "Герой")
	item := NewEntity(EntityTypeKey, "Ключ")
	w.Register(holder)
	w.Register(item)

	if err := w.AddToInventory(holder, item); err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	// Удерживаемую сущность нельзя поставить в клетку напрямую
	err := w.PlaceInNode(item, node)
	var ce *ContainmentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ContainmentError, got %v", err)
	}

	// Инвариант: Location XOR StoredIn
	if item.Location != NoNode {
		t.Error("held entity must have no location")
	}
	if item.StoredIn != holder.ID {
		t.Error("held entity must reference its holder")
	}
}

func TestAddToInventoryImplicitlyRemovesFromNode(t *testing.T) {
	w := newTestWorld(5, 5)
	node := w.Grid.Node(Position{X: 1, Y: 1})

	holder := NewEntity(EntityTypeCharacter, "Герой")
	item := NewEntity(EntityTypeKey, "Ключ")
	item.BlocksMovement = true // нарочно, чтобы проверить пересчет
	w.Register(holder)
	w.Register(item)

	if err := w.PlaceInNode(item, node); err != nil {
		t.Fatalf("PlaceInNode failed: %v", err)
	}
	if !node.BlocksMovement {
		t.Fatal("node should block while item is on the ground")
	}

	if err := w.AddToInventory(holder, item); err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	if item.Location != NoNode {
		t.Error("item must leave the node when picked up")
	}
	if node.contains(item.ID) {
		t.Error("node entity list must not contain the held item")
	}
	if node.BlocksMovement {
		t.Error("node flags must be recomputed after implicit removal")
	}
	if !holder.HoldsEntity(item.ID) {
		t.Error("holder inventory must contain the item")
	}
}

func TestHeldEntityPositionIsHolderPosition(t *testing.T) {
	w := newTestWorld(5, 5)
	node := w.Grid.Node(Position{X: 3, Y: 4})

	holder := NewEntity(EntityTypeCharacter, "Герой")
	item := NewEntity(EntityTypeKey, "Ключ")
	w.Register(holder)
	w.Register(item)

	if err := w.PlaceInNode(holder, node); err != nil {
		t.Fatalf("PlaceInNode failed: %v", err)
	}
	if err := w.AddToInventory(holder, item); err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	pos, ok := w.PositionOf(item)
	if !ok {
		t.Fatal("held item must resolve to a position")
	}
	if pos != (Position{X: 3, Y: 4}) {
		t.Errorf("held item position = %v, want holder position (3,4)", pos)
	}
}

func TestContainerCapacity(t *testing.T) {
	w := newTestWorld(3, 3)
	chest := NewEntity(EntityTypeChest, "Сундук")
	chest.Container = &ContainerComponent{Capacity: 1}
	w.Register(chest)

	first := NewEntity(EntityTypeKey, "Ключ")
	second := NewEntity(EntityTypeTreasure, "Монета")
	w.Register(first)
	w.Register(second)

	if err := w.AddToInventory(chest, first); err != nil {
		t.Fatalf("first item should fit: %v", err)
	}
	if err := w.AddToInventory(chest, second); err == nil {
		t.Error("second item must be rejected by capacity")
	}
}

func TestRemoveFromInventoryLeavesLimbo(t *testing.T) {
	w := newTestWorld(3, 3)
	holder := NewEntity(EntityTypeCharacter, "Герой")
	item := NewEntity(EntityTypeKey, "Ключ")
	w.Register(holder)
	w.Register(item)

	if err := w.AddToInventory(holder, item); err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}
	if err := w.RemoveFromInventory(holder, item); err != nil {
		t.Fatalf("RemoveFromInventory failed: %v", err)
	}
	if item.StoredIn != NoHolder || item.Location != NoNode {
		t.Error("released item must be in limbo until placed")
	}
	if holder.HoldsEntity(item.ID) {
		t.Error("holder inventory must no longer list the item")
	}
}
