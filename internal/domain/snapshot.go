package domain

// EntityState - плоский слепок состояния сущности:
// атрибут -> примитивное значение, плюс синтезированные
// записи "position" и "inventory" (список ID).
type EntityState map[string]any

// SnapshotEntity снимает текущее состояние сущности.
// Слепок независим от дальнейших мутаций (глубокая копия значений).
func (w *World) SnapshotEntity(e *Entity) EntityState {
	if e == nil {
		return nil
	}
	state := make(EntityState, len(e.Attributes)+4)
	for name, attr := range e.Attributes {
		state[name] = attr.Value.Primitive()
	}
	state[AttrBlocksMovement] = e.BlocksMovement
	state[AttrBlocksLight] = e.BlocksLight

	if pos, ok := w.PositionOf(e); ok {
		state["position"] = []int{pos.X, pos.Y}
	} else {
		state["position"] = nil
	}

	inv := make([]string, len(e.Inventory))
	for i, id := range e.Inventory {
		inv[i] = string(id)
	}
	state["inventory"] = inv

	return state
}

// Типы сущностей
const (
	EntityTypeCharacter = "CHARACTER"
	EntityTypeMonster   = "MONSTER"
	EntityTypeDoor      = "DOOR"
	EntityTypeKey       = "KEY"
	EntityTypeChest     = "CHEST"
	EntityTypeWall      = "WALL"
	EntityTypeTreasure  = "TREASURE"
)
