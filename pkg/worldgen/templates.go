package worldgen

import (
	"math/rand"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/rules"
	"gridworld-server/pkg/utils"
)

// EntityTemplate определяет шаблон для создания сущности
type EntityTemplate struct {
	Name string
	Type string

	// Стартовые значения атрибутов
	Attrs map[string]domain.Value

	BlocksMovement bool
	BlocksLight    bool

	// Капабилити (копируются по значению в новую сущность)
	Alive     *domain.AliveComponent
	Lockable  *domain.LockableComponent
	Container *domain.ContainerComponent
}

// Spawn создает сущность из шаблона с детерминированным ID
func (t EntityTemplate) Spawn(rng *rand.Rand) *domain.Entity {
	e := &domain.Entity{
		ID:             domain.EntityID(utils.GenerateDeterministicID(rng, "e_")),
		Type:           t.Type,
		Name:           t.Name,
		Attributes:     make(map[string]*domain.Attribute, len(t.Attrs)),
		BlocksMovement: t.BlocksMovement,
		BlocksLight:    t.BlocksLight,
		Location:       domain.NoNode,
	}
	for name, v := range t.Attrs {
		e.MustSetAttr(name, v)
	}
	if t.Alive != nil {
		cp := *t.Alive
		e.Alive = &cp
	}
	if t.Lockable != nil {
		cp := *t.Lockable
		e.Lockable = &cp
	}
	if t.Container != nil {
		cp := *t.Container
		e.Container = &cp
	}
	return e
}

// --- ШАБЛОНЫ ---

var Wall = EntityTemplate{
	Name:           "каменная стена",
	Type:           domain.EntityTypeWall,
	BlocksMovement: true,
	BlocksLight:    true,
}

var ClosedDoor = EntityTemplate{
	Name: "дубовая дверь",
	Type: domain.EntityTypeDoor,
	Attrs: map[string]domain.Value{
		rules.AttrOpen:     domain.Bool(false),
		rules.AttrIsLocked: domain.Bool(false),
	},
	BlocksMovement: true,
	BlocksLight:    true,
	Lockable:       &domain.LockableComponent{},
}

var Key = EntityTemplate{
	Name: "медный ключ",
	Type: domain.EntityTypeKey,
	Attrs: map[string]domain.Value{
		rules.AttrPickupable: domain.Bool(true),
	},
}

var Chest = EntityTemplate{
	Name: "окованный сундук",
	Type: domain.EntityTypeChest,
	Attrs: map[string]domain.Value{
		rules.AttrOpen:     domain.Bool(false),
		rules.AttrIsLocked: domain.Bool(false),
	},
	Lockable:  &domain.LockableComponent{},
	Container: &domain.ContainerComponent{Capacity: 8},
}

var Treasure = EntityTemplate{
	Name: "горсть монет",
	Type: domain.EntityTypeTreasure,
	Attrs: map[string]domain.Value{
		rules.AttrPickupable: domain.Bool(true),
	},
}

var Character = EntityTemplate{
	Name: "искатель",
	Type: domain.EntityTypeCharacter,
	Attrs: map[string]domain.Value{
		rules.AttrCanAct: domain.Bool(true),
	},
	Alive:     &domain.AliveComponent{HP: 100, MaxHP: 100, Attack: 10},
	Container: &domain.ContainerComponent{},
}

var Monster = EntityTemplate{
	Name: "гоблин",
	Type: domain.EntityTypeMonster,
	Attrs: map[string]domain.Value{
		rules.AttrCanAct: domain.Bool(true),
	},
	Alive: &domain.AliveComponent{HP: 15, MaxHP: 15, Attack: 2},
}

// NamedCharacter - персонаж с заданным именем (для подключающихся клиентов).
func NamedCharacter(name string) EntityTemplate {
	t := Character
	t.Name = name
	return t
}
