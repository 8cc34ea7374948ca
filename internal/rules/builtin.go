package rules

import (
	"fmt"

	"gridworld-server/internal/domain"
)

// Имена встроенных действий
const (
	ActionOpen   = "open"
	ActionClose  = "close"
	ActionPickup = "pickup"
	ActionDrop   = "drop"
	ActionUnlock = "unlock"
)

// Общеупотребимые имена атрибутов встроенных действий
const (
	AttrCanAct     = "can_act"
	AttrOpen       = "open"
	AttrIsLocked   = "is_locked"
	AttrPickupable = "is_pickupable"
)

// RegisterBuiltins регистрирует встроенные действия. Они содержат
// функциональные трансформации и предикаты с доступом к миру, поэтому
// не выразимы в YAML и собираются кодом с замыканием на w.
func RegisterBuiltins(r *Registry, w *domain.World) error {
	actions := []*Action{
		newOpenAction(w),
		newCloseAction(w),
		newPickupAction(w),
		newDropAction(w),
		newUnlockAction(w),
	}
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// adjacencyStatement - парное утверждение "source рядом с target".
// Позиции разрешаются через мир: удерживаемая сущность находится там,
// где её держатель.
func adjacencyStatement(w *domain.World) *Statement {
	return &Statement{
		Describe: "источник рядом с целью",
		Callables: []Callable{
			func(source, target *domain.Entity) (bool, error) {
				if target == nil {
					return false, fmt.Errorf("цель отсутствует")
				}
				sp, ok := w.PositionOf(source)
				if !ok {
					return false, fmt.Errorf("источник вне мира")
				}
				tp, ok := w.PositionOf(target)
				if !ok {
					return false, fmt.Errorf("цель вне мира")
				}
				return sp.IsAdjacent(tp) || sp == tp, nil
			},
		},
	}
}

func canActStatement() *Statement {
	return &Statement{
		Describe:   "актор дееспособен",
		Conditions: map[string]domain.Value{AttrCanAct: domain.Bool(true)},
	}
}

// newOpenAction: открыть закрытую незапертую цель (дверь, сундук).
// Открытая дверь перестает блокировать движение и свет.
func newOpenAction(w *domain.World) *Action {
	return &Action{
		Name: ActionOpen,
		Prerequisites: Prerequisites{
			Source: []*Statement{canActStatement()},
			Target: []*Statement{
				{
					Describe: "цель закрыта и не заперта",
					Conditions: map[string]domain.Value{
						AttrOpen:     domain.Bool(false),
						AttrIsLocked: domain.Bool(false),
					},
				},
			},
			Pair: []*Statement{adjacencyStatement(w)},
		},
		Consequences: Consequences{
			Target: map[string]Transformation{
				AttrOpen:                  Lit(domain.Bool(true)),
				domain.AttrBlocksMovement: Lit(domain.Bool(false)),
				domain.AttrBlocksLight:    Lit(domain.Bool(false)),
			},
		},
	}
}

// newCloseAction: обратное open.
func newCloseAction(w *domain.World) *Action {
	return &Action{
		Name: ActionClose,
		Prerequisites: Prerequisites{
			Source: []*Statement{canActStatement()},
			Target: []*Statement{
				{
					Describe:   "цель открыта",
					Conditions: map[string]domain.Value{AttrOpen: domain.Bool(true)},
				},
			},
			Pair: []*Statement{adjacencyStatement(w)},
		},
		Consequences: Consequences{
			Target: map[string]Transformation{
				AttrOpen:                  Lit(domain.Bool(false)),
				domain.AttrBlocksMovement: Lit(domain.Bool(true)),
				domain.AttrBlocksLight:    Lit(domain.Bool(true)),
			},
		},
	}
}

// newPickupAction: положить цель в инвентарь источника.
func newPickupAction(w *domain.World) *Action {
	return &Action{
		Name: ActionPickup,
		Prerequisites: Prerequisites{
			Source: []*Statement{canActStatement()},
			Target: []*Statement{
				{
					Describe:   "цель можно подобрать",
					Conditions: map[string]domain.Value{AttrPickupable: domain.Bool(true)},
				},
			},
			Pair: []*Statement{adjacencyStatement(w)},
		},
		Consequences: Consequences{
			Target: map[string]Transformation{
				KeyStoredIn: Compute(func(source, target *domain.Entity) (domain.Value, error) {
					return domain.Str(string(source.ID)), nil
				}),
			},
		},
	}
}

// newDropAction: выпустить цель из инвентаря источника в его клетку.
// Порядок применения спец-ключей (stored_in раньше node) гарантирует,
// что к моменту размещения сущность уже свободна.
func newDropAction(w *domain.World) *Action {
	return &Action{
		Name: ActionDrop,
		Prerequisites: Prerequisites{
			Source: []*Statement{canActStatement()},
			Pair: []*Statement{
				{
					Describe: "цель лежит в инвентаре источника",
					Callables: []Callable{
						func(source, target *domain.Entity) (bool, error) {
							if target == nil {
								return false, fmt.Errorf("цель отсутствует")
							}
							return target.StoredIn == source.ID, nil
						},
					},
				},
			},
		},
		Consequences: Consequences{
			Target: map[string]Transformation{
				KeyStoredIn: Lit(domain.Str("")),
				KeyNode: Compute(func(source, target *domain.Entity) (domain.Value, error) {
					pos, ok := w.PositionOf(source)
					if !ok {
						return domain.Value{}, fmt.Errorf("источник вне мира, некуда выложить")
					}
					return domain.Tuple(pos.X, pos.Y), nil
				}),
			},
		},
	}
}

// newUnlockAction: отпереть цель подходящим ключом из инвентаря источника.
func newUnlockAction(w *domain.World) *Action {
	return &Action{
		Name: ActionUnlock,
		Prerequisites: Prerequisites{
			Source: []*Statement{canActStatement()},
			Target: []*Statement{
				{
					Describe:   "цель заперта",
					Conditions: map[string]domain.Value{AttrIsLocked: domain.Bool(true)},
				},
			},
			Pair: []*Statement{
				adjacencyStatement(w),
				{
					Describe: "у источника есть подходящий ключ",
					Callables: []Callable{
						func(source, target *domain.Entity) (bool, error) {
							if target == nil || target.Lockable == nil {
								return false, fmt.Errorf("цель не запираемая")
							}
							if target.Lockable.KeyID == "" {
								return false, nil
							}
							return source.HoldsEntity(target.Lockable.KeyID), nil
						},
					},
				},
			},
		},
		Consequences: Consequences{
			Target: map[string]Transformation{
				AttrIsLocked: Lit(domain.Bool(false)),
			},
		},
	}
}
