package rules

import (
	"testing"

	"gridworld-server/internal/domain"
)

func TestConsequencesRelationKeys(t *testing.T) {
	t.Run("node перемещает сущность", func(t *testing.T) {
		w := createTestWorld(5, 5)
		hero := newActor("герой")
		placeAt(t, w, hero, 0, 0)

		c := &Consequences{
			Source: map[string]Transformation{
				KeyNode: Lit(domain.Tuple(3, 4)),
			},
		}
		if err := c.Apply(w, hero, nil); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		pos, _ := w.PositionOf(hero)
		if pos != (domain.Position{X: 3, Y: 4}) {
			t.Errorf("позиция = %v, ожидалась (3,4)", pos)
		}
		if old := w.Grid.Node(domain.Position{X: 0, Y: 0}); len(old.EntityIDs) != 0 {
			t.Error("старая клетка должна опустеть")
		}
	})

	t.Run("node вне грида - ошибка", func(t *testing.T) {
		w := createTestWorld(5, 5)
		hero := newActor("герой")
		placeAt(t, w, hero, 0, 0)

		c := &Consequences{
			Source: map[string]Transformation{KeyNode: Lit(domain.Tuple(9, 9))},
		}
		if err := c.Apply(w, hero, nil); err == nil {
			t.Error("перемещение за грид должно вернуть ошибку")
		}
	})

	t.Run("inventory приводит состав к множеству", func(t *testing.T) {
		w := createTestWorld(5, 5)
		hero := newActor("герой")
		keep := domain.NewEntity(domain.EntityTypeKey, "остается")
		lose := domain.NewEntity(domain.EntityTypeKey, "уходит")
		gain := domain.NewEntity(domain.EntityTypeKey, "приходит")
		placeAt(t, w, hero, 2, 2)
		w.Register(keep)
		w.Register(lose)
		placeAt(t, w, gain, 2, 3)
		if err := w.AddToInventory(hero, keep); err != nil {
			t.Fatal(err)
		}
		if err := w.AddToInventory(hero, lose); err != nil {
			t.Fatal(err)
		}

		c := &Consequences{
			Source: map[string]Transformation{
				KeyInventory: Lit(domain.IDList(keep.ID, gain.ID)),
			},
		}
		if err := c.Apply(w, hero, nil); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if !hero.HoldsEntity(keep.ID) || !hero.HoldsEntity(gain.ID) {
			t.Error("инвентарь должен содержать keep и gain")
		}
		if hero.HoldsEntity(lose.ID) {
			t.Error("лишняя сущность должна быть извлечена")
		}
		if lose.StoredIn != domain.NoHolder {
			t.Error("извлеченная сущность никем не удерживается")
		}
	})

	t.Run("Трансформации цели без цели - ошибка", func(t *testing.T) {
		w := createTestWorld(3, 3)
		hero := newActor("герой")
		w.Register(hero)

		c := &Consequences{
			Target: map[string]Transformation{"x": Lit(domain.Int(1))},
		}
		if err := c.Apply(w, hero, nil); err == nil {
			t.Error("ожидалась ошибка: цель отсутствует")
		}
	})
}

func TestConsequencesReservedFlags(t *testing.T) {
	w := createTestWorld(3, 3)
	door := newClosedDoor()
	w.Register(door)
	node := w.Grid.Node(domain.Position{X: 1, Y: 1})
	if err := w.PlaceInNode(door, node); err != nil {
		t.Fatal(err)
	}
	if !node.BlocksMovement {
		t.Fatal("закрытая дверь должна блокировать клетку")
	}

	c := &Consequences{
		Source: map[string]Transformation{
			domain.AttrBlocksMovement: Lit(domain.Bool(false)),
			domain.AttrBlocksLight:    Lit(domain.Bool(false)),
		},
	}
	if err := c.Apply(w, door, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if node.BlocksMovement || node.BlocksLight {
		t.Error("флаги клетки должны пересчитаться через мир")
	}
}
