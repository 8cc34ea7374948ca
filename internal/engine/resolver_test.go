package engine

import (
	"strings"
	"testing"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/rules"
)

func TestResolverBatchOrder(t *testing.T) {
	w := createTestWorld(5, 5)
	registry := builtinRegistry(t, w)
	hero := newActor("герой")
	key := newKey("ключ")
	placeAt(t, w, hero, 2, 2)
	placeAt(t, w, key, 2, 3)

	pickup, _ := registry.Get(rules.ActionPickup)
	drop, _ := registry.Get(rules.ActionDrop)
	r := NewResolver(w)

	t.Run("Подбор затем сброс - оба успешны", func(t *testing.T) {
		out := r.ApplyActions([]ActionInstance{
			{SourceID: hero.ID, TargetID: key.ID, Action: pickup},
			{SourceID: hero.ID, TargetID: key.ID, Action: drop},
		})
		if len(out.Results) != 2 {
			t.Fatalf("ожидалось 2 результата, получено %d", len(out.Results))
		}
		if !out.Results[0].Success || !out.Results[1].Success {
			t.Fatalf("оба действия должны пройти: %+v", out.Results)
		}
		// Сброс видит мутацию подбора: ключ снова в клетке героя
		pos, _ := w.PositionOf(key)
		if pos != (domain.Position{X: 2, Y: 2}) {
			t.Errorf("ключ должен лежать в клетке героя, позиция %v", pos)
		}
	})

	t.Run("Обратный порядок - сброс отказывает, подбор проходит", func(t *testing.T) {
		// После предыдущего подтеста ключ лежит в клетке (2,2)
		out := r.ApplyActions([]ActionInstance{
			{SourceID: hero.ID, TargetID: key.ID, Action: drop},
			{SourceID: hero.ID, TargetID: key.ID, Action: pickup},
		})
		if out.Results[0].Success {
			t.Error("сброс не удерживаемого ключа должен отказать")
		}
		if !out.Results[1].Success {
			t.Errorf("подбор должен пройти несмотря на отказ сброса: %s", out.Results[1].Error)
		}
		if key.StoredIn != hero.ID {
			t.Error("после пакета ключ должен лежать у героя")
		}
	})
}

func TestResolverSnapshots(t *testing.T) {
	w := createTestWorld(5, 5)
	registry := builtinRegistry(t, w)
	hero := newActor("герой")
	door := domain.NewEntity(domain.EntityTypeDoor, "дверь")
	door.MustSetAttr(rules.AttrOpen, domain.Bool(false))
	door.MustSetAttr(rules.AttrIsLocked, domain.Bool(false))
	door.BlocksMovement = true
	door.BlocksLight = true
	placeAt(t, w, hero, 1, 1)
	placeAt(t, w, door, 2, 1)

	open, _ := registry.Get(rules.ActionOpen)
	r := NewResolver(w)

	res := r.ApplyOne(ActionInstance{SourceID: hero.ID, TargetID: door.ID, Action: open})
	if !res.Success {
		t.Fatalf("открытие должно пройти: %s", res.Error)
	}

	// Слепки темпоральны: "до" и "после" различаются значением open
	before := res.StateBefore["target"]
	after := res.StateAfter["target"]
	if before == nil || after == nil {
		t.Fatal("оба слепка цели должны присутствовать")
	}
	if before[rules.AttrOpen] != false {
		t.Errorf("в слепке до open = %v, ожидалось false", before[rules.AttrOpen])
	}
	if after[rules.AttrOpen] != true {
		t.Errorf("в слепке после open = %v, ожидалось true", after[rules.AttrOpen])
	}

	// Повторное открытие: отказ несет слепок "до" и разбор, но не "после"
	res = r.ApplyOne(ActionInstance{SourceID: hero.ID, TargetID: door.ID, Action: open})
	if res.Success {
		t.Fatal("открытие открытой двери должно отказать")
	}
	if res.StateBefore == nil {
		t.Error("отказ должен нести слепок до")
	}
	if res.StateAfter != nil {
		t.Error("отказ не должен нести слепок после")
	}
	if !strings.Contains(res.Error, "закрыта") {
		t.Errorf("разбор должен называть отказавшее утверждение: %s", res.Error)
	}
}

func TestResolverMissingEntities(t *testing.T) {
	w := createTestWorld(3, 3)
	registry := builtinRegistry(t, w)
	open, _ := registry.Get(rules.ActionOpen)
	r := NewResolver(w)

	res := r.ApplyOne(ActionInstance{SourceID: "нет", TargetID: "тоже нет", Action: open})
	if res.Success || res.Error == "" {
		t.Error("отсутствующий источник должен дать отказ с ошибкой")
	}

	res = r.ApplyOne(ActionInstance{SourceID: "нет", Action: nil})
	if res.Success {
		t.Error("пустое действие должно дать отказ")
	}
}

func TestResolverAdvancesTick(t *testing.T) {
	w := createTestWorld(3, 3)
	registry := builtinRegistry(t, w)
	open, _ := registry.Get(rules.ActionOpen)
	r := NewResolver(w)

	start := w.GlobalTick
	r.ApplyActions([]ActionInstance{
		{SourceID: "нет", Action: open},
		{SourceID: "нет", Action: open},
	})
	if w.GlobalTick != start+2 {
		t.Errorf("GlobalTick = %d, ожидалось %d", w.GlobalTick, start+2)
	}
}
