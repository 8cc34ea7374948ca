package engine

import (
	"encoding/json"
	"testing"

	"gridworld-server/internal/domain"
	"gridworld-server/pkg/api"
)

func newTestService(t *testing.T, w *domain.World) *Service {
	t.Helper()
	cfg := NewConfig()
	cfg.ViewRadius = 8
	return NewService(cfg, w, builtinRegistry(t, w))
}

func TestServiceApplyActionsPayload(t *testing.T) {
	w := createTestWorld(5, 5)
	hero := newActor("герой")
	key := newKey("ключ")
	placeAt(t, w, hero, 2, 2)
	placeAt(t, w, key, 2, 3)
	s := newTestService(t, w)

	raw := []byte(`{
		"actions": [
			{"action": "pickup",
			 "source": {"type": "CHARACTER"},
			 "target": {"type": "KEY", "position": [2, 3]}},
			{"action": "drop",
			 "source": {"type": "CHARACTER"},
			 "target": {"id": "` + string(key.ID) + `"}}
		]
	}`)

	payload, err := api.ParseActionsPayload(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("ParseActionsPayload: %v", err)
	}

	out := s.ApplyActionsPayload(payload)
	if len(out.Results) != 2 {
		t.Fatalf("результатов %d, ожидалось 2", len(out.Results))
	}
	if !out.Results[0].Success {
		t.Errorf("подбор должен пройти: %s", out.Results[0].Error)
	}
	if !out.Results[1].Success {
		t.Errorf("сброс должен пройти: %s", out.Results[1].Error)
	}
}

func TestServicePayloadResolutionFailures(t *testing.T) {
	w := createTestWorld(5, 5)
	hero := newActor("герой")
	key := newKey("ключ")
	placeAt(t, w, hero, 1, 1)
	placeAt(t, w, key, 1, 2)
	s := newTestService(t, w)

	t.Run("Незарегистрированное действие", func(t *testing.T) {
		out := s.ApplyActionsPayload(api.ActionsPayload{Actions: []api.ActionRequest{
			{Action: "fly", Source: api.EntityRefView{ID: string(hero.ID)}},
		}})
		if out.Results[0].Success {
			t.Error("неизвестное действие должно дать отказ")
		}
	})

	t.Run("Неразрешимая ссылка не прерывает пакет", func(t *testing.T) {
		out := s.ApplyActionsPayload(api.ActionsPayload{Actions: []api.ActionRequest{
			{Action: "pickup",
				Source: api.EntityRefView{Type: domain.EntityTypeMonster},
				Target: &api.EntityRefView{ID: string(key.ID)}},
			{Action: "pickup",
				Source: api.EntityRefView{ID: string(hero.ID)},
				Target: &api.EntityRefView{ID: string(key.ID)}},
		}})
		if out.Results[0].Success {
			t.Error("ссылка на отсутствующего монстра должна дать отказ")
		}
		if !out.Results[1].Success {
			t.Errorf("второе действие должно пройти: %s", out.Results[1].Error)
		}
	})
}

func TestServiceBuildStateFor(t *testing.T) {
	w := createTestWorld(9, 9)
	hero := newActor("герой")
	wall := domain.NewEntity(domain.EntityTypeWall, "стена")
	wall.BlocksMovement = true
	wall.BlocksLight = true
	hidden := domain.NewEntity(domain.EntityTypeChest, "сундук")
	placeAt(t, w, hero, 4, 4)
	placeAt(t, w, wall, 5, 4)
	placeAt(t, w, hidden, 7, 4) // за стеной

	pocket := newKey("карманный ключ")
	w.Register(pocket)
	if err := w.AddToInventory(hero, pocket); err != nil {
		t.Fatal(err)
	}

	s := newTestService(t, w)
	state := s.BuildStateFor(hero)
	if state == nil {
		t.Fatal("слепок для размещенного наблюдателя не должен быть nil")
	}
	if state.Grid.Width != 9 || state.Grid.Height != 9 {
		t.Errorf("метаданные грида %+v", state.Grid)
	}

	byID := make(map[string]api.EntityView)
	for _, v := range state.Entities {
		byID[v.ID] = v
	}
	if _, ok := byID[string(hero.ID)]; !ok {
		t.Error("наблюдатель видит себя")
	}
	if _, ok := byID[string(wall.ID)]; !ok {
		t.Error("стена в поле зрения видна")
	}
	if _, ok := byID[string(hidden.ID)]; ok {
		t.Error("сундук за стеной не должен быть виден")
	}
	if _, ok := byID[string(pocket.ID)]; !ok {
		t.Error("содержимое собственного инвентаря видно")
	}
	if inv := byID[string(hero.ID)].Inventory; len(inv) != 1 || inv[0] != string(pocket.ID) {
		t.Errorf("инвентарь в слепке = %v", inv)
	}
}
