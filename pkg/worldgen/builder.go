package worldgen

import (
	"fmt"
	"math/rand"

	"gridworld-server/internal/domain"
	"gridworld-server/pkg/logger"
)

// Build собирает детерминированный стартовый мир: комната с границей
// из стен, разделенная стеной с запертой дверью; ключ на стороне
// персонажа, сундук с сокровищем за дверью.
// Один и тот же сид дает побайтно одинаковый мир (включая ID сущностей).
func Build(width, height int, seed int64) (*domain.World, *domain.Entity, error) {
	if width < 7 || height < 5 {
		return nil, nil, fmt.Errorf("worldgen: мир %dx%d слишком мал (минимум 7x5)", width, height)
	}

	rng := rand.New(rand.NewSource(seed))
	w := domain.NewWorld(domain.NewGrid(width, height))

	// 1. Граница из стен
	for x := 0; x < width; x++ {
		if err := spawnAt(w, Wall, rng, x, 0); err != nil {
			return nil, nil, err
		}
		if err := spawnAt(w, Wall, rng, x, height-1); err != nil {
			return nil, nil, err
		}
	}
	for y := 1; y < height-1; y++ {
		if err := spawnAt(w, Wall, rng, 0, y); err != nil {
			return nil, nil, err
		}
		if err := spawnAt(w, Wall, rng, width-1, y); err != nil {
			return nil, nil, err
		}
	}

	// 2. Разделяющая стена с дверным проемом посередине
	midX := width / 2
	doorY := height / 2
	for y := 1; y < height-1; y++ {
		if y == doorY {
			continue
		}
		if err := spawnAt(w, Wall, rng, midX, y); err != nil {
			return nil, nil, err
		}
	}

	// 3. Ключ - в левой половине; дверь заперта именно им
	key := Key.Spawn(rng)
	w.Register(key)
	if err := w.PlaceInNode(key, w.Grid.Node(domain.Position{X: midX / 2, Y: doorY})); err != nil {
		return nil, nil, err
	}

	door := ClosedDoor.Spawn(rng)
	door.MustSetAttr("is_locked", domain.Bool(true))
	door.Lockable.Locked = true
	door.Lockable.KeyID = key.ID
	w.Register(door)
	if err := w.PlaceInNode(door, w.Grid.Node(domain.Position{X: midX, Y: doorY})); err != nil {
		return nil, nil, err
	}

	// 4. Сундук с сокровищем за дверью
	chest := Chest.Spawn(rng)
	treasure := Treasure.Spawn(rng)
	w.Register(chest)
	w.Register(treasure)
	if err := w.PlaceInNode(chest, w.Grid.Node(domain.Position{X: midX + (width-midX)/2, Y: doorY})); err != nil {
		return nil, nil, err
	}
	if err := w.AddToInventory(chest, treasure); err != nil {
		return nil, nil, err
	}

	// 5. Персонаж в левом верхнем углу комнаты
	character := Character.Spawn(rng)
	w.Register(character)
	if err := w.PlaceInNode(character, w.Grid.Node(domain.Position{X: 1, Y: 1})); err != nil {
		return nil, nil, err
	}

	logger.WithComponent("worldgen").WithField("seed", seed).
		Infof("мир %dx%d собран, сущностей: %d", width, height, len(w.Entities()))

	return w, character, nil
}

// SpawnCharacterAt создает именованного персонажа и ставит его в первую
// свободную клетку, начиная с предпочтительной позиции.
func SpawnCharacterAt(w *domain.World, name string, rng *rand.Rand, prefer domain.Position) (*domain.Entity, error) {
	character := NamedCharacter(name).Spawn(rng)
	w.Register(character)

	if node := w.Grid.Node(prefer); node != nil && !node.BlocksMovement {
		if err := w.PlaceInNode(character, node); err == nil {
			return character, nil
		}
	}
	for y := 0; y < w.Grid.Height; y++ {
		for x := 0; x < w.Grid.Width; x++ {
			node := w.Grid.Node(domain.Position{X: x, Y: y})
			if node.BlocksMovement || len(node.EntityIDs) > 0 {
				continue
			}
			if err := w.PlaceInNode(character, node); err != nil {
				return nil, err
			}
			return character, nil
		}
	}
	w.Unregister(character.ID)
	return nil, fmt.Errorf("worldgen: нет свободной клетки для %s", name)
}

func spawnAt(w *domain.World, t EntityTemplate, rng *rand.Rand, x, y int) error {
	e := t.Spawn(rng)
	w.Register(e)
	return w.PlaceInNode(e, w.Grid.Node(domain.Position{X: x, Y: y}))
}
