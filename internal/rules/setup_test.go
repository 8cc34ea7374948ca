package rules

import (
	"os"
	"testing"

	"gridworld-server/internal/domain"
	"gridworld-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// createTestWorld - пустой мир w x h без сущностей.
func createTestWorld(width, height int) *domain.World {
	return domain.NewWorld(domain.NewGrid(width, height))
}

// placeAt регистрирует сущность и ставит её в клетку (x,y).
func placeAt(t *testing.T, w *domain.World, e *domain.Entity, x, y int) {
	t.Helper()
	w.Register(e)
	node := w.Grid.Node(domain.Position{X: x, Y: y})
	if node == nil {
		t.Fatalf("клетка (%d,%d) вне грида", x, y)
	}
	if err := w.PlaceInNode(e, node); err != nil {
		t.Fatalf("PlaceInNode(%s): %v", e.ID, err)
	}
}

// newActor - дееспособный персонаж для тестов действий.
func newActor(name string) *domain.Entity {
	e := domain.NewEntity(domain.EntityTypeCharacter, name)
	e.MustSetAttr(AttrCanAct, domain.Bool(true))
	return e
}

// newClosedDoor - закрытая незапертая дверь, блокирующая движение и свет.
func newClosedDoor() *domain.Entity {
	e := domain.NewEntity(domain.EntityTypeDoor, "дверь")
	e.MustSetAttr(AttrOpen, domain.Bool(false))
	e.MustSetAttr(AttrIsLocked, domain.Bool(false))
	e.BlocksMovement = true
	e.BlocksLight = true
	return e
}
