package domain

import (
	"fmt"
	"sort"
	"strings"

	"gridworld-server/pkg/utils"
)

// EntityID - уникальный идентификатор сущности.
type EntityID string

// NoHolder - пустая ссылка "не лежит ни в чьем инвентаре".
const NoHolder EntityID = ""

// --- КАПАБИЛИТИ-КОМПОНЕНТЫ ---
// Вместо иерархии наследования сущность собирается из опциональных маркеров.
// Если указатель nil - способности нет.

// AliveComponent - живое существо (персонаж, монстр)
type AliveComponent struct {
	HP     int `json:"hp"`
	MaxHP  int `json:"maxHp"`
	Attack int `json:"attack"`
}

// LockableComponent - запираемый объект (дверь, сундук)
type LockableComponent struct {
	Locked bool     `json:"locked"`
	KeyID  EntityID `json:"keyId,omitempty"` // какой ключ подходит
}

// ContainerComponent - объект, способный хранить другие сущности
type ContainerComponent struct {
	Capacity int `json:"capacity"` // 0 = без ограничения
}

// --- СУЩНОСТЬ ---

// Entity - уникально идентифицируемый объект симуляции.
// Ссылки на узлы и другие сущности хранятся как ID и разрешаются через World,
// чтобы не плодить взаимные указатели между клетками и инвентарями.
//
// Инвариант вложенности: Location и StoredIn взаимоисключающие.
// Сущность либо стоит в клетке мира, либо лежит ровно в одном инвентаре.
type Entity struct {
	ID   EntityID `json:"id"`
	Type string   `json:"type"`
	Name string   `json:"name"`

	// Открытый набор именованных атрибутов (open, is_locked, material...)
	Attributes map[string]*Attribute `json:"-"`

	// Физические флаги. Агрегируются клеткой в производные флаги узла.
	BlocksMovement bool `json:"blocksMovement"`
	BlocksLight    bool `json:"blocksLight"`

	// Location - клетка мира, где стоит сущность. NoNode, если не размещена.
	Location NodeID `json:"location"`

	// StoredIn - держатель, в чьем инвентаре лежит сущность. NoHolder, если не держится.
	StoredIn EntityID `json:"storedIn,omitempty"`

	// Inventory - сущности, чей StoredIn указывает на эту сущность. Порядок вставки.
	Inventory []EntityID `json:"inventory,omitempty"`

	// Капабилити (nil = способности нет)
	Alive     *AliveComponent     `json:"alive,omitempty"`
	Lockable  *LockableComponent  `json:"lockable,omitempty"`
	Container *ContainerComponent `json:"container,omitempty"`
}

// NewEntity создает незакрепленную сущность (вне мира и вне инвентарей).
func NewEntity(entityType, name string) *Entity {
	return &Entity{
		ID:         EntityID(utils.GenerateID()),
		Type:       entityType,
		Name:       name,
		Attributes: make(map[string]*Attribute),
		Location:   NoNode,
		StoredIn:   NoHolder,
	}
}

// Attr возвращает значение атрибута по имени.
// Зарезервированные имена blocks_movement/blocks_light читаются из полей.
func (e *Entity) Attr(name string) (Value, bool) {
	switch name {
	case AttrBlocksMovement:
		return Bool(e.BlocksMovement), true
	case AttrBlocksLight:
		return Bool(e.BlocksLight), true
	}
	a, ok := e.Attributes[name]
	if !ok {
		return Value{}, false
	}
	return a.Value, true
}

// SetAttr записывает значение атрибута (создает ячейку, если её не было).
func (e *Entity) SetAttr(name string, v Value) error {
	if a, ok := e.Attributes[name]; ok {
		a.Value = v
		return nil
	}
	a, err := NewAttribute(name, v)
	if err != nil {
		return err
	}
	if e.Attributes == nil {
		e.Attributes = make(map[string]*Attribute)
	}
	e.Attributes[name] = a
	return nil
}

// MustSetAttr - как SetAttr, но паникует при невалидном атрибуте.
// Используется в фабриках шаблонов, где имена статически известны.
func (e *Entity) MustSetAttr(name string, v Value) *Entity {
	if err := e.SetAttr(name, v); err != nil {
		panic(err)
	}
	return e
}

// HoldsEntity проверяет, лежит ли item в инвентаре e.
func (e *Entity) HoldsEntity(id EntityID) bool {
	for _, held := range e.Inventory {
		if held == id {
			return true
		}
	}
	return false
}

// StateKey возвращает ключ идентичность+значения-атрибутов.
// Два временных слепка "одной и той же" сущности с разными значениями
// атрибутов различимы в множествах именно по этому ключу.
func (e *Entity) StateKey() string {
	names := make([]string, 0, len(e.Attributes))
	for name := range e.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(string(e.ID))
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%s", name, e.Attributes[name].Value.String())
	}
	fmt.Fprintf(&b, "|bm=%t|bl=%t", e.BlocksMovement, e.BlocksLight)
	return b.String()
}

// Зарезервированные имена полей, доступные через атрибутный слой.
const (
	AttrBlocksMovement = "blocks_movement"
	AttrBlocksLight    = "blocks_light"
)
