package rules

import (
	"fmt"
	"sort"

	"gridworld-server/internal/domain"
)

// Специальные имена трансформаций: они меняют ОТНОШЕНИЯ сущности,
// а не значение атрибута, и диспетчеризуются в операции вложенности.
const (
	KeyNode      = "node"      // Tuple(x,y) -> переместить в клетку
	KeyStoredIn  = "stored_in" // Str(holderID) -> положить в инвентарь; "" -> извлечь
	KeyInventory = "inventory" // IDList -> привести инвентарь к этому множеству
)

// TransformFunc вычисляет новое значение от пары (source, target).
type TransformFunc func(source, target *domain.Entity) (domain.Value, error)

// Transformation - либо литеральное значение, либо функция обеих сущностей.
type Transformation struct {
	Literal domain.Value
	Fn      TransformFunc
}

// Lit создает литеральную трансформацию.
func Lit(v domain.Value) Transformation { return Transformation{Literal: v} }

// Compute создает функциональную трансформацию.
func Compute(fn TransformFunc) Transformation { return Transformation{Fn: fn} }

func (t Transformation) value(source, target *domain.Entity) (domain.Value, error) {
	if t.Fn != nil {
		return t.Fn(source, target)
	}
	if t.Literal.IsZero() {
		return domain.Value{}, fmt.Errorf("пустая трансформация")
	}
	return t.Literal, nil
}

// Consequences - карты трансформаций для source и target.
type Consequences struct {
	Source map[string]Transformation
	Target map[string]Transformation
}

// Apply вычисляет и применяет все трансформации. Сущности мутируются
// на месте; первая ошибка прерывает применение (резолвер запишет отказ
// с уже снятым before-слепком).
func (c *Consequences) Apply(w *domain.World, source, target *domain.Entity) error {
	if err := applyMap(w, c.Source, source, source, target); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if target == nil {
		if len(c.Target) > 0 {
			return fmt.Errorf("target: трансформации заданы, но цели нет")
		}
		return nil
	}
	if err := applyMap(w, c.Target, target, source, target); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	return nil
}

// applyMap применяет трансформации к subject в фиксированном порядке:
// обычные атрибуты (по алфавиту), затем stored_in, inventory и node.
// Порядок специальных ключей существенен: "выпустить из инвентаря,
// потом поставить в клетку" - иначе drop невозможен.
func applyMap(w *domain.World, m map[string]Transformation, subject, source, target *domain.Entity) error {
	if len(m) == 0 {
		return nil
	}

	var plain []string
	for name := range m {
		switch name {
		case KeyNode, KeyStoredIn, KeyInventory:
		default:
			plain = append(plain, name)
		}
	}
	sort.Strings(plain)

	for _, name := range plain {
		v, err := m[name].value(source, target)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := applyAttr(w, subject, name, v); err != nil {
			return err
		}
	}

	for _, name := range []string{KeyStoredIn, KeyInventory, KeyNode} {
		t, ok := m[name]
		if !ok {
			continue
		}
		v, err := t.value(source, target)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := applyRelation(w, subject, name, v); err != nil {
			return err
		}
	}
	return nil
}

// applyAttr пишет обычный атрибут; зарезервированные физические флаги
// уходят через World, чтобы клетка пересчитала производные флаги.
func applyAttr(w *domain.World, subject *domain.Entity, name string, v domain.Value) error {
	switch name {
	case domain.AttrBlocksMovement:
		b, ok := v.AsBool()
		if !ok {
			return fmt.Errorf("%s: ожидался bool, получен %s", name, v.Kind())
		}
		w.SetBlocksMovement(subject, b)
		return nil
	case domain.AttrBlocksLight:
		b, ok := v.AsBool()
		if !ok {
			return fmt.Errorf("%s: ожидался bool, получен %s", name, v.Kind())
		}
		w.SetBlocksLight(subject, b)
		return nil
	}
	return subject.SetAttr(name, v)
}

// applyRelation интерпретирует специальный ключ как смену отношения.
func applyRelation(w *domain.World, subject *domain.Entity, name string, v domain.Value) error {
	switch name {
	case KeyNode:
		t, ok := v.AsTuple()
		if !ok {
			return fmt.Errorf("node: ожидался Tuple(x,y), получен %s", v.Kind())
		}
		node := w.Grid.Node(domain.Position{X: t[0], Y: t[1]})
		if node == nil {
			return fmt.Errorf("node: позиция (%d,%d) вне грида", t[0], t[1])
		}
		return w.MoveToNode(subject, node)

	case KeyStoredIn:
		s, ok := v.AsString()
		if !ok {
			return fmt.Errorf("stored_in: ожидался ID держателя, получен %s", v.Kind())
		}
		if s == "" {
			// Освобождение: извлечь из текущего инвентаря
			if subject.StoredIn == domain.NoHolder {
				return nil
			}
			holder := w.Entity(subject.StoredIn)
			if holder == nil {
				return fmt.Errorf("stored_in: держатель %s не найден", subject.StoredIn)
			}
			return w.RemoveFromInventory(holder, subject)
		}
		holder := w.Entity(domain.EntityID(s))
		if holder == nil {
			return fmt.Errorf("stored_in: держатель %s не найден", s)
		}
		return w.AddToInventory(holder, subject)

	case KeyInventory:
		ids, ok := v.AsIDList()
		if !ok {
			return fmt.Errorf("inventory: ожидался список ID, получен %s", v.Kind())
		}
		return reconcileInventory(w, subject, ids)
	}
	return fmt.Errorf("неизвестный специальный ключ %q", name)
}

// reconcileInventory приводит инвентарь holder к заданному множеству:
// лишние извлекаются, недостающие добавляются.
func reconcileInventory(w *domain.World, holder *domain.Entity, want []domain.EntityID) error {
	wanted := make(map[domain.EntityID]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}

	// Извлекаем лишних (копия списка: RemoveFromInventory мутирует его)
	current := make([]domain.EntityID, len(holder.Inventory))
	copy(current, holder.Inventory)
	for _, id := range current {
		if wanted[id] {
			continue
		}
		item := w.Entity(id)
		if item == nil {
			return fmt.Errorf("inventory: сущность %s не найдена", id)
		}
		if err := w.RemoveFromInventory(holder, item); err != nil {
			return err
		}
	}

	// Добавляем недостающих
	for _, id := range want {
		if holder.HoldsEntity(id) {
			continue
		}
		item := w.Entity(id)
		if item == nil {
			return fmt.Errorf("inventory: сущность %s не найдена", id)
		}
		if err := w.AddToInventory(holder, item); err != nil {
			return err
		}
	}
	return nil
}
