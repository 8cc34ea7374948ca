package rules

import (
	"fmt"

	"gridworld-server/internal/domain"
)

// EvalError - ошибка ВЫЧИСЛЕНИЯ предиката (битая ссылка, несравнимые
// типы, паника коллбека). Это отдельное состояние, а не синоним "ложь":
// резолвер отличает "условие не выполнено" от "условие не удалось проверить".
type EvalError struct {
	Statement string
	Cause     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval %q: %v", e.Statement, e.Cause)
}

func (e *EvalError) Unwrap() error { return e.Cause }

// Callable - произвольный булев предикат над парой сущностей.
// Для одиночных утверждений target == nil.
type Callable func(source, target *domain.Entity) (bool, error)

// CompareFunc сравнивает два значения атрибутов.
// Ошибка означает несравнимые виды значений, а не "ложь".
type CompareFunc func(a, b domain.Value) (bool, error)

// AttrRef - путь к атрибуту: чей ("source"/"target") и какой.
type AttrRef struct {
	Entity    string `yaml:"entity"`
	Attribute string `yaml:"attribute"`
}

// Comparison - именованное кросс-сущностное сравнение двух атрибутов.
type Comparison struct {
	Left    AttrRef
	Right   AttrRef
	Compare CompareFunc
}

// Statement - декларативный предикат над одной или двумя сущностями.
// Утверждение выполняется, когда проходят ВСЕ три группы проверок:
// точные значения атрибутов, сравнения и коллбеки.
type Statement struct {
	// Describe - человекочитаемое описание для разбора отказов.
	Describe string

	// Conditions - требуемые значения атрибутов субъекта утверждения.
	Conditions map[string]domain.Value

	// Comparisons - именованные сравнения атрибутов source и target.
	Comparisons map[string]Comparison

	// Callables - произвольные булевы предикаты.
	Callables []Callable
}

// Holds проверяет утверждение на одной сущности.
func (s *Statement) Holds(e *domain.Entity) (bool, error) {
	return s.HoldsPair(e, nil)
}

// HoldsPair проверяет утверждение на паре (source, target).
// Conditions применяются к source (субъекту утверждения); Comparisons
// разрешают свои пути сами; Callables получают обе сущности.
func (s *Statement) HoldsPair(source, target *domain.Entity) (bool, error) {
	if source == nil {
		return false, &EvalError{Statement: s.Describe, Cause: fmt.Errorf("source отсутствует")}
	}

	// 1. Точные значения атрибутов
	for name, want := range s.Conditions {
		got, ok := source.Attr(name)
		if !ok {
			return false, nil // атрибута нет - условие не выполнено
		}
		if !got.Equal(want) {
			return false, nil
		}
	}

	// 2. Кросс-сущностные сравнения
	for cmpName, cmp := range s.Comparisons {
		left, err := resolveRef(cmp.Left, source, target)
		if err != nil {
			return false, &EvalError{Statement: s.Describe, Cause: fmt.Errorf("сравнение %q: %w", cmpName, err)}
		}
		right, err := resolveRef(cmp.Right, source, target)
		if err != nil {
			return false, &EvalError{Statement: s.Describe, Cause: fmt.Errorf("сравнение %q: %w", cmpName, err)}
		}
		ok, err := cmp.Compare(left, right)
		if err != nil {
			return false, &EvalError{Statement: s.Describe, Cause: fmt.Errorf("сравнение %q: %w", cmpName, err)}
		}
		if !ok {
			return false, nil
		}
	}

	// 3. Произвольные предикаты
	for i, fn := range s.Callables {
		ok, err := fn(source, target)
		if err != nil {
			return false, &EvalError{Statement: s.Describe, Cause: fmt.Errorf("предикат #%d: %w", i, err)}
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func resolveRef(ref AttrRef, source, target *domain.Entity) (domain.Value, error) {
	var e *domain.Entity
	switch ref.Entity {
	case "source":
		e = source
	case "target":
		e = target
	default:
		return domain.Value{}, fmt.Errorf("неизвестная сторона %q", ref.Entity)
	}
	if e == nil {
		return domain.Value{}, fmt.Errorf("сторона %q отсутствует", ref.Entity)
	}
	v, ok := e.Attr(ref.Attribute)
	if !ok {
		return domain.Value{}, fmt.Errorf("у %s нет атрибута %q", e.ID, ref.Attribute)
	}
	return v, nil
}

// --- СТАНДАРТНЫЕ ФУНКЦИИ СРАВНЕНИЯ ---

func CompareEq(a, b domain.Value) (bool, error) { return a.Equal(b), nil }

func CompareNe(a, b domain.Value) (bool, error) { return !a.Equal(b), nil }

func compareInts(op string, a, b domain.Value) (bool, error) {
	ai, aok := a.AsInt()
	bi, bok := b.AsInt()
	if !aok || !bok {
		return false, fmt.Errorf("оператор %q применим только к int, получены %s и %s", op, a.Kind(), b.Kind())
	}
	switch op {
	case "lt":
		return ai < bi, nil
	case "le":
		return ai <= bi, nil
	case "gt":
		return ai > bi, nil
	case "ge":
		return ai >= bi, nil
	}
	return false, fmt.Errorf("неизвестный оператор %q", op)
}

func CompareLt(a, b domain.Value) (bool, error) { return compareInts("lt", a, b) }
func CompareLe(a, b domain.Value) (bool, error) { return compareInts("le", a, b) }
func CompareGt(a, b domain.Value) (bool, error) { return compareInts("gt", a, b) }
func CompareGe(a, b domain.Value) (bool, error) { return compareInts("ge", a, b) }
