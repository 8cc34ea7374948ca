package rules

import (
	"fmt"

	"gridworld-server/internal/domain"
)

// NotApplicableError - предусловия действия не выполнены.
// Несет полный разбор отказавших утверждений; никогда не фатальна -
// вызывающий может повторить с другими сущностями.
type NotApplicableError struct {
	Action   string
	Failures []FailedStatement
}

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("действие %q неприменимо: %s", e.Action, FormatFailures(e.Failures))
}

// Action - именованная пара предусловия/последствия.
type Action struct {
	Name          string
	Prerequisites Prerequisites
	Consequences  Consequences
}

// IsApplicable проверяет все три группы предусловий.
// Возвращает также список отказов для составления сообщения.
func (a *Action) IsApplicable(source, target *domain.Entity) (bool, []FailedStatement) {
	failures := a.Prerequisites.Check(source, target)
	return len(failures) == 0, failures
}

// Apply проверяет применимость и исполняет последствия.
// При невыполненных предусловиях возвращает *NotApplicableError,
// НЕ трогая ни одну из сущностей.
func (a *Action) Apply(w *domain.World, source, target *domain.Entity) error {
	ok, failures := a.IsApplicable(source, target)
	if !ok {
		return &NotApplicableError{Action: a.Name, Failures: failures}
	}
	return a.Consequences.Apply(w, source, target)
}
