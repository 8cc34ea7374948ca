package rules

import (
	"fmt"
	"strings"

	"gridworld-server/internal/domain"
)

// Группы предусловий
const (
	GroupSource = "source"
	GroupTarget = "target"
	GroupPair   = "pair"
)

// FailedStatement - одно невыполненное (или непроверяемое) утверждение.
type FailedStatement struct {
	Group    string
	Describe string
	// Err != nil, когда утверждение не удалось вычислить (EvalError) -
	// это отдельное состояние, а не обычный отказ.
	Err error
}

func (f FailedStatement) String() string {
	if f.Err != nil {
		return fmt.Sprintf("[%s] %q: ошибка проверки: %v", f.Group, f.Describe, f.Err)
	}
	return fmt.Sprintf("[%s] %q", f.Group, f.Describe)
}

// Prerequisites - три списка утверждений: только source, только target,
// и парные. Действие применимо, когда выполняются ВСЕ утверждения всех групп.
type Prerequisites struct {
	Source []*Statement
	Target []*Statement
	Pair   []*Statement
}

// Check вычисляет все утверждения и возвращает полный список отказов.
// Пустой список означает "применимо". Мы не останавливаемся на первом
// отказе: вызывающему нужен полный разбор для сообщения об ошибке.
func (p *Prerequisites) Check(source, target *domain.Entity) []FailedStatement {
	var failures []FailedStatement

	for _, st := range p.Source {
		ok, err := st.Holds(source)
		if err != nil {
			failures = append(failures, FailedStatement{Group: GroupSource, Describe: st.Describe, Err: err})
		} else if !ok {
			failures = append(failures, FailedStatement{Group: GroupSource, Describe: st.Describe})
		}
	}

	for _, st := range p.Target {
		ok, err := st.Holds(target)
		if err != nil {
			failures = append(failures, FailedStatement{Group: GroupTarget, Describe: st.Describe, Err: err})
		} else if !ok {
			failures = append(failures, FailedStatement{Group: GroupTarget, Describe: st.Describe})
		}
	}

	for _, st := range p.Pair {
		ok, err := st.HoldsPair(source, target)
		if err != nil {
			failures = append(failures, FailedStatement{Group: GroupPair, Describe: st.Describe, Err: err})
		} else if !ok {
			failures = append(failures, FailedStatement{Group: GroupPair, Describe: st.Describe})
		}
	}

	return failures
}

// IsSatisfied - true, если ни одно утверждение не отказало.
func (p *Prerequisites) IsSatisfied(source, target *domain.Entity) bool {
	return len(p.Check(source, target)) == 0
}

// FormatFailures собирает человекочитаемый разбор отказов.
func FormatFailures(failures []FailedStatement) string {
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}
