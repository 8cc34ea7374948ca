package engine

import (
	"fmt"
	"strings"

	"gridworld-server/internal/domain"
)

// EntityRef - суммаризованная ссылка на сущность: вместо ID клиент
// описывает сущность типом, позицией и опциональными фильтрами.
type EntityRef struct {
	Type     string         `json:"type,omitempty"`
	Position *[2]int        `json:"position,omitempty"`
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

// AmbiguousEntityError - под описание подходит больше одной сущности.
// Движок никогда не угадывает: ошибка перечисляет кандидатов и
// незаполненные поля, которыми ссылку можно уточнить.
type AmbiguousEntityError struct {
	Ref           EntityRef
	Candidates    []domain.EntityID
	MissingFields []string
}

func (e *AmbiguousEntityError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, id := range e.Candidates {
		ids[i] = string(id)
	}
	return fmt.Sprintf("неоднозначная ссылка: %d кандидатов [%s], уточните поля: %s",
		len(e.Candidates), strings.Join(ids, ", "), strings.Join(e.MissingFields, ", "))
}

// ResolveRef находит единственную сущность, подходящую под ссылку.
// Фильтры конъюнктивны: пустое поле не участвует в отборе.
// Ровно один кандидат - успех; ноль - ошибка "не найдено";
// больше одного - *AmbiguousEntityError.
func ResolveRef(w *domain.World, ref EntityRef) (*domain.Entity, error) {
	// Прямая ссылка по ID не требует перебора
	if ref.ID != "" {
		e := w.Entity(domain.EntityID(ref.ID))
		if e == nil {
			return nil, fmt.Errorf("сущность %s не найдена", ref.ID)
		}
		if !refMatches(w, e, ref) {
			return nil, fmt.Errorf("сущность %s не подходит под остальные фильтры ссылки", ref.ID)
		}
		return e, nil
	}

	var candidates []*domain.Entity
	for _, e := range w.Entities() {
		if refMatches(w, e, ref) {
			candidates = append(candidates, e)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("под ссылку %s не подходит ни одна сущность", describeRef(ref))
	case 1:
		return candidates[0], nil
	}

	ids := make([]domain.EntityID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return nil, &AmbiguousEntityError{
		Ref:           ref,
		Candidates:    ids,
		MissingFields: missingFields(ref),
	}
}

func refMatches(w *domain.World, e *domain.Entity, ref EntityRef) bool {
	if ref.Type != "" && e.Type != ref.Type {
		return false
	}
	if ref.Name != "" && e.Name != ref.Name {
		return false
	}
	if ref.Position != nil {
		pos, ok := w.PositionOf(e)
		if !ok || pos.X != ref.Position[0] || pos.Y != ref.Position[1] {
			return false
		}
	}
	for name, raw := range ref.Attrs {
		want, err := domain.ValueFromPrimitive(raw)
		if err != nil {
			return false
		}
		got, ok := e.Attr(name)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// missingFields перечисляет незадействованные поля ссылки - подсказка
// клиенту, чем различить кандидатов.
func missingFields(ref EntityRef) []string {
	var out []string
	if ref.ID == "" {
		out = append(out, "id")
	}
	if ref.Name == "" {
		out = append(out, "name")
	}
	if ref.Position == nil {
		out = append(out, "position")
	}
	if len(ref.Attrs) == 0 {
		out = append(out, "attrs")
	}
	return out
}

func describeRef(ref EntityRef) string {
	var parts []string
	if ref.Type != "" {
		parts = append(parts, "type="+ref.Type)
	}
	if ref.Name != "" {
		parts = append(parts, "name="+ref.Name)
	}
	if ref.Position != nil {
		parts = append(parts, fmt.Sprintf("position=(%d,%d)", ref.Position[0], ref.Position[1]))
	}
	for name, v := range ref.Attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", name, v))
	}
	if len(parts) == 0 {
		return "<пустая>"
	}
	return strings.Join(parts, ",")
}
