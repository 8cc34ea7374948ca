package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/rules"
	"gridworld-server/pkg/logger"
)

// ActionInstance - одно действие к исполнению: кто, над кем, что.
// Target может быть пустым для действий без цели.
type ActionInstance struct {
	SourceID domain.EntityID
	TargetID domain.EntityID
	Action   *rules.Action
}

// ActionResult - исход одного действия с темпоральными слепками.
// StateBefore снимается всегда; StateAfter - только при успехе.
// Слепки ключуются ролями "source"/"target".
type ActionResult struct {
	Action      string                        `json:"action"`
	Success     bool                          `json:"success"`
	Error       string                        `json:"error,omitempty"`
	StateBefore map[string]domain.EntityState `json:"stateBefore"`
	StateAfter  map[string]domain.EntityState `json:"stateAfter,omitempty"`
}

// ActionsResults - исходы пакета в порядке подачи.
type ActionsResults struct {
	Results []ActionResult `json:"results"`
}

// Resolver исполняет пакеты действий над одним миром.
// Не потокобезопасен: вызывается только с гороутины движка.
type Resolver struct {
	world *domain.World
	log   *logrus.Entry
}

func NewResolver(w *domain.World) *Resolver {
	return &Resolver{
		world: w,
		log:   logger.WithComponent("resolver"),
	}
}

// ApplyActions исполняет пакет строго в порядке подачи.
// Пакет НЕ транзакционен: последующие действия видят мутации предыдущих,
// и отказ одного действия не откатывает и не прерывает остальные.
func (r *Resolver) ApplyActions(batch []ActionInstance) ActionsResults {
	out := ActionsResults{Results: make([]ActionResult, 0, len(batch))}
	for _, inst := range batch {
		out.Results = append(out.Results, r.ApplyOne(inst))
	}
	return out
}

// ApplyOne исполняет одно действие и двигает глобальное время.
func (r *Resolver) ApplyOne(inst ActionInstance) ActionResult {
	defer func() { r.world.GlobalTick++ }()
	if inst.Action == nil {
		return ActionResult{Success: false, Error: "действие не задано"}
	}

	res := ActionResult{Action: inst.Action.Name}

	source := r.world.Entity(inst.SourceID)
	if source == nil {
		res.Error = fmt.Sprintf("источник %s не найден", inst.SourceID)
		return res
	}
	var target *domain.Entity
	if inst.TargetID != "" {
		target = r.world.Entity(inst.TargetID)
		if target == nil {
			res.Error = fmt.Sprintf("цель %s не найдена", inst.TargetID)
			return res
		}
	}

	// 1. Слепок "до" - до любых проверок, чтобы отказ тоже нес контекст
	res.StateBefore = snapshotPair(r.world, source, target)

	// 2. Применимость
	ok, failures := inst.Action.IsApplicable(source, target)
	if !ok {
		res.Error = rules.FormatFailures(failures)
		r.log.WithFields(logrus.Fields{
			"action": inst.Action.Name,
			"source": source.ID,
		}).Debug("действие неприменимо")
		return res
	}

	// 3. Последствия. Ошибка исполнения - отказ этого действия,
	// пакет продолжается
	if err := inst.Action.Consequences.Apply(r.world, source, target); err != nil {
		res.Error = err.Error()
		r.log.WithFields(logrus.Fields{
			"action": inst.Action.Name,
			"source": source.ID,
			"error":  err,
		}).Warn("ошибка исполнения последствий")
		return res
	}

	// 4. Слепок "после"
	res.Success = true
	res.StateAfter = snapshotPair(r.world, source, target)
	return res
}

func snapshotPair(w *domain.World, source, target *domain.Entity) map[string]domain.EntityState {
	m := map[string]domain.EntityState{"source": w.SnapshotEntity(source)}
	if target != nil {
		m["target"] = w.SnapshotEntity(target)
	}
	return m
}
