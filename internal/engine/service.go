package engine

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/network"
	"gridworld-server/internal/rules"
	"gridworld-server/internal/systems"
	"gridworld-server/pkg/api"
	"gridworld-server/pkg/logger"
	"gridworld-server/pkg/utils"
	"gridworld-server/pkg/worldgen"
)

// Service - движок симуляции: мир, реестр действий, резолвер и хаб.
// Все мутации мира проходят через одну гороутину Run, питаемую
// CommandChan: один логический писатель, геометрия читает без блокировок.
type Service struct {
	Config   Config
	World    *domain.World
	Registry *rules.Registry
	Hub      *network.Broadcaster

	CommandChan chan api.ClientCommand
	JoinChan    chan JoinRequest

	resolver *Resolver
	log      *logrus.Entry
}

// JoinRequest - запрос на создание сущности для нового клиента.
// Обрабатывается гороутиной движка, ответ уходит в Reply.
type JoinRequest struct {
	Name  string
	Reply chan JoinReply
}

type JoinReply struct {
	EntityID domain.EntityID
	Err      error
}

func NewService(cfg Config, w *domain.World, registry *rules.Registry) *Service {
	return &Service{
		Config:      cfg,
		World:       w,
		Registry:    registry,
		Hub:         network.NewBroadcaster(),
		CommandChan: make(chan api.ClientCommand, 100),
		JoinChan:    make(chan JoinRequest, 16),
		resolver:    NewResolver(w),
		log:         logger.WithComponent("engine"),
	}
}

// Start запускает гороутину движка.
func (s *Service) Start() {
	go s.Run()
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Единственная точка входа для мутаций: команда уходит в канал движка.
func (s *Service) ProcessCommand(cmd api.ClientCommand) {
	if err := cmd.Validate(); err != nil {
		s.log.WithField("error", err).Warn("невалидная команда отброшена")
		return
	}
	s.CommandChan <- cmd
}

// Run - цикл движка. Команды и подключения обрабатываются строго
// последовательно: это единственная гороутина, мутирующая мир.
func (s *Service) Run() {
	s.log.Info("цикл движка запущен")

	for {
		select {
		case cmd := <-s.CommandChan:
			s.handleCommand(cmd)

		case join := <-s.JoinChan:
			rng := rand.New(rand.NewSource(utils.StringToSeed(join.Name)))
			e, err := worldgen.SpawnCharacterAt(s.World, join.Name, rng, domain.Position{X: 1, Y: 1})
			reply := JoinReply{Err: err}
			if e != nil {
				reply.EntityID = e.ID
			}
			join.Reply <- reply
		}
	}
}

func (s *Service) handleCommand(cmd api.ClientCommand) {
	observerID := domain.EntityID(cmd.Token)

	switch cmd.Action {
	case api.CommandInit:
		s.sendUpdate(observerID)

	case api.CommandActions:
		s.handleActions(observerID, cmd)

	default:
		s.Hub.SendTo(observerID, api.ServerResponse{
			Type:  api.ResponseError,
			Tick:  s.World.GlobalTick,
			Error: fmt.Sprintf("неизвестная команда %q", cmd.Action),
		})
	}
}

// Join создает сущность для нового клиента через гороутину движка.
func (s *Service) Join(name string) (domain.EntityID, error) {
	reply := make(chan JoinReply, 1)
	s.JoinChan <- JoinRequest{Name: name, Reply: reply}
	r := <-reply
	return r.EntityID, r.Err
}

// handleActions исполняет пакет действий и рассылает результаты.
func (s *Service) handleActions(observerID domain.EntityID, cmd api.ClientCommand) {
	payload, err := api.ParseActionsPayload(cmd.Payload)
	if err != nil {
		s.Hub.SendTo(observerID, api.ServerResponse{
			Type:  api.ResponseError,
			Tick:  s.World.GlobalTick,
			Error: err.Error(),
		})
		return
	}

	results := s.ApplyActionsPayload(payload)

	s.Hub.SendTo(observerID, api.ServerResponse{
		Type:       api.ResponseResults,
		Tick:       s.World.GlobalTick,
		MyEntityID: string(observerID),
		Results:    toResultViews(results),
	})

	// Все наблюдатели получают свежий персональный слепок
	s.publishUpdate()
}

// ApplyActionsPayload разрешает ссылки и исполняет пакет в порядке подачи.
// Ссылки разрешаются непосредственно перед своим действием: внутри пакета
// поздние ссылки видят мутации ранних действий.
func (s *Service) ApplyActionsPayload(payload api.ActionsPayload) ActionsResults {
	out := ActionsResults{Results: make([]ActionResult, 0, len(payload.Actions))}

	for _, req := range payload.Actions {
		inst, err := s.buildInstance(req)
		if err != nil {
			out.Results = append(out.Results, ActionResult{
				Action:  req.Action,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		out.Results = append(out.Results, s.resolver.ApplyOne(inst))
	}
	return out
}

func (s *Service) buildInstance(req api.ActionRequest) (ActionInstance, error) {
	action, ok := s.Registry.Get(req.Action)
	if !ok {
		return ActionInstance{}, fmt.Errorf("действие %q не зарегистрировано", req.Action)
	}

	source, err := ResolveRef(s.World, toRef(req.Source))
	if err != nil {
		return ActionInstance{}, fmt.Errorf("source: %w", err)
	}

	inst := ActionInstance{SourceID: source.ID, Action: action}
	if req.Target != nil {
		target, err := ResolveRef(s.World, toRef(*req.Target))
		if err != nil {
			return ActionInstance{}, fmt.Errorf("target: %w", err)
		}
		inst.TargetID = target.ID
	}
	return inst, nil
}

func toRef(v api.EntityRefView) EntityRef {
	return EntityRef{
		ID:       v.ID,
		Type:     v.Type,
		Name:     v.Name,
		Position: v.Position,
		Attrs:    v.Attrs,
	}
}

func toResultViews(r ActionsResults) []api.ActionResultView {
	views := make([]api.ActionResultView, len(r.Results))
	for i, res := range r.Results {
		views[i] = api.ActionResultView{
			Action:      res.Action,
			Success:     res.Success,
			Error:       res.Error,
			StateBefore: toStateViews(res.StateBefore),
			StateAfter:  toStateViews(res.StateAfter),
		}
	}
	return views
}

func toStateViews(states map[string]domain.EntityState) map[string]map[string]any {
	if states == nil {
		return nil
	}
	out := make(map[string]map[string]any, len(states))
	for role, st := range states {
		out[role] = st
	}
	return out
}

// publishUpdate рассылает состояние всем подключенным сущностям
func (s *Service) publishUpdate() {
	for _, e := range s.World.Entities() {
		if s.Hub.HasSubscriber(e.ID) {
			if state := s.BuildStateFor(e); state != nil {
				s.Hub.SendTo(e.ID, *state)
			}
		}
	}
}

func (s *Service) sendUpdate(observerID domain.EntityID) {
	observer := s.World.Entity(observerID)
	if observer == nil {
		s.Hub.SendTo(observerID, api.ServerResponse{
			Type:  api.ResponseError,
			Tick:  s.World.GlobalTick,
			Error: fmt.Sprintf("сущность %s не найдена", observerID),
		})
		return
	}
	if state := s.BuildStateFor(observer); state != nil {
		s.Hub.SendTo(observerID, *state)
	}
}

// BuildStateFor создает персональный слепок мира для observer:
// видимые клетки по теневому FOV плюс видимые сущности.
func (s *Service) BuildStateFor(observer *domain.Entity) *api.ServerResponse {
	pos, ok := s.World.PositionOf(observer)
	if !ok {
		return nil
	}

	visible := systems.ComputeShadow(s.World, pos, s.Config.ViewRadius)

	nodes := make([]api.NodeView, 0, len(visible))
	for _, n := range visible {
		nodes = append(nodes, api.NodeView{
			X:              n.Pos.X,
			Y:              n.Pos.Y,
			BlocksMovement: n.BlocksMovement,
			BlocksLight:    n.BlocksLight,
			IsVisible:      true,
		})
	}

	var entities []api.EntityView
	for _, e := range s.World.Entities() {
		isMine := e.ID == observer.ID || e.StoredIn == observer.ID
		if !isMine {
			if e.Location == domain.NoNode {
				continue // чужое содержимое инвентарей не видно
			}
			if _, seen := visible[e.Location]; !seen {
				continue
			}
		}
		entities = append(entities, s.toEntityView(e))
	}

	return &api.ServerResponse{
		Type:       api.ResponseUpdate,
		Tick:       s.World.GlobalTick,
		MyEntityID: string(observer.ID),
		Grid:       &api.GridMeta{Width: s.World.Grid.Width, Height: s.World.Grid.Height},
		Nodes:      nodes,
		Entities:   entities,
	}
}

// toEntityView конвертирует доменную сущность в DTO
func (s *Service) toEntityView(e *domain.Entity) api.EntityView {
	view := api.EntityView{
		ID:   string(e.ID),
		Type: e.Type,
		Name: e.Name,
	}

	if pos, ok := s.World.PositionOf(e); ok {
		view.Pos = &struct {
			X int `json:"x"`
			Y int `json:"y"`
		}{X: pos.X, Y: pos.Y}
	}

	state := s.World.SnapshotEntity(e)
	delete(state, "position")
	delete(state, "inventory")
	view.Attrs = state

	if len(e.Inventory) > 0 {
		view.Inventory = make([]string, len(e.Inventory))
		for i, id := range e.Inventory {
			view.Inventory[i] = string(id)
		}
	}
	return view
}
