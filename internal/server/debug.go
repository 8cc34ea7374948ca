package server

import (
	"encoding/json"
	"net/http"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/engine"
)

// DebugHandler предоставляет read-only доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/world", h.handleWorldSummary)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/entity", h.handleDumpEntity)
	mux.HandleFunc("/debug/grid", h.handleDumpGrid)
	mux.HandleFunc("/debug/actions", h.handleListActions)
}

// /debug/world - размер грида, число сущностей, текущий тик
func (h *DebugHandler) handleWorldSummary(w http.ResponseWriter, r *http.Request) {
	type WorldSummary struct {
		Width       int `json:"width"`
		Height      int `json:"height"`
		EntityCount int `json:"entity_count"`
		Tick        int `json:"tick"`
		Subscribers int `json:"subscribers"`
	}

	world := h.Service.World
	writeJSON(w, WorldSummary{
		Width:       world.Grid.Width,
		Height:      world.Grid.Height,
		EntityCount: len(world.Entities()),
		Tick:        world.GlobalTick,
		Subscribers: h.Service.Hub.SubscriberCount(),
	})
}

// /debug/entities - полный дамп состояний всех сущностей (в порядке регистрации)
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	world := h.Service.World
	var dump []domain.EntityState
	for _, e := range world.Entities() {
		state := world.SnapshotEntity(e)
		state["id"] = string(e.ID)
		state["type"] = e.Type
		state["name"] = e.Name
		dump = append(dump, state)
	}
	writeJSON(w, dump)
}

// /debug/entity?id=... - слепок одной сущности
func (h *DebugHandler) handleDumpEntity(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	e := h.Service.World.Entity(domain.EntityID(id))
	if e == nil {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}
	state := h.Service.World.SnapshotEntity(e)
	state["id"] = string(e.ID)
	state["type"] = e.Type
	state["name"] = e.Name
	writeJSON(w, state)
}

// /debug/grid - производные флаги всех клеток
func (h *DebugHandler) handleDumpGrid(w http.ResponseWriter, r *http.Request) {
	type NodeDump struct {
		X              int      `json:"x"`
		Y              int      `json:"y"`
		BlocksMovement bool     `json:"blocksMovement"`
		BlocksLight    bool     `json:"blocksLight"`
		EntityIDs      []string `json:"entityIds,omitempty"`
	}

	grid := h.Service.World.Grid
	dump := make([]NodeDump, 0, grid.Width*grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			n := grid.Node(domain.Position{X: x, Y: y})
			nd := NodeDump{
				X: x, Y: y,
				BlocksMovement: n.BlocksMovement,
				BlocksLight:    n.BlocksLight,
			}
			for _, id := range n.EntityIDs {
				nd.EntityIDs = append(nd.EntityIDs, string(id))
			}
			dump = append(dump, nd)
		}
	}
	writeJSON(w, dump)
}

// /debug/actions - имена зарегистрированных действий
func (h *DebugHandler) handleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Registry.Names())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Пустой дамп возвращаем как [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
