package api

import (
	"encoding/json"
)

// Команды клиента
const (
	CommandInit    = "INIT"
	CommandActions = "ACTIONS"
)

// Типы ответов сервера
const (
	ResponseUpdate  = "UPDATE"
	ResponseResults = "RESULTS"
	ResponseError   = "ERROR"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сущности, от имени которой выполняется команда.
	Token string `json:"token,omitempty"`

	// Action название команды: ACTIONS, INIT.
	Action string `json:"action"`

	// Payload JSON-объект с данными команды. Структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EntityRefView - суммаризованная ссылка на сущность в пэйлоаде.
// Клиент может указывать точный id либо описывать сущность
// типом/позицией/именем/атрибутами.
type EntityRefView struct {
	ID       string         `json:"id,omitempty"`
	Type     string         `json:"type,omitempty"`
	Name     string         `json:"name,omitempty"`
	Position *[2]int        `json:"position,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

// ActionRequest - одно действие в пакете.
type ActionRequest struct {
	Action string         `json:"action"`
	Source EntityRefView  `json:"source"`
	Target *EntityRefView `json:"target,omitempty"`
}

// ActionsPayload - упорядоченный пакет действий (команда ACTIONS).
type ActionsPayload struct {
	Actions []ActionRequest `json:"actions"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту:
// персональный снимок мира плюс (опционально) результаты пакета действий.
type ServerResponse struct {
	// Type тип сообщения: UPDATE, RESULTS, ERROR.
	Type string `json:"type"`

	// Tick текущее глобальное время симуляции.
	Tick int `json:"tick"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Nodes срез видимых клеток.
	Nodes []NodeView `json:"nodes,omitempty"`

	// Entities срез видимых сущностей.
	Entities []EntityView `json:"entities,omitempty"`

	// Results исходы пакета действий в порядке подачи (Type == RESULTS).
	Results []ActionResultView `json:"results,omitempty"`

	// Error текст ошибки (Type == ERROR).
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// NodeView это DTO для одной клетки.
type NodeView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Производные флаги клетки (агрегат по стоящим в ней сущностям)
	BlocksMovement bool `json:"blocksMovement"`
	BlocksLight    bool `json:"blocksLight"`

	// IsVisible true, если клетка в текущем поле зрения наблюдателя.
	IsVisible bool `json:"isVisible"`
}

// EntityView это DTO для сущности.
type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`

	Pos *struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos,omitempty"`

	// Attrs плоский слепок атрибутов (имя -> примитив).
	Attrs map[string]any `json:"attrs,omitempty"`

	// Inventory ID сущностей в инвентаре.
	Inventory []string `json:"inventory,omitempty"`
}

// ActionResultView - исход одного действия.
type ActionResultView struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Темпоральные слепки по ролям "source"/"target".
	StateBefore map[string]map[string]any `json:"stateBefore,omitempty"`
	StateAfter  map[string]map[string]any `json:"stateAfter,omitempty"`
}
