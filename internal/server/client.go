package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gridworld-server/internal/domain"
	"gridworld-server/internal/engine"
	"gridworld-server/pkg/api"
	"gridworld-server/pkg/logger"
	"gridworld-server/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Пакеты действий с атрибутными фильтрами бывают объемными
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и движком
type Client struct {
	Engine   *engine.Service
	Conn     *websocket.Conn
	Send     chan api.ServerResponse
	EntityID domain.EntityID
}

func NewClient(e *engine.Service, conn *websocket.Conn) *Client {
	return &Client{
		Engine: e,
		Conn:   conn,
		Send:   make(chan api.ServerResponse, 256),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Engine.Hub.Unregister(c.EntityID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("entity_id", c.EntityID).Info("client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE: первая команда несет токен (ID сущности клиента)
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		logger.Log.Warn("handshake failed")
		return
	}

	c.EntityID = domain.EntityID(loginCmd.Token)
	if c.EntityID == "" {
		c.EntityID = domain.EntityID(utils.GenerateID())
	}

	// 2. ПОИСК ИЛИ СОЗДАНИЕ СУЩНОСТИ
	// Спавн уходит в гороутину движка: мир мутирует только она.
	if c.Engine.World.Entity(c.EntityID) == nil {
		logger.Log.Infof("entity %s not found, spawning", c.EntityID)
		spawnedID, err := c.Engine.Join(string(c.EntityID))
		if err != nil {
			logger.Log.WithError(err).Error("spawn failed")
			return
		}
		c.EntityID = spawnedID
	}

	logger.Log.WithFields(logrus.Fields{
		"entity_id": c.EntityID,
	}).Info("client logged in")

	// 3. ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := c.Engine.Hub.Register(c.EntityID)

	// Пересылка обновлений из Hub в writePump
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// Триггер первой отрисовки
	c.Engine.ProcessCommand(api.ClientCommand{Action: api.CommandInit, Token: string(c.EntityID)})

	// 4. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS error: %v", err)
			}
			break
		}
		cmd.Token = string(c.EntityID)
		c.Engine.ProcessCommand(cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
