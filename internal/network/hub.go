package network

import (
	"sync"

	"gridworld-server/internal/domain"
	"gridworld-server/pkg/api"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: EntityID -> Личный канал
	subscribers map[domain.EntityID]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.EntityID]chan api.ServerResponse),
	}
}

// Register создает личный канал для сущности
func (b *Broadcaster) Register(entityID domain.EntityID) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[entityID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[entityID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(entityID domain.EntityID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[entityID]; ok {
		close(ch)
		delete(b.subscribers, entityID)
	}
}

// SendTo отправляет сообщение конкретному ID (Unicast)
func (b *Broadcaster) SendTo(entityID domain.EntityID, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[entityID]; ok {
		select {
		case ch <- msg:
		default:
			// Переполненный канал не должен блокировать движок
		}
	}
}

// Broadcast отправляет всем подписчикам
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключен ли кто-то к этой сущности
func (b *Broadcaster) HasSubscriber(entityID domain.EntityID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[entityID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
