package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

// MemoryEventBus delivers events within one process. It backs single-node
// deployments without Redis and the service tests.
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.FacilityEvent]struct{}
	closed      bool
}

// Ensure MemoryEventBus implements EventBus
var _ providers.EventBus = (*MemoryEventBus)(nil)

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{subscribers: make(map[string]map[chan *entities.FacilityEvent]struct{})}
}

// Publish delivers event to every current subscriber of channel
func (b *MemoryEventBus) Publish(_ context.Context, channel string, event *entities.FacilityEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, dropping event")
		}
	}
	return nil
}

// Subscribe subscribes to events on a channel
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FacilityEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventChan := make(chan *entities.FacilityEvent, subscriberBuffer)
	if b.closed {
		close(eventChan)
		return eventChan, nil
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.FacilityEvent]struct{})
	}
	b.subscribers[channel][eventChan] = struct{}{}

	go func() {
		<-ctx.Done()
		b.remove(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *MemoryEventBus) remove(channel string, eventChan chan *entities.FacilityEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[channel][eventChan]; !ok {
		return
	}
	delete(b.subscribers[channel], eventChan)
	close(eventChan)
}

// Unsubscribe drops every subscriber of channel
func (b *MemoryEventBus) Unsubscribe(_ context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	b.closed = true
	return nil
}
