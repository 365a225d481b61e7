package mocks

import (
	"context"
	"sync"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// RecordingEventBus keeps every published event for assertions
type RecordingEventBus struct {
	mu        sync.Mutex
	published []*entities.FacilityEvent
	Err       error
}

func (b *RecordingEventBus) Publish(_ context.Context, _ string, event *entities.FacilityEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.published = append(b.published, event)
	return nil
}

func (b *RecordingEventBus) Subscribe(context.Context, string) (<-chan *entities.FacilityEvent, error) {
	return make(chan *entities.FacilityEvent), nil
}

func (b *RecordingEventBus) Unsubscribe(context.Context, string) error { return nil }

func (b *RecordingEventBus) Close() error { return nil }

// Published returns a copy of the published events
func (b *RecordingEventBus) Published() []*entities.FacilityEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.FacilityEvent(nil), b.published...)
}
