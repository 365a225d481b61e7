package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, providers.EventChannelFacilityUpdates)
	require.NoError(t, err)

	f := &entities.Facility{ID: "f1", Slug: "jansen-elektra-utrecht-ut", Region: "Utrecht"}
	require.NoError(t, bus.Publish(ctx, providers.EventChannelFacilityUpdates, entities.NewFacilityEvent(f, entities.FacilityEventTypeApproved)))

	select {
	case ev := <-events:
		assert.Equal(t, "f1", ev.FacilityID)
		assert.Equal(t, entities.FacilityEventTypeApproved, ev.EventType)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryEventBus_CancelClosesChannel(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := bus.Subscribe(ctx, "c")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestMemoryEventBus_Close(t *testing.T) {
	bus := NewMemoryEventBus()
	events, err := bus.Subscribe(context.Background(), "c")
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-events
	assert.False(t, ok)

	late, err := bus.Subscribe(context.Background(), "c")
	require.NoError(t, err)
	_, ok = <-late
	assert.False(t, ok)
}
