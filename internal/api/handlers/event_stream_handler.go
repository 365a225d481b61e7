package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

const (
	defaultHeartbeat = 30 * time.Second
	streamBuffer     = 50
)

// EventStreamHandler streams listing changes to the admin dashboard as
// server-sent events
type EventStreamHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   atomic.Int64
}

// NewEventStreamHandler creates a new event stream handler. A zero
// heartbeat uses the default of 30 seconds.
func NewEventStreamHandler(eventBus providers.EventBus, heartbeat time.Duration) *EventStreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventStreamHandler{
		eventBus:  eventBus,
		heartbeat: heartbeat,
	}
}

// eventFilter narrows a stream to one event type and/or one region
type eventFilter struct {
	eventType entities.FacilityEventType
	region    string
}

func (f eventFilter) matches(event *entities.FacilityEvent) bool {
	if f.eventType != "" && event.EventType != f.eventType {
		return false
	}
	if f.region != "" && !strings.EqualFold(event.Region, f.region) && !strings.EqualFold(event.RegionAbbr, f.region) {
		return false
	}
	return true
}

// StreamEvents handles GET /api/admin/events. Optional type and region
// query parameters filter the stream.
func (h *EventStreamHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	filter := eventFilter{
		eventType: entities.FacilityEventType(queryString(r, "type")),
		region:    regionParam(r),
	}

	// streams outlive the server write timeout
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warn().Err(err).Msg("failed to clear write deadline for event stream")
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventChan, err := h.eventBus.Subscribe(ctx, providers.EventChannelFacilityUpdates)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.clients.Add(1)
	defer h.clients.Add(-1)

	if err := h.send(w, rc, "connected", map[string]interface{}{
		"type":      string(filter.eventType),
		"region":    filter.region,
		"timestamp": time.Now().UTC(),
	}); err != nil {
		log.Warn().Err(err).Msg("event stream not supported by response writer")
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.send(w, rc, "heartbeat", map[string]interface{}{"timestamp": time.Now().UTC()}); err != nil {
				return
			}
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil || !filter.matches(event) {
				continue
			}
			if err := h.send(w, rc, string(event.EventType), event); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of open streams
func (h *EventStreamHandler) ClientCount() int {
	return int(h.clients.Load())
}

func (h *EventStreamHandler) send(w http.ResponseWriter, rc *http.ResponseController, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal stream event")
		return nil
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return err
	}
	return rc.Flush()
}
