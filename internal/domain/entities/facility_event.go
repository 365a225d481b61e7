package entities

import (
	"time"

	"github.com/google/uuid"
)

// FacilityEventType represents the type of facility event
type FacilityEventType string

const (
	FacilityEventTypeSubmitted FacilityEventType = "facility.submitted"
	FacilityEventTypeImported  FacilityEventType = "facility.imported"
	FacilityEventTypeUpdated   FacilityEventType = "facility.updated"
	FacilityEventTypeApproved  FacilityEventType = "facility.approved"
	FacilityEventTypeRejected  FacilityEventType = "facility.rejected"
	FacilityEventTypeDeleted   FacilityEventType = "facility.deleted"
)

// FacilityEvent announces a change to a listing so caches and the suggest
// index can follow
type FacilityEvent struct {
	ID           string            `json:"id"`
	FacilityID   string            `json:"facility_id"`
	FacilitySlug string            `json:"facility_slug"`
	EventType    FacilityEventType `json:"event_type"`
	Region       string            `json:"region,omitempty"`
	RegionAbbr   string            `json:"region_abbr,omitempty"`
	City         string            `json:"city,omitempty"`
	TypeSlug     string            `json:"type_slug,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// NewFacilityEvent creates a new facility event
func NewFacilityEvent(f *Facility, eventType FacilityEventType) *FacilityEvent {
	return &FacilityEvent{
		ID:           uuid.NewString(),
		FacilityID:   f.ID,
		FacilitySlug: f.Slug,
		EventType:    eventType,
		Region:       f.Region,
		RegionAbbr:   f.RegionAbbr,
		City:         f.City,
		TypeSlug:     f.TypeSlug,
		Timestamp:    time.Now().UTC(),
	}
}

// EventTypeForStatus maps a moderation outcome to the event announcing it
func EventTypeForStatus(status FacilityStatus) FacilityEventType {
	switch status {
	case FacilityStatusActive:
		return FacilityEventTypeApproved
	case FacilityStatusRejected:
		return FacilityEventTypeRejected
	default:
		return FacilityEventTypeUpdated
	}
}
