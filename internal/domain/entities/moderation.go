package entities

import (
	"strings"

	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

// StatusChange is a moderation decision on a facility or a claim
type StatusChange struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	AdminNotes      string `json:"admin_notes,omitempty"`
	ReviewedBy      string `json:"reviewed_by,omitempty"`
}

// ErrRejectionReasonRequired is returned when a rejection carries no reason
var ErrRejectionReasonRequired = apperrors.NewValidationError("rejection reason is required")

func (c *StatusChange) normalize() {
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	c.RejectionReason = strings.TrimSpace(c.RejectionReason)
	c.AdminNotes = strings.TrimSpace(c.AdminNotes)
}

// ValidateForFacility checks the decision against the facility lifecycle.
// Moving away from rejected clears the stored reason.
func (c *StatusChange) ValidateForFacility() error {
	c.normalize()
	status := FacilityStatus(c.Status)
	if !status.Valid() {
		return apperrors.NewValidationError("status must be one of active, pending, rejected")
	}
	if status == FacilityStatusRejected && c.RejectionReason == "" {
		return ErrRejectionReasonRequired
	}
	if status != FacilityStatusRejected {
		c.RejectionReason = ""
	}
	return nil
}

// ValidateForClaim checks the decision against the claim lifecycle
func (c *StatusChange) ValidateForClaim() error {
	c.normalize()
	status := ClaimStatus(c.Status)
	if !status.Valid() {
		return apperrors.NewValidationError("status must be one of pending, approved, rejected")
	}
	if status == ClaimStatusRejected && c.RejectionReason == "" {
		return ErrRejectionReasonRequired
	}
	if status != ClaimStatusRejected {
		c.RejectionReason = ""
	}
	return nil
}
