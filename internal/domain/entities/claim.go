package entities

import "time"

// ClaimStatus is the review state of an ownership claim
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Valid reports whether s is a known claim status
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// Claim is a request by a business owner to take over a listing
type Claim struct {
	ID                 string      `json:"id" db:"id"`
	UserID             string      `json:"user_id,omitempty" db:"user_id"`
	FacilityID         string      `json:"facility_id" db:"facility_id"`
	FacilitySlug       string      `json:"facility_slug" db:"facility_slug"`
	FacilityName       string      `json:"facility_name" db:"facility_name"`
	Status             ClaimStatus `json:"status" db:"status"`
	JobTitle           string      `json:"job_title,omitempty" db:"job_title"`
	CompanyName        string      `json:"company_name,omitempty" db:"company_name"`
	Message            string      `json:"message,omitempty" db:"message"`
	VerificationMethod string      `json:"verification_method,omitempty" db:"verification_method"`
	ContactEmail       string      `json:"contact_email" db:"contact_email"`
	ContactPhone       string      `json:"contact_phone,omitempty" db:"contact_phone"`
	AdminNotes         string      `json:"admin_notes,omitempty" db:"admin_notes"`
	RejectionReason    string      `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ReviewedAt         *time.Time  `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy         string      `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// ClaimWithFacility pairs a claim with the listing it refers to for the
// admin overview. Facility is nil when the listing has been deleted.
type ClaimWithFacility struct {
	*Claim
	Facility *FacilitySummary `json:"facility,omitempty"`
}
