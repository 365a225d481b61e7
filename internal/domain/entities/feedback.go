package entities

import "time"

// FeedbackType distinguishes star ratings from free text remarks
type FeedbackType string

const (
	FeedbackTypeRating  FeedbackType = "rating"
	FeedbackTypeComment FeedbackType = "comment"
)

// Feedback captures quick site feedback from visitors.
type Feedback struct {
	ID        string       `json:"id" db:"id"`
	Type      FeedbackType `json:"type" db:"type"`
	Rating    *int         `json:"rating,omitempty" db:"rating"`
	Message   string       `json:"message,omitempty" db:"message"`
	PageTitle string       `json:"page_title,omitempty" db:"page_title"`
	PageURL   string       `json:"page_url,omitempty" db:"page_url"`
	UserAgent string       `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress string       `json:"-" db:"ip_address"`
	Status    string       `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
