package domain

import "time"

// Notification is a stored message for librarian follow-up, e.g. a renewal
// request or an overdue reminder written by the nightly job. Nothing in
// this system delivers notifications anywhere; they only live in the table.
type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Read       bool              `json:"read"`
	CreatedOn  time.Time         `json:"created_on"`
}
