package model

import "time"

// ReminderStatus constants
const (
	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
)

// DefaultReminderLeadMinutes is the lead time applied when a schedule
// request does not specify one.
const DefaultReminderLeadMinutes = 15

// Reminder represents a one-shot scheduled notification for an event.
// Repeated schedule calls for the same event stack duplicate pending
// reminders; no dedup is performed.
type Reminder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	TriggerAt time.Time `json:"trigger_at"` // event start minus lead time
	Status    string    `json:"status"`     // pending, sent
	CreatedOn time.Time `json:"created_on"`
}

// ScheduleReminderRequest represents a request to schedule an event reminder
type ScheduleReminderRequest struct {
	LeadMinutes int `json:"lead_minutes,omitempty"` // defaults to 15
}

// Validate checks if the schedule request is valid
func (r *ScheduleReminderRequest) Validate() []FieldError {
	var errors []FieldError

	if r.LeadMinutes < 0 {
		errors = append(errors, FieldError{Field: "lead_minutes", Message: "lead_minutes must not be negative"})
	}

	return errors
}
