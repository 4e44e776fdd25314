package model

import (
	"strings"
	"time"
)

// PublicGroupID is the sentinel group association meaning "unattached".
// An event whose GroupID equals this value belongs to no group and is
// visible to everyone.
const PublicGroupID = "public"

// Event represents a scheduled gathering
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"` // globally unique, trimmed
	Description   string    `json:"description,omitempty"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	StartTime     time.Time `json:"start_time"`
	// OccursEvery is a weekly recurrence mask of weekday indices (0=Sunday).
	// Informational only; it does not generate recurring instances.
	OccursEvery []int     `json:"occurs_every,omitempty"`
	GroupID     string    `json:"group_id"`             // group id or PublicGroupID
	GroupName   string    `json:"group_name,omitempty"` // denormalized, empty when public
	CreatedOn   time.Time `json:"created_on"`
}

// IsPublic reports whether the event is unattached to any group.
func (e *Event) IsPublic() bool {
	return e.GroupID == PublicGroupID
}

// IsPast reports whether the event's start time is before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.StartTime.Before(now)
}

// Constraints
const (
	MaxEventNameLength        = 100
	MaxEventDescriptionLength = 2000
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	OccursEvery []int     `json:"occurs_every,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateEventRequest) Validate() []FieldError {
	var errors []FieldError

	name := strings.TrimSpace(r.Name)
	if name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > MaxEventNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if len(r.Description) > MaxEventDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if r.StartTime.IsZero() {
		errors = append(errors, FieldError{Field: "start_time", Message: "start_time is required"})
	}
	for _, d := range r.OccursEvery {
		if d < 0 || d > 6 {
			errors = append(errors, FieldError{Field: "occurs_every", Message: "weekday indices must be between 0 and 6"})
			break
		}
	}

	return errors
}
