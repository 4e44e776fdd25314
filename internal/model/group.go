package model

import (
	"strings"
	"time"
)

// Group represents an interest group owning a set of attached events
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"` // globally unique, trimmed, "public" reserved
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id"`
	Members     []string  `json:"members"`   // user ids, creator auto-included
	EventIDs    []string  `json:"event_ids"` // events attached at create/edit time
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// HasMember reports whether the group's member set contains userID.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// HasEvent reports whether the group's attached events contain eventID.
func (g *Group) HasEvent(eventID string) bool {
	for _, e := range g.EventIDs {
		if e == eventID {
			return true
		}
	}
	return false
}

// Constraints
const (
	MaxGroupNameLength = 100
	MaxGroupDescLength = 500
)

// CreateGroupRequest represents a request to create a group
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	EventIDs    []string `json:"event_ids"`
}

// Validate checks if the create request is valid
func (r *CreateGroupRequest) Validate() []FieldError {
	var errors []FieldError

	name := strings.TrimSpace(r.Name)
	if name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > MaxGroupNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if strings.EqualFold(name, PublicGroupID) {
		errors = append(errors, FieldError{Field: "name", Message: "name is reserved"})
	}
	if len(r.Description) > MaxGroupDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 500 characters or less"})
	}
	if len(r.EventIDs) == 0 {
		errors = append(errors, FieldError{Field: "event_ids", Message: "at least one event must be attached"})
	}

	return errors
}

// UpdateGroupRequest represents a request to edit a group. The name is
// immutable after creation.
type UpdateGroupRequest struct {
	Description *string  `json:"description,omitempty"`
	EventIDs    []string `json:"event_ids"`
}

// Validate checks if the update request is valid
func (r *UpdateGroupRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Description != nil && len(*r.Description) > MaxGroupDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 500 characters or less"})
	}
	if len(r.EventIDs) == 0 {
		errors = append(errors, FieldError{Field: "event_ids", Message: "at least one event must be attached"})
	}

	return errors
}
