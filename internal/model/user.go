package model

import "time"

// User represents an authenticated person. The identifier comes from the
// external identity provider and doubles as the record id.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Groups    []string  `json:"groups"`    // group ids the user joined
	Interests []string  `json:"interests"` // event ids the user marked
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsMemberOf reports whether the user's groups set contains groupID.
func (u *User) IsMemberOf(groupID string) bool {
	for _, g := range u.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// IsInterestedIn reports whether the user's interests set contains eventID.
func (u *User) IsInterestedIn(eventID string) bool {
	for _, e := range u.Interests {
		if e == eventID {
			return true
		}
	}
	return false
}

// EnsureUserRequest carries the profile fields synced on first
// authenticated request.
type EnsureUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks the ensure-user request
func (r *EnsureUserRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	}
	if r.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}

	return errors
}
