package model

import "time"

// PushToken represents a registered device push token. One record per
// (user, token) pair; re-registering the same token refreshes it.
type PushToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform,omitempty"` // ios, android
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RegisterTokenRequest represents a request to register a device token
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// Validate checks if the register request is valid
func (r *RegisterTokenRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Token == "" {
		errors = append(errors, FieldError{Field: "token", Message: "token is required"})
	}

	return errors
}
