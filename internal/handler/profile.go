package handler

import (
	"context"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
)

// UserService interface for the profile handler
type UserService interface {
	EnsureUser(ctx context.Context, userID string, req *model.EnsureUserRequest) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	users UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(users UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Ensure handles PUT /v1/profile - create or refresh the user document.
// Clients call this once after sign-in; the sets default to empty on
// first creation.
func (h *ProfileHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.EnsureUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	user, err := h.users.EnsureUser(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

// Get handles GET /v1/profile - fetch the caller's user document
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}
