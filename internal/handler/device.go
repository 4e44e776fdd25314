package handler

import (
	"context"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
)

// PushTokenRepository interface for the device handler
type PushTokenRepository interface {
	UpsertByToken(ctx context.Context, token *model.PushToken) error
	ListByUser(ctx context.Context, userID string) ([]*model.PushToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

// DeviceHandler handles push token registration
type DeviceHandler struct {
	tokens PushTokenRepository
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(tokens PushTokenRepository) *DeviceHandler {
	return &DeviceHandler{tokens: tokens}
}

// Register handles POST /v1/devices - register or refresh a push token
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.RegisterTokenRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	pushToken := &model.PushToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.tokens.UpsertByToken(ctx, pushToken); err != nil {
		WriteError(w, model.NewInternalError("failed to register device"))
		return
	}

	WriteData(w, http.StatusCreated, pushToken)
}

// List handles GET /v1/devices - the caller's registered tokens
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	tokens, err := h.tokens.ListByUser(ctx, userID)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list devices"))
		return
	}

	// Mask token values in the listing
	sanitized := make([]map[string]interface{}, len(tokens))
	for i, t := range tokens {
		sanitized[i] = map[string]interface{}{
			"id":         t.ID,
			"platform":   t.Platform,
			"created_on": t.CreatedOn,
			"updated_on": t.UpdatedOn,
		}
	}

	WriteData(w, http.StatusOK, sanitized)
}

// Unregister handles DELETE /v1/devices - remove a token registration
func (h *DeviceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.RegisterTokenRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.Token == "" {
		WriteError(w, model.NewBadRequestError("token required"))
		return
	}

	if err := h.tokens.DeleteByToken(ctx, req.Token); err != nil {
		WriteError(w, model.NewInternalError("failed to unregister device"))
		return
	}

	WriteNoContent(w)
}
