package handler

import (
	"context"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
)

// EventService interface for the event handler
type EventService interface {
	CreateEvent(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	ListVisible(ctx context.Context, user *model.User) ([]*model.Event, error)
	InterestFeed(ctx context.Context, user *model.User) ([]*model.Event, error)
}

// InterestService interface for interest toggling
type InterestService interface {
	AddInterest(ctx context.Context, userID, eventID string) error
	RemoveInterest(ctx context.Context, userID, eventID string) error
}

// EventHandler handles event HTTP requests
type EventHandler struct {
	events    EventService
	users     UserService
	interests InterestService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events EventService, users UserService, interests InterestService) *EventHandler {
	return &EventHandler{events: events, users: users, interests: interests}
}

// Create handles POST /v1/events - create a public event
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	organizer, err := h.users.GetUser(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	event, err := h.events.CreateEvent(ctx, organizer, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event)
}

// List handles GET /v1/events - events visible to the caller: public
// ones plus those of joined groups
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.events.ListVisible(ctx, user)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, events)
}

// Get handles GET /v1/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	event, err := h.events.GetEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event)
}

// Feed handles GET /v1/events/feed - the caller's interest set resolved
// to event documents
func (h *EventHandler) Feed(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.events.InterestFeed(ctx, user)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, events)
}

// AddInterest handles PUT /v1/events/{eventId}/interest
func (h *EventHandler) AddInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.interests.AddInterest(ctx, userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// RemoveInterest handles DELETE /v1/events/{eventId}/interest
func (h *EventHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.interests.RemoveInterest(ctx, userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
