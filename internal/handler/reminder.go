package handler

import (
	"context"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
)

// ReminderService interface for the reminder handler
type ReminderService interface {
	Schedule(ctx context.Context, userID string, event *model.Event, leadMinutes int) (*model.Reminder, error)
	IsScheduled(ctx context.Context, userID, eventID string) bool
}

// ReminderHandler handles event reminder HTTP requests
type ReminderHandler struct {
	reminders ReminderService
	events    EventService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders ReminderService, events EventService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, events: events}
}

// Schedule handles POST /v1/events/{eventId}/reminder. Scheduling twice
// for the same event stacks duplicate reminders.
func (h *ReminderHandler) Schedule(w http.ResponseWriter, r *http.Request) {
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

	var req model.ScheduleReminderRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	event, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	reminder, err := h.reminders.Schedule(ctx, userID, event, req.LeadMinutes)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, reminder)
}

// Status handles GET /v1/events/{eventId}/reminder - whether any pending
// reminder exists for the event. Lookup failures report false.
func (h *ReminderHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	scheduled := h.reminders.IsScheduled(ctx, userID, eventID)

	WriteData(w, http.StatusOK, map[string]bool{"scheduled": scheduled})
}
