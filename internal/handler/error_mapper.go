package handler

import (
	"errors"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
	"github.com/ssteja698/colony-events/internal/service"
)

// MapServiceError translates service and database errors into RFC 9457
// problem responses. Unknown errors map to a generic 500 so internals
// never leak.
func MapServiceError(err error) *model.ProblemDetails {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrGroupNotFound):
		return model.NewNotFoundError("group")
	case errors.Is(err, service.ErrEventNameExists),
		errors.Is(err, service.ErrGroupNameExists):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrGroupNameRequired),
		errors.Is(err, service.ErrGroupNameReserved):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrNoEventsSelected),
		errors.Is(err, service.ErrNoEligibleEvents):
		return model.NewValidationError([]model.FieldError{{Field: "event_ids", Message: err.Error()}})
	case errors.Is(err, service.ErrNotGroupCreator):
		return model.NewForbiddenError(err.Error())
	case errors.Is(err, service.ErrUnknownTopic):
		return model.NewNotFoundError("stream topic")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("resource")
	case errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError("resource already exists")
	default:
		return model.NewInternalError("")
	}
}
