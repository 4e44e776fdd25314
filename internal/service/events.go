package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ssteja698/colony-events/internal/model"
)

// EventService handles event creation and exploration
type EventService struct {
	eventRepo EventRepository
	userRepo  UserRepository
}

// EventServiceConfig holds configuration for the event service
type EventServiceConfig struct {
	EventRepo EventRepository
	UserRepo  UserRepository
}

// NewEventService creates a new event service
func NewEventService(cfg EventServiceConfig) *EventService {
	return &EventService{
		eventRepo: cfg.EventRepo,
		userRepo:  cfg.UserRepo,
	}
}

// CreateEvent creates a public event organized by the given user. The
// name uniqueness check is a best-effort pre-check, not transactional;
// the store's unique index is the backstop.
func (s *EventService) CreateEvent(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := s.eventRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking event name: %w", err)
	}
	if existing != nil {
		return nil, ErrEventNameExists
	}

	event := &model.Event{
		Name:          name,
		Description:   req.Description,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Name,
		StartTime:     req.StartTime,
		OccursEvery:   req.OccursEvery,
		GroupID:       model.PublicGroupID,
		GroupName:     model.PublicGroupID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by id
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListVisible retrieves the events a user can explore: public events
// plus events attached to groups the user joined.
func (s *EventService) ListVisible(ctx context.Context, user *model.User) ([]*model.Event, error) {
	return s.eventRepo.ListVisible(ctx, user.Groups)
}

// InterestFeed resolves the user's interest set to event documents. The
// id set is chunked to the store's membership-query cap.
func (s *EventService) InterestFeed(ctx context.Context, user *model.User) ([]*model.Event, error) {
	if len(user.Interests) == 0 {
		return []*model.Event{}, nil
	}
	return s.eventRepo.ListByIDs(ctx, user.Interests)
}
