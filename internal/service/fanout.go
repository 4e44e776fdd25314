package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

const (
	// UpcomingWindow is the half-open lookahead window [now, now+20m)
	// the reminder sweep selects events from.
	UpcomingWindow = 20 * time.Minute

	// PushBodyLimit is the hard cut applied to event descriptions in
	// push bodies. No ellipsis is added.
	PushBodyLimit = 80

	// FallbackBody is used when a newly created event has no description.
	FallbackBody = "New event"
)

// PushTokenRepository is the token access the fan-out needs
type PushTokenRepository interface {
	ListAll(ctx context.Context) ([]*model.PushToken, error)
}

// UpcomingEventRepository is the event access the fan-out needs
type UpcomingEventRepository interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error)
}

// FanoutService broadcasts push notifications: one message per
// (token x event) pair, submitted to the gateway as a single batch.
// Gateway failures are logged and swallowed; there is no retry and no
// pruning of dead tokens.
type FanoutService struct {
	tokenRepo PushTokenRepository
	eventRepo UpcomingEventRepository
	gateway   Gateway
	logger    *slog.Logger
}

// FanoutServiceConfig holds configuration for the fan-out service
type FanoutServiceConfig struct {
	TokenRepo PushTokenRepository
	EventRepo UpcomingEventRepository
	Gateway   Gateway
	Logger    *slog.Logger
}

// NewFanoutService creates a new fan-out service
func NewFanoutService(cfg FanoutServiceConfig) *FanoutService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FanoutService{
		tokenRepo: cfg.TokenRepo,
		eventRepo: cfg.EventRepo,
		gateway:   cfg.Gateway,
		logger:    logger,
	}
}

// OnEventCreated notifies every registered token about a new event
func (s *FanoutService) OnEventCreated(ctx context.Context, event *model.Event) error {
	tokens, err := s.tokenRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing push tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	body := TruncateBody(event.Description)
	if body == "" {
		body = FallbackBody
	}

	messages := make([]Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, NewMessage(token.Token, event.Name, body, map[string]string{
			"id": event.ID,
		}))
	}

	if err := s.gateway.Send(ctx, messages); err != nil {
		s.logger.Warn("event-created fan-out failed", "event_id", event.ID, "error", err)
	}
	return nil
}

// RemindUpcoming notifies every registered token about events starting
// in the next 20 minutes. When no events qualify, no gateway call is
// made. The title always says "in 15 min" regardless of the actual
// distance to the start time.
func (s *FanoutService) RemindUpcoming(ctx context.Context, now time.Time) error {
	events, err := s.eventRepo.ListStartingBetween(ctx, now, now.Add(UpcomingWindow))
	if err != nil {
		return fmt.Errorf("listing upcoming events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	tokens, err := s.tokenRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing push tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	messages := make([]Message, 0, len(events)*len(tokens))
	for _, event := range events {
		title := fmt.Sprintf("%s in 15 min", event.Name)
		body := TruncateBody(event.Description)
		for _, token := range tokens {
			messages = append(messages, NewMessage(token.Token, title, body, map[string]string{
				"id": event.ID,
			}))
		}
	}

	if err := s.gateway.Send(ctx, messages); err != nil {
		s.logger.Warn("upcoming-events fan-out failed", "events", len(events), "error", err)
	}
	return nil
}

// TruncateBody hard-cuts a description to the push body limit
func TruncateBody(s string) string {
	runes := []rune(s)
	if len(runes) <= PushBodyLimit {
		return s
	}
	return string(runes[:PushBodyLimit])
}
