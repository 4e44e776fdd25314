package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

// Scheduler registers one-shot reminders and lists the ones still
// pending. The production implementation persists reminder documents in
// the store; tests swap in an in-memory one.
type Scheduler interface {
	ScheduleAt(ctx context.Context, reminder *model.Reminder) error
	ListScheduled(ctx context.Context, userID string) ([]*model.Reminder, error)
}

// UserTokenRepository is the per-user token access reminder dispatch needs
type UserTokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.PushToken, error)
}

// DueReminderRepository is the dispatch-side reminder access
type DueReminderRepository interface {
	ListDue(ctx context.Context, asOf time.Time) ([]*model.Reminder, error)
	MarkSent(ctx context.Context, ids []string) error
}

// ReminderService schedules event reminders and dispatches the due ones.
//
// Schedule performs no dedup: calling it twice for the same event stacks
// two pending reminders. It also does not check that the trigger time is
// in the future; callers only offer the action for upcoming events.
type ReminderService struct {
	scheduler Scheduler
	dueRepo   DueReminderRepository
	tokenRepo UserTokenRepository
	gateway   Gateway
	logger    *slog.Logger
}

// ReminderServiceConfig holds configuration for the reminder service
type ReminderServiceConfig struct {
	Scheduler Scheduler
	DueRepo   DueReminderRepository
	TokenRepo UserTokenRepository
	Gateway   Gateway
	Logger    *slog.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(cfg ReminderServiceConfig) *ReminderService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderService{
		scheduler: cfg.Scheduler,
		dueRepo:   cfg.DueRepo,
		tokenRepo: cfg.TokenRepo,
		gateway:   cfg.Gateway,
		logger:    logger,
	}
}

// Schedule registers a reminder firing leadMinutes before the event
// starts. A lead of zero applies the default.
func (s *ReminderService) Schedule(ctx context.Context, userID string, event *model.Event, leadMinutes int) (*model.Reminder, error) {
	if leadMinutes == 0 {
		leadMinutes = model.DefaultReminderLeadMinutes
	}

	reminder := &model.Reminder{
		UserID:    userID,
		EventID:   event.ID,
		Title:     event.Name,
		Body:      TruncateBody(event.Description),
		TriggerAt: event.StartTime.Add(-time.Duration(leadMinutes) * time.Minute),
		Status:    model.ReminderStatusPending,
	}
	if err := s.scheduler.ScheduleAt(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// IsScheduled reports whether any pending reminder carries the given
// event id. A failing scheduler query reports false, not an error.
func (s *ReminderService) IsScheduled(ctx context.Context, userID, eventID string) bool {
	reminders, err := s.scheduler.ListScheduled(ctx, userID)
	if err != nil {
		return false
	}
	for _, reminder := range reminders {
		if reminder.EventID == eventID {
			return true
		}
	}
	return false
}

// DispatchDue sends every due reminder to its owner's tokens and marks
// it sent. Gateway failures are logged and swallowed; a failed reminder
// is still marked sent, mirroring the fire-and-forget push semantics.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time) error {
	due, err := s.dueRepo.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("listing due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	sent := make([]string, 0, len(due))
	for _, reminder := range due {
		tokens, err := s.tokenRepo.ListByUser(ctx, reminder.UserID)
		if err != nil {
			s.logger.Warn("listing tokens for reminder failed",
				"reminder_id", reminder.ID, "user_id", reminder.UserID, "error", err)
			continue
		}

		if len(tokens) > 0 {
			messages := make([]Message, 0, len(tokens))
			for _, token := range tokens {
				messages = append(messages, NewMessage(token.Token, reminder.Title, reminder.Body, map[string]string{
					"id": reminder.EventID,
				}))
			}
			if err := s.gateway.Send(ctx, messages); err != nil {
				s.logger.Warn("reminder dispatch failed", "reminder_id", reminder.ID, "error", err)
			}
		}

		sent = append(sent, reminder.ID)
	}

	return s.dueRepo.MarkSent(ctx, sent)
}

// StoreScheduler is the production Scheduler backed by the reminder
// repository.
type StoreScheduler struct {
	repo ReminderStore
}

// ReminderStore is the persistence the store scheduler needs
type ReminderStore interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	ListPendingByUser(ctx context.Context, userID string) ([]*model.Reminder, error)
}

// NewStoreScheduler creates a scheduler persisting reminders in the store
func NewStoreScheduler(repo ReminderStore) *StoreScheduler {
	return &StoreScheduler{repo: repo}
}

// ScheduleAt persists a pending reminder
func (s *StoreScheduler) ScheduleAt(ctx context.Context, reminder *model.Reminder) error {
	return s.repo.Create(ctx, reminder)
}

// ListScheduled lists the user's pending reminders
func (s *StoreScheduler) ListScheduled(ctx context.Context, userID string) ([]*model.Reminder, error) {
	return s.repo.ListPendingByUser(ctx, userID)
}
