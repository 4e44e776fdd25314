package repository

import (
	"context"
	"time"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
)

// ReminderRepository handles pending reminder data access
type ReminderRepository struct {
	db database.Database
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db database.Database) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create registers a pending reminder. No dedup is applied; scheduling
// the same event twice stacks two pending reminders.
func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		CREATE reminder CONTENT {
			user_id: $user_id,
			event_id: $event_id,
			title: $title,
			body: $body,
			trigger_at: type::datetime($trigger_at),
			status: $status,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":    reminder.UserID,
		"event_id":   reminder.EventID,
		"title":      reminder.Title,
		"body":       reminder.Body,
		"trigger_at": reminder.TriggerAt.UTC().Format(time.RFC3339),
		"status":     model.ReminderStatusPending,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}
	return decodeRecord(result, reminder)
}

// ListPendingByUser retrieves a user's pending reminders
func (r *ReminderRepository) ListPendingByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	query := `SELECT * FROM reminder WHERE user_id = $user_id AND status = $status`
	vars := map[string]interface{}{
		"user_id": userID,
		"status":  model.ReminderStatusPending,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseReminders(results), nil
}

// ListDue retrieves pending reminders whose trigger time has passed
func (r *ReminderRepository) ListDue(ctx context.Context, asOf time.Time) ([]*model.Reminder, error) {
	query := `
		SELECT * FROM reminder
		WHERE status = $status AND trigger_at <= type::datetime($as_of)
		ORDER BY trigger_at ASC
	`
	vars := map[string]interface{}{
		"status": model.ReminderStatusPending,
		"as_of":  asOf.UTC().Format(time.RFC3339),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseReminders(results), nil
}

// MarkSent flips a set of reminders to sent in one batch
func (r *ReminderRepository) MarkSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	batch := database.NewAtomicBatch()
	for _, id := range ids {
		batch.Add(`UPDATE type::record($id) SET status = $status`, map[string]interface{}{
			"id":     id,
			"status": model.ReminderStatusSent,
		})
	}
	return batch.Execute(ctx, r.db)
}

// parseReminders parses multiple reminder results
func (r *ReminderRepository) parseReminders(results []interface{}) []*model.Reminder {
	reminders := make([]*model.Reminder, 0)
	for _, result := range results {
		for _, row := range unwrapRows(result) {
			var reminder model.Reminder
			if err := decodeRecord(row, &reminder); err == nil {
				reminders = append(reminders, &reminder)
			}
		}
	}
	return reminders
}
