package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
)

// EventRepository handles event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		CREATE event CONTENT {
			name: $name,
			description: $description,
			organizer_id: $organizer_id,
			organizer_name: $organizer_name,
			start_time: type::datetime($start_time),
			occurs_every: $occurs_every,
			group_id: $group_id,
			group_name: $group_name,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":           event.Name,
		"description":    event.Description,
		"organizer_id":   event.OrganizerID,
		"organizer_name": event.OrganizerName,
		"start_time":     event.StartTime.UTC().Format(time.RFC3339),
		"occurs_every":   event.OccursEvery,
		"group_id":       event.GroupID,
		"group_name":     event.GroupName,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: event name already exists", database.ErrDuplicate)
		}
		return err
	}

	return decodeRecord(result, event)
}

// GetByID retrieves an event by its record id
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var event model.Event
	if err := decodeRecord(result, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByName retrieves an event by its exact name
func (r *EventRepository) GetByName(ctx context.Context, name string) (*model.Event, error) {
	query := `SELECT * FROM event WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var event model.Event
	if err := decodeRecord(result, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListAll retrieves all events ordered by start time
func (r *EventRepository) ListAll(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT * FROM event ORDER BY start_time ASC`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return r.parseEvents(results), nil
}

// ListVisible retrieves the events a user can see: public events plus
// events attached to any of the given groups.
func (r *EventRepository) ListVisible(ctx context.Context, groupIDs []string) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE group_id = $public OR group_id IN $group_ids
		ORDER BY start_time ASC
	`
	vars := map[string]interface{}{
		"public":    model.PublicGroupID,
		"group_ids": groupIDs,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseEvents(results), nil
}

// ListByGroup retrieves all events attached to a group
func (r *EventRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE group_id = $group_id`
	vars := map[string]interface{}{"group_id": groupID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseEvents(results), nil
}

// ListStartingBetween retrieves events whose start time falls in the
// half-open window [from, to).
func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE start_time >= type::datetime($from) AND start_time < type::datetime($to)
		ORDER BY start_time ASC
	`
	vars := map[string]interface{}{
		"from": from.UTC().Format(time.RFC3339),
		"to":   to.UTC().Format(time.RFC3339),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseEvents(results), nil
}

// ListByIDs resolves a set of event ids to documents. The store caps
// id-membership queries, so the id set is chunked.
func (r *EventRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.Event, error) {
	events := make([]*model.Event, 0, len(ids))

	for start := 0; start < len(ids); start += database.MaxIDsPerQuery {
		end := start + database.MaxIDsPerQuery
		if end > len(ids) {
			end = len(ids)
		}

		query := `SELECT * FROM event WHERE type::string(id) IN $ids`
		vars := map[string]interface{}{"ids": ids[start:end]}

		results, err := r.db.Query(ctx, query, vars)
		if err != nil {
			return nil, err
		}
		events = append(events, r.parseEvents(results)...)
	}

	return events, nil
}

// DecodeEvent decodes a raw record, as delivered by a live
// subscription, into an event.
func DecodeEvent(record map[string]interface{}) (*model.Event, error) {
	var event model.Event
	if err := decodeRecord(record, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// parseEvents parses multiple event results
func (r *EventRepository) parseEvents(results []interface{}) []*model.Event {
	events := make([]*model.Event, 0)
	for _, result := range results {
		for _, row := range unwrapRows(result) {
			var event model.Event
			if err := decodeRecord(row, &event); err == nil {
				events = append(events, &event)
			}
		}
	}
	return events
}
