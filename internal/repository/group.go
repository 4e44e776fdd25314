package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
)

// The table is named event_group because GROUP is a reserved keyword.

// GroupRepository handles group data access. Mutations that touch the
// group, the user's groups set, and attached events together are applied
// as one atomic batch so the bidirectional links never partially update.
type GroupRepository struct {
	db database.Database
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.Database) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithEvents creates the group document, adds the group to the
// creator's groups set, and retags every attached event, all in one
// batch. The group id is generated client-side so the dependent
// statements can reference it inside the same transaction.
func (r *GroupRepository) CreateWithEvents(ctx context.Context, group *model.Group, events []*model.Event) error {
	gid := uuid.NewString()
	groupID := "event_group:" + gid

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE type::thing('event_group', $gid) CONTENT {
			name: $name,
			description: $description,
			creator_id: $creator_id,
			members: [$creator_id],
			event_ids: $event_ids,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"gid":         gid,
		"name":        group.Name,
		"description": group.Description,
		"creator_id":  group.CreatorID,
		"event_ids":   group.EventIDs,
	})
	batch.Add(`
		UPDATE type::thing('user', $user_id) SET
			groups = array::union(groups ?? [], [$group_id]),
			updated_on = time::now()
	`, map[string]interface{}{
		"user_id":  group.CreatorID,
		"group_id": groupID,
	})
	for _, event := range events {
		batch.Add(`
			UPDATE type::record($id) SET group_id = $group_id, group_name = $group_name
		`, map[string]interface{}{
			"id":         event.ID,
			"group_id":   groupID,
			"group_name": group.Name,
		})
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: group name already exists", database.ErrDuplicate)
		}
		return err
	}

	group.ID = groupID
	group.Members = []string{group.CreatorID}
	return nil
}

// Join adds the user to the group's member set and the group to the
// user's groups set in one batch.
func (r *GroupRepository) Join(ctx context.Context, groupID, userID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($group_id) SET
			members = array::union(members ?? [], [$user_id]),
			updated_on = time::now()
	`, map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
	})
	batch.Add(`
		UPDATE type::thing('user', $user_id) SET
			groups = array::union(groups ?? [], [$group_id]),
			updated_on = time::now()
	`, map[string]interface{}{
		"user_id":  userID,
		"group_id": groupID,
	})
	return batch.Execute(ctx, r.db)
}

// Leave removes both sides of the membership link and drops the given
// event ids from the user's interests, all in one batch.
func (r *GroupRepository) Leave(ctx context.Context, groupID, userID string, eventIDs []string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($group_id) SET
			members = array::complement(members ?? [], [$user_id]),
			updated_on = time::now()
	`, map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
	})
	batch.Add(`
		UPDATE type::thing('user', $user_id) SET
			groups = array::complement(groups ?? [], [$group_id]),
			updated_on = time::now()
	`, map[string]interface{}{
		"user_id":  userID,
		"group_id": groupID,
	})
	if len(eventIDs) > 0 {
		batch.Add(`
			UPDATE type::thing('user', $user_id) SET
				interests = array::complement(interests ?? [], $event_ids)
		`, map[string]interface{}{
			"user_id":   userID,
			"event_ids": eventIDs,
		})
	}
	return batch.Execute(ctx, r.db)
}

// UpdateAttachments applies a group edit: new description and attachment
// list on the group document, newly attached events retagged to the
// group, and dropped events reverted to public, in one batch.
func (r *GroupRepository) UpdateAttachments(ctx context.Context, group *model.Group, attach []*model.Event, detach []string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($group_id) SET
			description = $description,
			event_ids = $event_ids,
			updated_on = time::now()
	`, map[string]interface{}{
		"group_id":    group.ID,
		"description": group.Description,
		"event_ids":   group.EventIDs,
	})
	for _, event := range attach {
		batch.Add(`
			UPDATE type::record($id) SET group_id = $group_id, group_name = $group_name
		`, map[string]interface{}{
			"id":         event.ID,
			"group_id":   group.ID,
			"group_name": group.Name,
		})
	}
	for _, eventID := range detach {
		batch.Add(`
			UPDATE type::record($id) SET group_id = $public, group_name = NONE
		`, map[string]interface{}{
			"id":     eventID,
			"public": model.PublicGroupID,
		})
	}
	return batch.Execute(ctx, r.db)
}

// GetByID retrieves a group by its record id
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var group model.Group
	if err := decodeRecord(result, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByName retrieves a group by its exact name
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*model.Group, error) {
	query := `SELECT * FROM event_group WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var group model.Group
	if err := decodeRecord(result, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListAll retrieves all groups ordered by name
func (r *GroupRepository) ListAll(ctx context.Context) ([]*model.Group, error) {
	query := `SELECT * FROM event_group ORDER BY name ASC`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	groups := make([]*model.Group, 0)
	for _, result := range results {
		for _, row := range unwrapRows(result) {
			var group model.Group
			if err := decodeRecord(row, &group); err == nil {
				groups = append(groups, &group)
			}
		}
	}
	return groups, nil
}
