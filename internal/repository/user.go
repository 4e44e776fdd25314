package repository

import (
	"context"
	"errors"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
)

// UserRepository handles user data access. The record id is the stable
// identifier supplied by the external identity provider.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure creates the user document on first sight and refreshes the
// profile fields on every later call. Set fields default to empty rather
// than staying absent.
func (r *UserRepository) Ensure(ctx context.Context, user *model.User) error {
	query := `
		UPSERT type::thing('user', $user_id) MERGE {
			name: $name,
			email: $email,
			groups: groups ?? [],
			interests: interests ?? [],
			created_on: created_on ?? time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	if err := decodeRecord(result, user); err != nil {
		return err
	}
	// Store the bare identity-provider id, not the prefixed record id.
	user.ID = bareID(user.ID)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT * FROM type::thing('user', $user_id)`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := decodeRecord(result, &user); err != nil {
		return nil, err
	}
	user.ID = bareID(user.ID)
	return &user, nil
}

// AddInterest adds an event id to the user's interests set
func (r *UserRepository) AddInterest(ctx context.Context, userID, eventID string) error {
	query := `
		UPDATE type::thing('user', $user_id) SET
			interests = array::union(interests ?? [], [$event_id]),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"user_id":  userID,
		"event_id": eventID,
	}
	return r.db.Execute(ctx, query, vars)
}

// RemoveInterest removes an event id from the user's interests set
func (r *UserRepository) RemoveInterest(ctx context.Context, userID, eventID string) error {
	return r.RemoveInterests(ctx, userID, []string{eventID})
}

// RemoveInterests removes a set of event ids from the user's interests
// in one write
func (r *UserRepository) RemoveInterests(ctx context.Context, userID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	query := `
		UPDATE type::thing('user', $user_id) SET
			interests = array::complement(interests ?? [], $event_ids),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"user_id":   userID,
		"event_ids": eventIDs,
	}
	return r.db.Execute(ctx, query, vars)
}
