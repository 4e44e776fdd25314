package repository

import (
	"context"
	"errors"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
)

// PushTokenRepository handles push token data access
type PushTokenRepository struct {
	db database.Database
}

// NewPushTokenRepository creates a new push token repository
func NewPushTokenRepository(db database.Database) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// UpsertByToken creates or refreshes a token registration. Re-registering
// an existing token value reassigns it to the given user.
func (r *PushTokenRepository) UpsertByToken(ctx context.Context, token *model.PushToken) error {
	existing, err := r.GetByToken(ctx, token.Token)
	if err != nil {
		return err
	}

	if existing != nil {
		query := `
			UPDATE type::record($id) SET
				user_id = $user_id,
				platform = $platform,
				updated_on = time::now()
		`
		vars := map[string]interface{}{
			"id":       existing.ID,
			"user_id":  token.UserID,
			"platform": token.Platform,
		}
		if err := r.db.Execute(ctx, query, vars); err != nil {
			return err
		}
		token.ID = existing.ID
		token.CreatedOn = existing.CreatedOn
		return nil
	}

	query := `
		CREATE push_token CONTENT {
			user_id: $user_id,
			token: $push_token,
			platform: $platform,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":    token.UserID,
		"push_token": token.Token,
		"platform":   token.Platform,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}
	return decodeRecord(result, token)
}

// GetByToken retrieves a registration by its token value
func (r *PushTokenRepository) GetByToken(ctx context.Context, token string) (*model.PushToken, error) {
	query := `SELECT * FROM push_token WHERE token = $push_token LIMIT 1`
	vars := map[string]interface{}{"push_token": token}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var t model.PushToken
	if err := decodeRecord(result, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll retrieves every registered token
func (r *PushTokenRepository) ListAll(ctx context.Context) ([]*model.PushToken, error) {
	query := `SELECT * FROM push_token`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return r.parseTokens(results), nil
}

// ListByUser retrieves all tokens registered by a user
func (r *PushTokenRepository) ListByUser(ctx context.Context, userID string) ([]*model.PushToken, error) {
	query := `SELECT * FROM push_token WHERE user_id = $user_id`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return r.parseTokens(results), nil
}

// DeleteByToken removes a registration by its token value
func (r *PushTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE push_token WHERE token = $push_token`
	return r.db.Execute(ctx, query, map[string]interface{}{"push_token": token})
}

// parseTokens parses multiple push token results
func (r *PushTokenRepository) parseTokens(results []interface{}) []*model.PushToken {
	tokens := make([]*model.PushToken, 0)
	for _, result := range results {
		for _, row := range unwrapRows(result) {
			var t model.PushToken
			if err := decodeRecord(row, &t); err == nil {
				tokens = append(tokens, &t)
			}
		}
	}
	return tokens
}
