package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements the Database interface for SurrealDB
type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates a new SurrealDB instance
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealDB) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealDB) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	_, err := s.db.Version(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query executes a query and returns results
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return output, nil
}

// QueryOne executes a query and returns a single result
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// Unwrap the response wrapper {status: "OK", result: [...]}
	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, ErrNotFound
				}
				return resultData[0], nil
			}
			// Result is not an array, return as-is (e.g., scalar values)
			return resp["result"], nil
		}
	}

	return first, nil
}

// Execute runs a query without returning results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// Live opens a change subscription on a table using a SurrealDB live query.
// The returned subscription keeps emitting until Close is called; after a
// transport failure it delivers one errored Change and closes the channel,
// so consumers can tear down and re-establish without leaking the previous
// subscription.
func (s *SurrealDB) Live(ctx context.Context, table string) (*Subscription, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	result, err := s.QueryOne(ctx, fmt.Sprintf("LIVE SELECT * FROM %s", table), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: starting live query: %v", ErrQuery, err)
	}
	liveID := fmt.Sprintf("%v", result)

	notifications, err := s.db.LiveNotifications(liveID)
	if err != nil {
		_ = s.Execute(ctx, "KILL $id", map[string]interface{}{"id": liveID})
		return nil, fmt.Errorf("%w: subscribing to live query: %v", ErrQuery, err)
	}

	sub := &Subscription{
		id:      liveID,
		changes: make(chan Change, 16),
	}

	var once sync.Once
	done := make(chan struct{})
	sub.cancel = func() {
		once.Do(func() {
			close(done)
			_ = s.Execute(context.Background(), "KILL $id", map[string]interface{}{"id": liveID})
		})
	}

	go func() {
		defer close(sub.changes)
		for {
			select {
			case <-done:
				return
			case n, ok := <-notifications:
				if !ok {
					select {
					case sub.changes <- Change{Err: ErrSubscriptionClosed}:
					case <-done:
					}
					return
				}
				change := Change{Action: ChangeAction(fmt.Sprintf("%v", n.Action))}
				if record, ok := n.Result.(map[string]interface{}); ok {
					change.Record = record
				}
				select {
				case sub.changes <- change:
				case <-done:
					return
				}
			}
		}
	}()

	return sub, nil
}
