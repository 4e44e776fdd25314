// Package database provides the document-store abstraction for Colony Events.
//
// This package defines the Database interface that abstracts SurrealDB
// operations, keeping business logic independent of the storage client.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// plus Live, which opens a change subscription on a table. A subscription
// emits a notification on every underlying create/update/delete until the
// caller cancels it; consumers own start/stop and must stop a subscription
// before replacing it.
//
// # Atomic Batches
//
// Multi-document mutations that must apply together are submitted through
// AtomicBatch (see transaction.go). Queries accumulate in memory and are
// wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION at execute time, so the
// store applies them all or none. There is no isolation between Add calls.
//
// # Error Handling
//
// Standard errors are defined for common failure cases and should be checked
// with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for document-store operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate name).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the store.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")

	// ErrSubscriptionClosed indicates a live subscription was cancelled or torn down.
	ErrSubscriptionClosed = errors.New("subscription closed")
)

// MaxIDsPerQuery is the store's cap on id-membership queries. Callers that
// resolve larger id sets must chunk them.
const MaxIDsPerQuery = 10

// Database defines the interface for document-store operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error

	// Live opens a change subscription on a table
	Live(ctx context.Context, table string) (*Subscription, error)
}

// ChangeAction describes what happened to a record in a live subscription.
type ChangeAction string

const (
	ActionCreate ChangeAction = "CREATE"
	ActionUpdate ChangeAction = "UPDATE"
	ActionDelete ChangeAction = "DELETE"
)

// Change is a single notification from a live subscription.
type Change struct {
	Action ChangeAction
	// Record holds the changed document as returned by the store. For
	// deletes it holds the record as it was before removal.
	Record map[string]interface{}
	// Err is set when the subscription failed; the channel closes after
	// an errored change is delivered.
	Err error
}

// Subscription is a cancellable live change feed for one table.
type Subscription struct {
	id      string
	changes chan Change
	cancel  func()
}

// NewSubscription wraps an existing change channel in a subscription.
// Fakes in tests use this; the SurrealDB implementation builds its own.
func NewSubscription(id string, changes chan Change, cancel func()) *Subscription {
	return &Subscription{id: id, changes: changes, cancel: cancel}
}

// Changes returns the channel of change notifications. The channel is closed
// when the subscription is cancelled or fails.
func (s *Subscription) Changes() <-chan Change {
	return s.changes
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
