// Package service implements the business logic layer for Colony Events.
//
// Services own validation rules and orchestration of repository
// operations: group membership with its interest cascade, event
// creation, push notification fan-out, and reminder scheduling.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing easy mocking
// for unit tests and decoupling from the SurrealDB implementations.
package service
