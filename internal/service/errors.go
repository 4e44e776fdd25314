package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== User Errors =====
var (
	ErrUserNotFound = errors.New("user not found")
)

// ===== Event Errors =====
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventNameExists = errors.New("an event with this name already exists")
)

// ===== Group Errors =====
var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupNameRequired = errors.New("group name is required")
	ErrGroupNameReserved = errors.New("group name is reserved")
	ErrGroupNameExists   = errors.New("a group with this name already exists")
	ErrNoEventsSelected  = errors.New("at least one event must be selected")
	ErrNoEligibleEvents  = errors.New("none of the selected events can be attached")
	ErrNotGroupCreator   = errors.New("only the group creator can edit the group")
)

// ===== Stream Errors =====
var (
	ErrUnknownTopic = errors.New("unknown stream topic")
)
