// Package model defines the domain entities, request payloads, and the
// RFC 9457 problem-details error surface for the Colony Events API.
//
// Entities mirror the documents the store holds: users, events, groups,
// push tokens, and pending reminders. Request types carry their own
// Validate() returning field-level errors that handlers render as
// problem-details responses.
package model
