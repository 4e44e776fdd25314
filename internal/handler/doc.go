// Package handler implements the HTTP surface of the Colony Events API.
//
// Handlers use Go 1.22 method-pattern routing, decode and validate
// request payloads, delegate to the service layer, and render responses
// as data envelopes or RFC 9457 problem details. Service errors are
// translated centrally by MapServiceError.
package handler
