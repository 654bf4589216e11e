// Package common defines shared constants and sentinel errors used across
// the entitlement client layers. Callers should use errors.Is to match
// these values; lower layers wrap them with context via fmt.Errorf("%w").
package common

import "errors"

var (
	// ErrStorage marks a failed read or write of the durable key/value store.
	// It is fatal for the current operation and never retried.
	ErrStorage = errors.New("storage error")

	// ErrTransport marks a failure reaching the entitlement service,
	// including non-2xx responses.
	ErrTransport = errors.New("transport error")

	// ErrSignature marks a response token that failed verification
	// (tampered, expired, wrong secret or unexpected algorithm).
	ErrSignature = errors.New("signature error")

	// ErrUnknownAction is returned when a host message names no known operation.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidConfig is returned by config validation.
	ErrInvalidConfig = errors.New("invalid config")
)
