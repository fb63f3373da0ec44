package reconciliation

import "errors"

var (
	// Source errors
	ErrSourceUnavailable   = errors.New("reconciliation: order source temporarily unavailable")
	ErrSourceRequestFailed = errors.New("reconciliation: order source request failed")
	ErrInvalidResponse     = errors.New("reconciliation: invalid order source response")
	ErrOrderNotFound       = errors.New("reconciliation: order not found")

	// Update errors. ErrUpdateTimeout is kept distinct from the generic
	// request failures so callers can retry timeouts and surface remote
	// validation errors to the user.
	ErrUpdateTimeout  = errors.New("reconciliation: order update deadline exceeded")
	ErrUpdateRejected = errors.New("reconciliation: order update rejected by platform")

	// ErrNoOrderIdentity indicates a synchronized order was requested with
	// neither a source nor a counterpart side. This is a programming error
	// in the caller, not a runtime condition.
	ErrNoOrderIdentity = errors.New("reconciliation: synchronized order requires at least one side")
)
