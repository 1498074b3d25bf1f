package ice

import "errors"

// Sentinel errors surfaced by gathering and remote-candidate ingestion.
var (
	// ErrBindFailed wraps a socket bind failure during gathering; the
	// address is logged and skipped rather than failing Gather outright.
	ErrBindFailed = errors.New("ice: bind failed")

	ErrAgentClosed = errors.New("ice: agent is closed")

	// ErrInvalidValue is the range-validation error for Foundation and
	// ComponentID.
	ErrInvalidValue = errors.New("ice: invalid value")
)
