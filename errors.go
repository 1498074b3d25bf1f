package rtcrs

import (
	"errors"
	"fmt"
)

// InvalidStateError indicates a phase transition was attempted out of
// order.
type InvalidStateError struct {
	Err error
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("rtcrs: InvalidStateError: %v", e.Err)
}

func (e *InvalidStateError) Unwrap() error { return e.Err }

// Types of InvalidStateErrors a PeerConnection's phase transitions report.
var (
	ErrNoRemoteDescription = errors.New("set_remote_description not yet called")
	ErrNoLocalDescription  = errors.New("set_local_description not yet called")
	ErrAlreadyNegotiated   = errors.New("local and remote descriptions already set")
)
