package sdp

import (
	"errors"
	"fmt"
)

// Sentinel parse errors named after the textual fault they report.
var (
	ErrInvalidSessionDescription = errors.New("sdp: invalid session description")
	ErrUnsupportedTransport      = errors.New("sdp: unsupported candidate transport")
	ErrUnsupportedCandidateType  = errors.New("sdp: unsupported candidate type")

	ErrInvalidBase64 = errors.New("sdp: invalid base64 envelope")
	ErrInvalidJSON   = errors.New("sdp: invalid json envelope")
	ErrInvalidString = errors.New("sdp: invalid envelope string")
)

// InvalidCandidateError reports why an "a=candidate" line failed to
// parse, with the offending detail attached.
type InvalidCandidateError struct {
	Detail string
}

func (e *InvalidCandidateError) Error() string {
	return fmt.Sprintf("sdp: invalid candidate: %s", e.Detail)
}
