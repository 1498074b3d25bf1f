package stun

import (
	"errors"
	"fmt"
)

// Sentinel parse errors, named after the wire-level fault they report.
var (
	ErrInvalidMethod        = errors.New("stun: invalid method")
	ErrInvalidClass         = errors.New("stun: invalid class")
	ErrInvalidTransactionID = errors.New("stun: invalid transaction id")
	ErrInvalidErrorCode     = errors.New("stun: invalid error code")
	ErrInvalidMessageIntegrity = errors.New("stun: invalid message-integrity")
	ErrShortBuffer          = errors.New("stun: buffer too short")
	ErrTrailingBytes        = errors.New("stun: trailing bytes inside attribute section")

	// ErrMessageIntegrityMismatch and ErrFingerprintMismatch are returned
	// by Message.Validate, not by Parse: the message decodes fine but its
	// authentication attributes don't check out.
	ErrMessageIntegrityMismatch = errors.New("stun: message-integrity mismatch")
	ErrFingerprintMismatch      = errors.New("stun: fingerprint mismatch")
)

// UnimplementedAttributeError reports a comprehension-required attribute
// type this codec does not recognize.
type UnimplementedAttributeError struct {
	Type uint16
}

func (e *UnimplementedAttributeError) Error() string {
	return fmt.Sprintf("stun: unimplemented comprehension-required attribute 0x%04x", e.Type)
}
