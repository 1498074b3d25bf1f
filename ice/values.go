package ice

import (
	"fmt"
	"strings"
)

// iceCharset is the ASCII alphabet RFC 5245 reserves for foundations,
// ufrags, and passwords: [A-Za-z0-9+/].
const iceCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+/"

// Foundation identifies an equivalence class of candidates. This agent
// only ever mints foundations itself (the positional index of a local
// candidate as a decimal string), but the type still validates the ICE
// character set and the 1-32 character bound so it can also wrap a
// foundation read back off a remote candidate.
type Foundation string

// NewFoundation validates s against RFC 5245's foundation grammar.
func NewFoundation(s string) (Foundation, error) {
	if len(s) < 1 || len(s) > 32 {
		return "", fmt.Errorf("%w: foundation length %d out of [1,32]", ErrInvalidValue, len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(iceCharset, r) {
			return "", fmt.Errorf("%w: foundation %q contains non-ICE character %q", ErrInvalidValue, s, r)
		}
	}
	return Foundation(s), nil
}

// ComponentID is a candidate's component, 1-256 per RFC 5245 §4.1.1.1.
// This agent only ever gathers component 1 (RTP), but the type still
// validates the full legal range.
type ComponentID int

// NewComponentID validates n against the legal ICE component range.
func NewComponentID(n int) (ComponentID, error) {
	if n < 1 || n > 256 {
		return 0, fmt.Errorf("%w: component id %d out of [1,256]", ErrInvalidValue, n)
	}
	return ComponentID(n), nil
}

// Priority is a candidate's RFC 5245 §4.1.2.1 priority value.
type Priority uint32

// hostCandidatePriority is the fixed RFC 5245 §4.1.2.1 priority for a
// host-type IPv4 candidate at component 1: type-preference 126,
// local-preference 65535, component-id contribution 256-1.
const hostCandidatePriority Priority = Priority(126)<<24 + Priority(65535)<<8 + 255
