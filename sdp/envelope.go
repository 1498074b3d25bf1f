package sdp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Type distinguishes an offer from an answer in the signalling envelope.
type Type string

const (
	TypeOffer  Type = "offer"
	TypeAnswer Type = "answer"
)

type envelope struct {
	Type Type   `json:"type"`
	SDP  string `json:"sdp"`
}

// MarshalEnvelope wraps the session description's text form plus a type
// tag into a base64-of-JSON string, for convenience at the signalling
// boundary (out-of-band transport itself remains out of scope).
func (s SessionDescription) MarshalEnvelope(t Type) (string, error) {
	b, err := json.Marshal(envelope{Type: t, SDP: s.String()})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// UnmarshalEnvelope is the inverse of MarshalEnvelope.
func UnmarshalEnvelope(raw string) (SessionDescription, Type, error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return SessionDescription{}, "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	var env envelope
	if err := json.Unmarshal(decoded, &env); err != nil {
		return SessionDescription{}, "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if env.Type != TypeOffer && env.Type != TypeAnswer {
		return SessionDescription{}, "", fmt.Errorf("%w: unknown type %q", ErrInvalidString, env.Type)
	}

	var s SessionDescription
	if err := s.Unmarshal(env.SDP); err != nil {
		return SessionDescription{}, "", err
	}

	return s, env.Type, nil
}
