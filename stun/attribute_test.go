package stun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeRoundTrip(t *testing.T) {
	e := ErrorCode{Code: ErrorUnauthenticated, Reason: "Unauthenticated"}

	attr, err := decodeAttribute(attrErrorCode, e.encodeValue())
	require.NoError(t, err)
	assert.Equal(t, e, attr)
}

func TestErrorCodeRejectsUnrecognized(t *testing.T) {
	value := []byte{0x00, 0x00, 0x09, 0x63, 'x'} // class bits 0x09&0x07 = 1, number 99 -> 199, not in the closed set
	_, err := decodeAttribute(attrErrorCode, value)
	assert.ErrorIs(t, err, ErrInvalidErrorCode)
}

func TestComprehensionOptionalPreservesUnknownType(t *testing.T) {
	value := []byte{0xAA, 0xBB, 0xCC}
	attr, err := decodeAttribute(0x8123, value)
	require.NoError(t, err)

	co, ok := attr.(ComprehensionOptional)
	require.True(t, ok)
	assert.Equal(t, uint16(0x8123), co.Type())
	assert.Equal(t, value, co.Data)
}

func TestUnimplementedComprehensionRequiredAttribute(t *testing.T) {
	_, err := decodeAttribute(0x000A, []byte{})
	var unimpl *UnimplementedAttributeError
	require.ErrorAs(t, err, &unimpl)
	assert.Equal(t, uint16(0x000A), unimpl.Type)
}

func TestUseCandidateZeroLength(t *testing.T) {
	attr, err := decodeAttribute(attrUseCandidate, nil)
	require.NoError(t, err)
	assert.Equal(t, UseCandidate{}, attr)
	assert.Equal(t, uint16(0), attr.Length())
}
