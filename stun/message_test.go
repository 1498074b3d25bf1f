package stun

import (
	"hash/crc32"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1/2 — header parse and serialize round trip.
func TestHeaderParseAndSerialize(t *testing.T) {
	raw := []byte{
		0x01, 0x01, 0x00, 0x00,
		0x21, 0x12, 0xA4, 0x42,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	msg, remainder, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, remainder)
	assert.Equal(t, MethodBinding, msg.Header.Method)
	assert.Equal(t, ClassSuccess, msg.Header.Class)
	assert.Equal(t, uint16(0), msg.Header.Length)
	assert.Equal(t, TransactionID{}, msg.Header.TransactionID)

	assert.Equal(t, raw, msg.Encode())
}

// Scenario 3 — USERNAME round trip, including the padding byte.
func TestUsernameRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x06, 0x00, 0x07, 'm', 'c', 'h', 'l', 'r', 'h', 'w', 0x00}

	attr, err := decodeAttribute(attrUsername, raw[4:11])
	require.NoError(t, err)
	assert.Equal(t, Username("mchlrhw"), attr)

	assert.Equal(t, raw, encodeAttribute(attr))
}

// Scenario 4 — FINGERPRINT round trip.
func TestFingerprintRoundTrip(t *testing.T) {
	raw := []byte{0x80, 0x28, 0x00, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}

	attr, err := decodeAttribute(attrFingerprint, raw[4:8])
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(0xDEADBEEF^fingerprintXOR), attr)

	assert.Equal(t, raw, encodeAttribute(attr))
}

func TestMessageIntegrityNoOtherAttributes(t *testing.T) {
	h := Header{Method: MethodBinding, Class: ClassRequest}
	m := Base(h).WithMessageIntegrity([]byte("pwd"))

	assert.Equal(t, uint16(24), m.Header.Length)
	require.Len(t, m.Attributes, 1)
	_, ok := m.Attributes[0].(MessageIntegrity)
	assert.True(t, ok)
}

func TestMessageIntegrityWithUsername(t *testing.T) {
	h := Header{Method: MethodBinding, Class: ClassRequest}
	m := Base(h).WithAttributes([]Attribute{Username("knuth")}).WithMessageIntegrity([]byte("pwd"))

	// USERNAME "knuth" is 5 bytes, padded to 8, +4 header = 12; +24 = 36.
	assert.Equal(t, uint16(36), m.Header.Length)
}

func TestFingerprintAddsEightBytes(t *testing.T) {
	h := Header{Method: MethodBinding, Class: ClassRequest}
	before := Base(h).WithMessageIntegrity([]byte("pwd"))
	after := before.WithFingerprint()

	assert.Equal(t, before.Header.Length+8, after.Header.Length)

	fp, ok := after.Attributes[len(after.Attributes)-1].(Fingerprint)
	require.True(t, ok)

	prefixHeader := before.Header
	prefixHeader.Length = before.Header.Length + 8
	prefix := encodeMessage(prefixHeader, before.Attributes)
	assert.Equal(t, crc32.ChecksumIEEE(prefix), uint32(fp))
}

func TestMessageRoundTripWithoutAuthAttributes(t *testing.T) {
	h := Header{Method: MethodBinding, Class: ClassRequest, TransactionID: TransactionID{1, 2, 3}}
	m := Base(h).WithAttributes([]Attribute{Priority(100), UseCandidate{}})

	encoded := m.Encode()
	decoded, remainder, err := Parse(encoded)
	require.NoError(t, err)
	assert.Empty(t, remainder)
	assert.Equal(t, m.Header, decoded.Header)
	assert.Equal(t, m.Attributes, decoded.Attributes)
}

func TestValidateMessageIntegrityAndFingerprint(t *testing.T) {
	key := []byte("the ice password")
	h := Header{Method: MethodBinding, Class: ClassSuccess, TransactionID: TransactionID{9}}
	m := Base(h).
		WithAttributes([]Attribute{Username("u"), XorMappedAddress{IP: net.ParseIP("203.0.113.5"), Port: 54321}}).
		WithMessageIntegrity(key).
		WithFingerprint()

	decoded, _, err := Parse(m.Encode())
	require.NoError(t, err)

	assert.NoError(t, decoded.Validate(key))
	assert.Error(t, decoded.Validate([]byte("wrong key")))
}

func TestXorMappedAddressInvariant(t *testing.T) {
	x := XorMappedAddress{IP: net.ParseIP("198.51.100.7").To4(), Port: 12345}
	encoded := x.encodeValue()

	attr, err := decodeAttribute(attrXorMappedAddress, encoded)
	require.NoError(t, err)

	got, ok := attr.(XorMappedAddress)
	require.True(t, ok)
	assert.True(t, got.IP.Equal(x.IP))
	assert.Equal(t, x.Port, got.Port)

	wirePort := x.Port ^ 0x2112
	gotWirePort := uint16(encoded[2])<<8 | uint16(encoded[3])
	assert.Equal(t, wirePort, gotWirePort)
}

func TestAttributeWireLengthRounding(t *testing.T) {
	attrs := []Attribute{Username("abc"), Username("abcd"), Priority(1), UseCandidate{}}
	for _, a := range attrs {
		encoded := encodeAttribute(a)
		padded := (int(a.Length()) + 3) &^ 3
		assert.Equal(t, 4+padded, len(encoded))

		gotLen := uint16(encoded[2])<<8 | uint16(encoded[3])
		assert.Equal(t, a.Length(), gotLen)
	}
}
