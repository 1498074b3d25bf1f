package stun

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Attribute type codes this codec dispatches on. Any comprehension-optional
// type (>= 0x8000) not listed here decodes as ComprehensionOptional;
// anything else comprehension-required and unrecognized fails to parse.
const (
	attrUsername         uint16 = 0x0006
	attrMessageIntegrity uint16 = 0x0008
	attrErrorCode        uint16 = 0x0009
	attrXorMappedAddress uint16 = 0x0020
	attrPriority         uint16 = 0x0024
	attrUseCandidate     uint16 = 0x0025
	attrFingerprint      uint16 = 0x8028

	comprehensionOptionalMin uint16 = 0x8000
)

// Attribute is the closed sum type of STUN attributes this codec knows
// about. Every variant knows its own type code, the unpadded length of
// its value, and how to serialize that value.
type Attribute interface {
	Type() uint16
	Length() uint16
	encodeValue() []byte
}

// Username carries the STUN USERNAME attribute: a UTF-8 string identifying
// the credential used for MESSAGE-INTEGRITY.
type Username string

func (u Username) Type() uint16       { return attrUsername }
func (u Username) Length() uint16     { return uint16(len(u)) }
func (u Username) encodeValue() []byte { return []byte(u) }

func decodeUsername(value []byte) (Attribute, error) {
	if len(value) > 513 {
		return nil, fmt.Errorf("stun: USERNAME value too long (%d bytes)", len(value))
	}
	return Username(value), nil
}

// Priority carries the STUN PRIORITY attribute used by ICE connectivity
// checks.
type Priority uint32

func (p Priority) Type() uint16   { return attrPriority }
func (p Priority) Length() uint16 { return 4 }
func (p Priority) encodeValue() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(p))
	return b
}

func decodePriority(value []byte) (Attribute, error) {
	if len(value) != 4 {
		return nil, fmt.Errorf("stun: PRIORITY value must be 4 bytes, got %d", len(value))
	}
	return Priority(binary.BigEndian.Uint32(value)), nil
}

// UseCandidate carries the zero-length STUN USE-CANDIDATE attribute.
type UseCandidate struct{}

func (UseCandidate) Type() uint16        { return attrUseCandidate }
func (UseCandidate) Length() uint16      { return 0 }
func (UseCandidate) encodeValue() []byte { return nil }

func decodeUseCandidate(value []byte) (Attribute, error) {
	if len(value) != 0 {
		return nil, fmt.Errorf("stun: USE-CANDIDATE value must be empty, got %d bytes", len(value))
	}
	return UseCandidate{}, nil
}

// Fingerprint holds the CRC-32-IEEE checksum of the message it
// terminates. On the wire the value is XORed with the fixed constant
// 0x5354554E; encodeValue and decodeFingerprint apply that XOR.
type Fingerprint uint32

const fingerprintXOR uint32 = 0x5354554E

func (f Fingerprint) Type() uint16   { return attrFingerprint }
func (f Fingerprint) Length() uint16 { return 4 }
func (f Fingerprint) encodeValue() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(f)^fingerprintXOR)
	return b
}

func decodeFingerprint(value []byte) (Attribute, error) {
	if len(value) != 4 {
		return nil, fmt.Errorf("stun: FINGERPRINT value must be 4 bytes, got %d", len(value))
	}
	return Fingerprint(binary.BigEndian.Uint32(value) ^ fingerprintXOR), nil
}

// MessageIntegrity carries the HMAC-SHA1 digest of the message it
// authenticates.
type MessageIntegrity [20]byte

func (m MessageIntegrity) Type() uint16   { return attrMessageIntegrity }
func (m MessageIntegrity) Length() uint16 { return 20 }
func (m MessageIntegrity) encodeValue() []byte {
	b := make([]byte, 20)
	copy(b, m[:])
	return b
}

func decodeMessageIntegrity(value []byte) (Attribute, error) {
	if len(value) != 20 {
		return nil, fmt.Errorf("%w: value must be 20 bytes, got %d", ErrInvalidMessageIntegrity, len(value))
	}
	var m MessageIntegrity
	copy(m[:], value)
	return m, nil
}

// XorMappedAddress carries a reflexive transport address obscured by
// XOR-ing with the magic cookie, so NAT devices rewriting addresses in
// flight don't corrupt it. Only IPv4 is supported by this core.
type XorMappedAddress struct {
	IP   net.IP
	Port uint16
}

func (x XorMappedAddress) Type() uint16   { return attrXorMappedAddress }
func (x XorMappedAddress) Length() uint16 { return 8 }

func (x XorMappedAddress) encodeValue() []byte {
	b := make([]byte, 8)
	b[0] = 0x00
	b[1] = 0x01 // family: IPv4

	xPort := x.Port ^ uint16(MagicCookie>>16)
	binary.BigEndian.PutUint16(b[2:4], xPort)

	ip4 := x.IP.To4()
	var addr uint32
	if ip4 != nil {
		addr = binary.BigEndian.Uint32(ip4)
	}
	xAddr := addr ^ MagicCookie
	binary.BigEndian.PutUint32(b[4:8], xAddr)

	return b
}

func decodeXorMappedAddress(value []byte) (Attribute, error) {
	if len(value) != 8 {
		return nil, fmt.Errorf("stun: XOR-MAPPED-ADDRESS value must be 8 bytes, got %d", len(value))
	}
	if value[1] != 0x01 {
		return nil, fmt.Errorf("stun: XOR-MAPPED-ADDRESS family 0x%02x not supported (IPv4 only)", value[1])
	}

	xPort := binary.BigEndian.Uint16(value[2:4])
	port := xPort ^ uint16(MagicCookie>>16)

	xAddr := binary.BigEndian.Uint32(value[4:8])
	addr := xAddr ^ MagicCookie

	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, addr)

	return XorMappedAddress{IP: ip, Port: port}, nil
}

// ErrorCodeValue is the closed set of numeric ERROR-CODE values this
// codec recognizes, drawn from RFC 5389 and the TURN extensions that
// reuse the same attribute.
type ErrorCodeValue uint16

const (
	ErrorTryAlternate                ErrorCodeValue = 300
	ErrorBadRequest                  ErrorCodeValue = 400
	ErrorUnauthenticated              ErrorCodeValue = 401
	ErrorForbidden                    ErrorCodeValue = 403
	ErrorMobilityForbidden            ErrorCodeValue = 405
	ErrorUnknownAttribute             ErrorCodeValue = 420
	ErrorAllocationMismatch           ErrorCodeValue = 437
	ErrorStaleNonce                   ErrorCodeValue = 438
	ErrorAddressFamilyNotSupported    ErrorCodeValue = 440
	ErrorWrongCredentials             ErrorCodeValue = 441
	ErrorUnsupportedTransportProtocol ErrorCodeValue = 442
	ErrorPeerAddressFamilyMismatch    ErrorCodeValue = 443
	ErrorConnectionAlreadyExists      ErrorCodeValue = 446
	ErrorConnectionTimeoutOrFailure   ErrorCodeValue = 447
	ErrorAllocationQuotaReached       ErrorCodeValue = 486
	ErrorRoleConflict                 ErrorCodeValue = 487
	ErrorServerError                  ErrorCodeValue = 500
	ErrorInsufficientCapacity         ErrorCodeValue = 508
)

func (c ErrorCodeValue) recognized() bool {
	switch c {
	case ErrorTryAlternate, ErrorBadRequest, ErrorUnauthenticated, ErrorForbidden,
		ErrorMobilityForbidden, ErrorUnknownAttribute, ErrorAllocationMismatch,
		ErrorStaleNonce, ErrorAddressFamilyNotSupported, ErrorWrongCredentials,
		ErrorUnsupportedTransportProtocol, ErrorPeerAddressFamilyMismatch,
		ErrorConnectionAlreadyExists, ErrorConnectionTimeoutOrFailure,
		ErrorAllocationQuotaReached, ErrorRoleConflict, ErrorServerError,
		ErrorInsufficientCapacity:
		return true
	default:
		return false
	}
}

// ErrorCode carries the STUN ERROR-CODE attribute: a numeric code and a
// human-readable reason phrase.
type ErrorCode struct {
	Code   ErrorCodeValue
	Reason string
}

func (e ErrorCode) Type() uint16   { return attrErrorCode }
func (e ErrorCode) Length() uint16 { return uint16(4 + len(e.Reason)) }

func (e ErrorCode) encodeValue() []byte {
	b := make([]byte, 4+len(e.Reason))
	class := byte(e.Code / 100)
	number := byte(e.Code % 100)
	b[0] = 0
	b[1] = 0
	b[2] = class & 0x07
	b[3] = number
	copy(b[4:], e.Reason)
	return b
}

func decodeErrorCode(value []byte) (Attribute, error) {
	if len(value) < 4 {
		return nil, fmt.Errorf("%w: ERROR-CODE value too short", ErrInvalidErrorCode)
	}
	class := value[2] & 0x07
	number := value[3]
	code := ErrorCodeValue(uint16(class)*100 + uint16(number))
	if !code.recognized() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidErrorCode, code)
	}
	return ErrorCode{Code: code, Reason: string(value[4:])}, nil
}

// ComprehensionOptional carries any comprehension-optional attribute
// (type >= 0x8000) this codec doesn't otherwise recognize. Its contents
// are preserved verbatim.
type ComprehensionOptional struct {
	AttrType uint16
	Data     []byte
}

func (c ComprehensionOptional) Type() uint16         { return c.AttrType }
func (c ComprehensionOptional) Length() uint16       { return uint16(len(c.Data)) }
func (c ComprehensionOptional) encodeValue() []byte { return c.Data }

// decodeAttribute dispatches on type code to build the right Attribute
// variant, or fails for an unrecognized comprehension-required type.
func decodeAttribute(attrType uint16, value []byte) (Attribute, error) {
	switch attrType {
	case attrUsername:
		return decodeUsername(value)
	case attrMessageIntegrity:
		return decodeMessageIntegrity(value)
	case attrErrorCode:
		return decodeErrorCode(value)
	case attrXorMappedAddress:
		return decodeXorMappedAddress(value)
	case attrPriority:
		return decodePriority(value)
	case attrUseCandidate:
		return decodeUseCandidate(value)
	case attrFingerprint:
		return decodeFingerprint(value)
	default:
		if attrType >= comprehensionOptionalMin {
			data := make([]byte, len(value))
			copy(data, value)
			return ComprehensionOptional{AttrType: attrType, Data: data}, nil
		}
		return nil, &UnimplementedAttributeError{Type: attrType}
	}
}
