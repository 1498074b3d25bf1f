package stun

import "fmt"

// Method identifies the kind of action a STUN message requests or reports.
// The Binding method is the only one this core answers; the others are
// recognized so foreign traffic can be rejected cleanly rather than
// misparsed.
type Method uint16

// Methods defined by RFC 5389 and the TURN extensions that reuse the
// same header. Only Binding is exercised by this core.
const (
	MethodBinding          Method = 0x001
	MethodAllocate         Method = 0x003
	MethodRefresh          Method = 0x004
	MethodSend             Method = 0x006
	MethodData             Method = 0x007
	MethodCreatePermission Method = 0x008
	MethodChannelBind      Method = 0x009
)

func (m Method) String() string {
	switch m {
	case MethodBinding:
		return "Binding"
	case MethodAllocate:
		return "Allocate"
	case MethodRefresh:
		return "Refresh"
	case MethodSend:
		return "Send"
	case MethodData:
		return "Data"
	case MethodCreatePermission:
		return "CreatePermission"
	case MethodChannelBind:
		return "ChannelBind"
	default:
		return fmt.Sprintf("Method(0x%03x)", uint16(m))
	}
}

// Class distinguishes requests from their responses and indications.
type Class uint16

const (
	ClassRequest    Class = 0x0
	ClassIndication Class = 0x1
	ClassSuccess    Class = 0x2
	ClassError      Class = 0x3
)

func (c Class) String() string {
	switch c {
	case ClassRequest:
		return "Request"
	case ClassIndication:
		return "Indication"
	case ClassSuccess:
		return "Success"
	case ClassError:
		return "Error"
	default:
		return fmt.Sprintf("Class(0x%x)", uint16(c))
	}
}

// Bit layout of the 14-bit message type field, RFC 5389 Figure 3:
//
//	M11 M10 M9 M8 M7 C1 M6 M5 M4 C0 M3 M2 M1 M0
const (
	methodABits = 0x000f // M0..M3, bits 0..3
	methodBBits = 0x0070 // M4..M6, bits 4..6 pre-shift
	methodDBits = 0x0f80 // M7..M11, bits 7..11 pre-shift
	methodBShift = 1
	methodDShift = 2

	classC0Bit   = 0x1
	classC1Bit   = 0x2
	classC0Shift = 4
	classC1Shift = 8
)

// encodeMessageType packs method and class into the 14-bit message type
// value that occupies the low 14 bits of the first two header bytes.
func encodeMessageType(method Method, class Class) uint16 {
	m := uint16(method)
	c := uint16(class)

	a := m & methodABits
	b := (m & methodBBits) << methodBShift
	d := (m & methodDBits) << methodDShift
	c0 := (c & classC0Bit) << classC0Shift
	c1 := ((c & classC1Bit) >> 1) << classC1Shift

	return a | b | d | c0 | c1
}

// decodeMessageType is the inverse of encodeMessageType.
func decodeMessageType(v uint16) (Method, Class) {
	a := v & methodABits
	b := (v >> methodBShift) & methodBBits
	d := (v >> methodDShift) & methodDBits
	method := Method(a | b | d)

	c0 := (v >> classC0Shift) & classC0Bit
	c1 := ((v >> classC1Shift) & 0x1) << 1
	class := Class(c0 | c1)

	return method, class
}

// MagicCookie is the fixed constant present at a known offset in every
// STUN header; it also seeds the XOR used by XOR-MAPPED-ADDRESS.
const MagicCookie uint32 = 0x2112A442

// headerSize is the fixed STUN header length in bytes.
const headerSize = 20

// Header is the 20-byte fixed preamble of every STUN message.
type Header struct {
	Method        Method
	Class         Class
	Length        uint16 // attribute section length in bytes, including padding
	TransactionID TransactionID
}

// encode writes the 20-byte header to buf, which must have length headerSize.
func (h Header) encode(buf []byte) {
	typeVal := encodeMessageType(h.Method, h.Class)
	buf[0] = byte(typeVal >> 8)
	buf[1] = byte(typeVal)
	buf[2] = byte(h.Length >> 8)
	buf[3] = byte(h.Length)
	buf[4] = byte(MagicCookie >> 24)
	buf[5] = byte(MagicCookie >> 16)
	buf[6] = byte(MagicCookie >> 8)
	buf[7] = byte(MagicCookie)
	copy(buf[8:20], h.TransactionID[:])
}

// decodeHeader parses the first 20 bytes of buf into a Header.
func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, fmt.Errorf("stun: short header (%d bytes)", len(buf))
	}

	if buf[0]&0xc0 != 0 {
		return Header{}, fmt.Errorf("%w: leading bits of message type are not zero", ErrInvalidMethod)
	}

	typeVal := uint16(buf[0])<<8 | uint16(buf[1])
	method, class := decodeMessageType(typeVal)

	length := uint16(buf[2])<<8 | uint16(buf[3])

	cookie := uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	if cookie != MagicCookie {
		return Header{}, fmt.Errorf("%w: bad magic cookie 0x%08x", ErrInvalidTransactionID, cookie)
	}

	var txID TransactionID
	copy(txID[:], buf[8:20])

	return Header{
		Method:        method,
		Class:         class,
		Length:        length,
		TransactionID: txID,
	}, nil
}
