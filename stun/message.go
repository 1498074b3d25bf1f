package stun

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // required by RFC 5389 MESSAGE-INTEGRITY
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Message is a parsed or in-progress STUN message: a header plus an
// ordered list of attributes. Values are immutable; every builder method
// below returns a new Message rather than mutating the receiver, so a
// chain of With* calls can't alias a caller's original.
type Message struct {
	Header     Header
	Attributes []Attribute
}

// Base starts a new, empty message from a header. Any length already on
// the header is discarded; it is recomputed as attributes are added.
func Base(header Header) Message {
	h := header
	h.Length = 0
	return Message{Header: h}
}

// WithAttributes replaces the attribute list wholesale and recomputes the
// header length from scratch.
func (m Message) WithAttributes(attrs []Attribute) Message {
	out := Message{Header: m.Header}
	out.Header.Length = 0
	for _, a := range attrs {
		out = out.AndAttribute(a)
	}
	return out
}

// AndAttribute appends a single attribute and grows the header length by
// its padded wire size.
func (m Message) AndAttribute(a Attribute) Message {
	attrs := make([]Attribute, len(m.Attributes), len(m.Attributes)+1)
	copy(attrs, m.Attributes)
	attrs = append(attrs, a)

	out := m
	out.Attributes = attrs
	out.Header.Length = m.Header.Length + attrWireSize(a)
	return out
}

// WithMessageIntegrity appends a MESSAGE-INTEGRITY attribute computed as
// the HMAC-SHA1 of the message-so-far, using key, with the header length
// field pre-adjusted by 24 bytes as if the attribute were already present.
// Per the builder contract, this is appended before any FINGERPRINT.
func (m Message) WithMessageIntegrity(key []byte) Message {
	prefixHeader := m.Header
	prefixHeader.Length = m.Header.Length + 24
	prefix := encodeMessage(prefixHeader, m.Attributes)

	mac := hmac.New(sha1.New, key)
	mac.Write(prefix)
	sum := mac.Sum(nil)

	var mi MessageIntegrity
	copy(mi[:], sum)
	return m.AndAttribute(mi)
}

// WithFingerprint appends a FINGERPRINT attribute computed as the
// CRC-32-IEEE of the message-so-far, with the header length field
// pre-adjusted by 8 bytes as if the attribute were already present. The
// XOR with 0x5354554E happens only at the wire boundary, in
// Fingerprint.encodeValue. Always the final attribute.
func (m Message) WithFingerprint() Message {
	prefixHeader := m.Header
	prefixHeader.Length = m.Header.Length + 8
	prefix := encodeMessage(prefixHeader, m.Attributes)

	crc := crc32.ChecksumIEEE(prefix)
	return m.AndAttribute(Fingerprint(crc))
}

// Encode serializes the message to its wire bytes.
func (m Message) Encode() []byte {
	return encodeMessage(m.Header, m.Attributes)
}

// Validate checks whichever of MESSAGE-INTEGRITY and FINGERPRINT are
// present against key and the message's own bytes. A message with neither
// attribute validates trivially. This is used defensively by the codec's
// own tests and by callers that want to authenticate inbound STUN
// themselves; the ICE responder in this core does not require inbound
// authentication since Binding requests during connectivity checks aren't
// authenticated in the ICE-lite role.
func (m Message) Validate(key []byte) error {
	miIndex := -1
	fpIndex := -1
	for i, a := range m.Attributes {
		switch a.(type) {
		case MessageIntegrity:
			if miIndex == -1 {
				miIndex = i
			}
		case Fingerprint:
			if fpIndex == -1 {
				fpIndex = i
			}
		}
	}

	if miIndex != -1 {
		prefixAttrs := m.Attributes[:miIndex]
		prefixHeader := m.Header
		prefixHeader.Length = sumAttrWireSize(prefixAttrs) + 24
		prefix := encodeMessage(prefixHeader, prefixAttrs)

		mac := hmac.New(sha1.New, key)
		mac.Write(prefix)
		sum := mac.Sum(nil)

		got, _ := m.Attributes[miIndex].(MessageIntegrity)
		if !hmac.Equal(sum, got[:]) {
			return ErrMessageIntegrityMismatch
		}
	}

	if fpIndex != -1 {
		prefixAttrs := m.Attributes[:fpIndex]
		prefixHeader := m.Header
		prefixHeader.Length = sumAttrWireSize(prefixAttrs) + 8
		prefix := encodeMessage(prefixHeader, prefixAttrs)

		crc := crc32.ChecksumIEEE(prefix)
		got, _ := m.Attributes[fpIndex].(Fingerprint)
		if uint32(got) != crc {
			return ErrFingerprintMismatch
		}
	}

	return nil
}

// Parse decodes a STUN message from the front of buf, returning the
// message and whatever bytes follow it. It consumes exactly
// header.Length bytes for the attribute section and refuses trailing
// bytes inside that range.
func Parse(buf []byte) (Message, []byte, error) {
	header, err := decodeHeader(buf)
	if err != nil {
		return Message{}, nil, err
	}

	body := buf[headerSize:]
	if len(body) < int(header.Length) {
		return Message{}, nil, fmt.Errorf("%w: need %d attribute bytes, have %d", ErrShortBuffer, header.Length, len(body))
	}
	section := body[:header.Length]
	remainder := body[header.Length:]

	var attrs []Attribute
	pos := 0
	for pos < len(section) {
		if len(section)-pos < 4 {
			return Message{}, nil, fmt.Errorf("%w: truncated attribute header", ErrShortBuffer)
		}
		attrType := binary.BigEndian.Uint16(section[pos : pos+2])
		attrLen := binary.BigEndian.Uint16(section[pos+2 : pos+4])
		padded := int((attrLen + 3) &^ 3)

		valueStart := pos + 4
		valueEnd := valueStart + int(attrLen)
		if valueEnd > len(section) {
			return Message{}, nil, fmt.Errorf("%w: attribute value overruns attribute section", ErrShortBuffer)
		}
		value := section[valueStart:valueEnd]

		attr, err := decodeAttribute(attrType, value)
		if err != nil {
			return Message{}, nil, err
		}
		attrs = append(attrs, attr)

		pos = valueStart + padded
	}
	if pos != len(section) {
		return Message{}, nil, ErrTrailingBytes
	}

	return Message{Header: header, Attributes: attrs}, remainder, nil
}

func attrWireSize(a Attribute) uint16 {
	l := a.Length()
	padded := (l + 3) &^ 3
	return 4 + padded
}

func sumAttrWireSize(attrs []Attribute) uint16 {
	var total uint16
	for _, a := range attrs {
		total += attrWireSize(a)
	}
	return total
}

func encodeAttribute(a Attribute) []byte {
	v := a.encodeValue()
	l := len(v)
	padded := (l + 3) &^ 3
	buf := make([]byte, 4+padded)
	binary.BigEndian.PutUint16(buf[0:2], a.Type())
	binary.BigEndian.PutUint16(buf[2:4], uint16(l))
	copy(buf[4:4+l], v)
	return buf
}

func encodeMessage(h Header, attrs []Attribute) []byte {
	buf := make([]byte, headerSize)
	h.encode(buf)
	for _, a := range attrs {
		buf = append(buf, encodeAttribute(a)...)
	}
	return buf
}
