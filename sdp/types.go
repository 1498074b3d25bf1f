// Package sdp implements a bidirectional parser and serializer for the
// Session Description Protocol (RFC 4566), including the ICE candidate
// attribute sub-grammar (RFC 5245 §15.1) carried in its "a=candidate"
// lines.
package sdp

// SessionDescription is the offer/answer payload exchanged out-of-band
// between WebRTC peers. Field order and optionality follow RFC 4566
// section 5 exactly; see Unmarshal for the authoritative line ordering.
type SessionDescription struct {
	// ProtocolVersion is the "v=" line. RFC 4566 only defines version 0.
	ProtocolVersion int

	// Origin is the "o=" line: username, session id, session version,
	// network type, address type, unicast address.
	Origin Origin

	// SessionName is the "s=" line. Required; "-" is a valid empty value.
	SessionName string

	// SessionInformation is the optional "i=" line.
	SessionInformation string
	HasSessionInformation bool

	// URI is the optional "u=" line.
	URI string
	HasURI bool

	// EmailAddresses are zero or more "e=" lines.
	EmailAddresses []string

	// PhoneNumbers are zero or more "p=" lines.
	PhoneNumbers []string

	// ConnectionData is the optional session-level "c=" line.
	ConnectionData ConnectionData
	HasConnectionData bool

	// Bandwidths are zero or more "b=" lines.
	Bandwidths []Bandwidth

	// Timing is the required "t=" line for this core (exactly one).
	Timing TimeDescription

	// TimeZones is the optional "z=" line's adjustment pairs.
	TimeZones []TimeZoneAdjustment

	// EncryptionKey is the optional "k=" line.
	EncryptionKey EncryptionKey
	HasEncryptionKey bool

	// Attributes are zero or more session-level "a=" lines.
	Attributes []Attribute

	// MediaDescriptions are zero or more "m=" sections.
	MediaDescriptions []MediaDescription
}

// Origin is the "o=" line.
type Origin struct {
	Username       string
	SessionID      uint64
	SessionVersion uint64
	NetworkType    string
	AddressType    string
	UnicastAddress string
}

// ConnectionData is the "c=" line.
type ConnectionData struct {
	NetworkType    string
	AddressType    string
	ConnectionAddress string
}

// BandwidthKind distinguishes the two RFC 4566 bandwidth types from an
// arbitrary "X-" experimental extension.
type BandwidthKind int

const (
	BandwidthCT BandwidthKind = iota
	BandwidthAS
	BandwidthExperimental
)

// BandwidthType is a "b=" line's type token.
type BandwidthType struct {
	Kind BandwidthKind
	// Token holds the text after "X-" when Kind is BandwidthExperimental.
	Token string
}

func (t BandwidthType) String() string {
	switch t.Kind {
	case BandwidthCT:
		return "CT"
	case BandwidthAS:
		return "AS"
	default:
		return "X-" + t.Token
	}
}

// Bandwidth is a single "b=<bwtype>:<bandwidth>" line.
type Bandwidth struct {
	Type  BandwidthType
	Value uint64
}

// TimeDescription is the required "t=" line plus its "r=" repeats.
type TimeDescription struct {
	StartTime uint64
	StopTime  uint64
	Repeats   []RepeatTime
}

// RepeatTime is a single "r=" line.
type RepeatTime struct {
	Interval       int64
	ActiveDuration int64
	Offsets        []int64
}

// TimeZoneAdjustment is one (time, offset) pair from a "z=" line.
type TimeZoneAdjustment struct {
	AdjustmentTime int64
	Offset         int64
}

// EncryptionMethod is the closed set of "k=" methods.
type EncryptionMethod int

const (
	EncryptionMethodClear EncryptionMethod = iota
	EncryptionMethodBase64
	EncryptionMethodURI
	EncryptionMethodPrompt
)

// EncryptionKey is the "k=<method>[:<data>]" line.
type EncryptionKey struct {
	Method EncryptionMethod
	Data   string
	HasData bool
}

// Attribute is the sum type behind every "a=" line: either a bare
// Property or a Value carrying data after the first colon.
type Attribute struct {
	Name  string
	Value string
	// HasValue distinguishes a=<name> (Property) from a=<name>: (Value
	// with an empty value after the colon).
	HasValue bool
}

// NewPropertyAttribute builds an "a=<name>" attribute with no value.
func NewPropertyAttribute(name string) Attribute {
	return Attribute{Name: name}
}

// NewValueAttribute builds an "a=<name>:<value>" attribute.
func NewValueAttribute(name, value string) Attribute {
	return Attribute{Name: name, Value: value, HasValue: true}
}

// MediaType is the closed set of RFC 4566 media types.
type MediaType string

const (
	MediaTypeApplication MediaType = "application"
	MediaTypeAudio       MediaType = "audio"
	MediaTypeMessage     MediaType = "message"
	MediaTypeText        MediaType = "text"
	MediaTypeVideo       MediaType = "video"
)

// Media is the "m=" header: type, port, protocol, and space-separated
// format list.
type Media struct {
	Type     MediaType
	Port     int
	Protocol string
	Formats  []string
}

// MediaDescription is one "m=" section.
type MediaDescription struct {
	Media Media

	MediaTitle string
	HasMediaTitle bool

	ConnectionData ConnectionData
	HasConnectionData bool

	Bandwidths []Bandwidth

	EncryptionKey EncryptionKey
	HasEncryptionKey bool

	Attributes []Attribute
}

// attributesNamed returns every attribute on this media description named
// name, preserving order.
func (m MediaDescription) attributesNamed(name string) []Attribute {
	var out []Attribute
	for _, a := range m.Attributes {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}
