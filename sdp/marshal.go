package sdp

import (
	"fmt"
	"strconv"
	"strings"
)

// String serializes the session description back to RFC 4566 text, one
// CRLF-terminated line per field, in the canonical grammar order.
// parse(serialize(x)) == x for every value Unmarshal can produce.
func (s SessionDescription) String() string {
	var b strings.Builder

	writeLine(&b, "v", strconv.Itoa(s.ProtocolVersion))
	writeLine(&b, "o", s.Origin.String())
	writeLine(&b, "s", s.SessionName)

	if s.HasSessionInformation {
		writeLine(&b, "i", s.SessionInformation)
	}
	if s.HasURI {
		writeLine(&b, "u", s.URI)
	}
	for _, e := range s.EmailAddresses {
		writeLine(&b, "e", e)
	}
	for _, p := range s.PhoneNumbers {
		writeLine(&b, "p", p)
	}
	if s.HasConnectionData {
		writeLine(&b, "c", s.ConnectionData.String())
	}
	for _, bw := range s.Bandwidths {
		writeLine(&b, "b", bw.String())
	}

	writeLine(&b, "t", fmt.Sprintf("%d %d", s.Timing.StartTime, s.Timing.StopTime))
	for _, r := range s.Timing.Repeats {
		writeLine(&b, "r", r.String())
	}

	if len(s.TimeZones) > 0 {
		writeLine(&b, "z", timeZonesString(s.TimeZones))
	}
	if s.HasEncryptionKey {
		writeLine(&b, "k", s.EncryptionKey.String())
	}
	for _, a := range s.Attributes {
		writeLine(&b, "a", a.String())
	}
	for _, md := range s.MediaDescriptions {
		md.writeTo(&b)
	}

	return b.String()
}

func writeLine(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteString("\r\n")
}

func (o Origin) String() string {
	return fmt.Sprintf("%s %d %d %s %s %s", o.Username, o.SessionID, o.SessionVersion, o.NetworkType, o.AddressType, o.UnicastAddress)
}

func (c ConnectionData) String() string {
	return fmt.Sprintf("%s %s %s", c.NetworkType, c.AddressType, c.ConnectionAddress)
}

func (bw Bandwidth) String() string {
	return fmt.Sprintf("%s:%d", bw.Type, bw.Value)
}

func (r RepeatTime) String() string {
	parts := []string{formatTypedTime(r.Interval), formatTypedTime(r.ActiveDuration)}
	for _, o := range r.Offsets {
		parts = append(parts, formatTypedTime(o))
	}
	return strings.Join(parts, " ")
}

// formatTypedTime renders a duration in seconds, the way Unmarshal
// accepts it (no unit suffix is ever emitted; this core only needs to
// reproduce values it parsed itself, and parseTypedTime always resolves
// to seconds).
func formatTypedTime(seconds int64) string {
	return strconv.FormatInt(seconds, 10)
}

func timeZonesString(zones []TimeZoneAdjustment) string {
	parts := make([]string, 0, len(zones)*2)
	for _, z := range zones {
		parts = append(parts, strconv.FormatInt(z.AdjustmentTime, 10), formatTypedTime(z.Offset))
	}
	return strings.Join(parts, " ")
}

func (k EncryptionKey) String() string {
	method := "clear"
	switch k.Method {
	case EncryptionMethodBase64:
		method = "base64"
	case EncryptionMethodURI:
		method = "uri"
	case EncryptionMethodPrompt:
		method = "prompt"
	}
	if k.HasData {
		return method + ":" + k.Data
	}
	return method
}

func (a Attribute) String() string {
	if a.HasValue {
		return a.Name + ":" + a.Value
	}
	return a.Name
}

func (m Media) String() string {
	return fmt.Sprintf("%s %d %s %s", m.Type, m.Port, m.Protocol, strings.Join(m.Formats, " "))
}

func (md MediaDescription) writeTo(b *strings.Builder) {
	writeLine(b, "m", md.Media.String())
	if md.HasMediaTitle {
		writeLine(b, "i", md.MediaTitle)
	}
	if md.HasConnectionData {
		writeLine(b, "c", md.ConnectionData.String())
	}
	for _, bw := range md.Bandwidths {
		writeLine(b, "b", bw.String())
	}
	if md.HasEncryptionKey {
		writeLine(b, "k", md.EncryptionKey.String())
	}
	for _, a := range md.Attributes {
		writeLine(b, "a", a.String())
	}
}

// Clone returns a deep copy, used by the façade when building an answer
// from a reusable template so edits to one instance never alias another.
func (s SessionDescription) Clone() SessionDescription {
	out := s

	out.EmailAddresses = append([]string(nil), s.EmailAddresses...)
	out.PhoneNumbers = append([]string(nil), s.PhoneNumbers...)
	out.Bandwidths = append([]Bandwidth(nil), s.Bandwidths...)
	out.TimeZones = append([]TimeZoneAdjustment(nil), s.TimeZones...)
	out.Attributes = append([]Attribute(nil), s.Attributes...)

	out.Timing.Repeats = append([]RepeatTime(nil), s.Timing.Repeats...)
	for i := range out.Timing.Repeats {
		out.Timing.Repeats[i].Offsets = append([]int64(nil), s.Timing.Repeats[i].Offsets...)
	}

	out.MediaDescriptions = make([]MediaDescription, len(s.MediaDescriptions))
	for i, md := range s.MediaDescriptions {
		out.MediaDescriptions[i] = md.clone()
	}

	return out
}

func (md MediaDescription) clone() MediaDescription {
	out := md
	out.Media.Formats = append([]string(nil), md.Media.Formats...)
	out.Bandwidths = append([]Bandwidth(nil), md.Bandwidths...)
	out.Attributes = append([]Attribute(nil), md.Attributes...)
	return out
}

// CandidateAttributes returns, in order, every "candidate" attribute
// (unparsed) across all media descriptions. This is what the façade
// feeds to the ICE agent's remote-candidate ingestion, which does its
// own parsing and reports unsupported transports/types as errors.
func (s SessionDescription) CandidateAttributes() []Attribute {
	var out []Attribute
	for _, md := range s.MediaDescriptions {
		out = append(out, md.attributesNamed("candidate")...)
	}
	return out
}

// Candidates returns, in order, every "candidate" attribute value across
// all media descriptions, parsed as RemoteCandidate. A malformed
// candidate line is skipped rather than failing the whole call, matching
// this core's propagation policy of discarding bad candidates while
// keeping an otherwise-valid offer installed.
func (s SessionDescription) Candidates() []RemoteCandidate {
	var out []RemoteCandidate
	for _, md := range s.MediaDescriptions {
		for _, a := range md.attributesNamed("candidate") {
			if !a.HasValue {
				continue
			}
			rc, err := ParseCandidate(a.Value)
			if err != nil {
				continue
			}
			out = append(out, rc)
		}
	}
	return out
}
