package sdp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

type sdpLine struct {
	key   string
	value string
}

// splitLines breaks raw into key/value pairs, one per "k=v" line. Blank
// trailing lines are ignored; anything else that isn't "k=v" shaped fails.
func splitLines(raw string) ([]sdpLine, error) {
	var lines []sdpLine

	scanner := bufio.NewScanner(strings.NewReader(raw))
	blank := false
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			blank = true
			continue
		}
		if blank {
			return nil, fmt.Errorf("%w: blank line before %q", ErrInvalidSessionDescription, text)
		}
		if len(text) < 3 || text[1] != '=' {
			return nil, fmt.Errorf("%w: malformed line %q", ErrInvalidSessionDescription, text)
		}
		lines = append(lines, sdpLine{key: text[:1], value: text[2:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionDescription, err)
	}

	return lines, nil
}

// cursor walks a slice of sdpLine one at a time, the way a hand-written
// recursive-descent parser walks a token stream.
type cursor struct {
	lines []sdpLine
	pos   int
}

func (c *cursor) peekKey() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	return c.lines[c.pos].key, true
}

func (c *cursor) take(expectKey string) (string, error) {
	if c.pos >= len(c.lines) {
		return "", fmt.Errorf("%w: expected %q, reached end of input", ErrInvalidSessionDescription, expectKey)
	}
	line := c.lines[c.pos]
	if line.key != expectKey {
		return "", fmt.Errorf("%w: expected %q, got %q", ErrInvalidSessionDescription, expectKey, line.key)
	}
	c.pos++
	return line.value, nil
}

func (c *cursor) takeWhile(key string) []string {
	var values []string
	for {
		k, ok := c.peekKey()
		if !ok || k != key {
			break
		}
		values = append(values, c.lines[c.pos].value)
		c.pos++
	}
	return values
}

// Unmarshal parses raw (a complete session description, CRLF- or
// LF-terminated) following the strict, order-sensitive grammar of
// RFC 4566 section 5. The parser is all-consuming: any leftover input
// after the last media description fails.
func (s *SessionDescription) Unmarshal(raw string) error {
	lines, err := splitLines(raw)
	if err != nil {
		return err
	}
	c := &cursor{lines: lines}

	*s = SessionDescription{}

	vRaw, err := c.take("v")
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(vRaw)
	if err != nil || v < 0 || v > 255 {
		return fmt.Errorf("%w: invalid protocol version %q", ErrInvalidSessionDescription, vRaw)
	}
	s.ProtocolVersion = v

	oRaw, err := c.take("o")
	if err != nil {
		return err
	}
	origin, err := parseOrigin(oRaw)
	if err != nil {
		return err
	}
	s.Origin = origin

	name, err := c.take("s")
	if err != nil {
		return err
	}
	s.SessionName = name

	if k, ok := c.peekKey(); ok && k == "i" {
		v, _ := c.take("i")
		s.SessionInformation = v
		s.HasSessionInformation = true
	}
	if k, ok := c.peekKey(); ok && k == "u" {
		v, _ := c.take("u")
		s.URI = v
		s.HasURI = true
	}

	s.EmailAddresses = c.takeWhile("e")
	s.PhoneNumbers = c.takeWhile("p")

	if k, ok := c.peekKey(); ok && k == "c" {
		v, _ := c.take("c")
		cd, err := parseConnectionData(v)
		if err != nil {
			return err
		}
		s.ConnectionData = cd
		s.HasConnectionData = true
	}

	for _, v := range c.takeWhile("b") {
		bw, err := parseBandwidth(v)
		if err != nil {
			return err
		}
		s.Bandwidths = append(s.Bandwidths, bw)
	}

	tRaw, err := c.take("t")
	if err != nil {
		return err
	}
	timing, err := parseTiming(tRaw)
	if err != nil {
		return err
	}
	for _, v := range c.takeWhile("r") {
		rt, err := parseRepeat(v)
		if err != nil {
			return err
		}
		timing.Repeats = append(timing.Repeats, rt)
	}
	s.Timing = timing

	if k, ok := c.peekKey(); ok && k == "z" {
		v, _ := c.take("z")
		zones, err := parseTimeZones(v)
		if err != nil {
			return err
		}
		s.TimeZones = zones
	}

	if k, ok := c.peekKey(); ok && k == "k" {
		v, _ := c.take("k")
		ek, err := parseEncryptionKey(v)
		if err != nil {
			return err
		}
		s.EncryptionKey = ek
		s.HasEncryptionKey = true
	}

	for _, v := range c.takeWhile("a") {
		s.Attributes = append(s.Attributes, parseAttribute(v))
	}

	for {
		k, ok := c.peekKey()
		if !ok {
			break
		}
		if k != "m" {
			return fmt.Errorf("%w: unexpected %q where media description or end of input was expected", ErrInvalidSessionDescription, k)
		}
		md, err := parseMediaDescription(c)
		if err != nil {
			return err
		}
		s.MediaDescriptions = append(s.MediaDescriptions, md)
	}

	if c.pos != len(c.lines) {
		return fmt.Errorf("%w: trailing input after last media description", ErrInvalidSessionDescription)
	}

	return nil
}

func parseMediaDescription(c *cursor) (MediaDescription, error) {
	mRaw, err := c.take("m")
	if err != nil {
		return MediaDescription{}, err
	}
	media, err := parseMedia(mRaw)
	if err != nil {
		return MediaDescription{}, err
	}
	md := MediaDescription{Media: media}

	if k, ok := c.peekKey(); ok && k == "i" {
		v, _ := c.take("i")
		md.MediaTitle = v
		md.HasMediaTitle = true
	}
	if k, ok := c.peekKey(); ok && k == "c" {
		v, _ := c.take("c")
		cd, err := parseConnectionData(v)
		if err != nil {
			return MediaDescription{}, err
		}
		md.ConnectionData = cd
		md.HasConnectionData = true
	}
	for _, v := range c.takeWhile("b") {
		bw, err := parseBandwidth(v)
		if err != nil {
			return MediaDescription{}, err
		}
		md.Bandwidths = append(md.Bandwidths, bw)
	}
	if k, ok := c.peekKey(); ok && k == "k" {
		v, _ := c.take("k")
		ek, err := parseEncryptionKey(v)
		if err != nil {
			return MediaDescription{}, err
		}
		md.EncryptionKey = ek
		md.HasEncryptionKey = true
	}
	for _, v := range c.takeWhile("a") {
		md.Attributes = append(md.Attributes, parseAttribute(v))
	}

	return md, nil
}

func parseOrigin(raw string) (Origin, error) {
	f := strings.Fields(raw)
	if len(f) != 6 {
		return Origin{}, fmt.Errorf("%w: origin %q needs 6 fields", ErrInvalidSessionDescription, raw)
	}
	sessID, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: invalid session id %q", ErrInvalidSessionDescription, f[1])
	}
	sessVer, err := strconv.ParseUint(f[2], 10, 64)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: invalid session version %q", ErrInvalidSessionDescription, f[2])
	}
	return Origin{
		Username:       f[0],
		SessionID:      sessID,
		SessionVersion: sessVer,
		NetworkType:    f[3],
		AddressType:    f[4],
		UnicastAddress: f[5],
	}, nil
}

func parseConnectionData(raw string) (ConnectionData, error) {
	f := strings.Fields(raw)
	if len(f) != 3 {
		return ConnectionData{}, fmt.Errorf("%w: connection data %q needs 3 fields", ErrInvalidSessionDescription, raw)
	}
	return ConnectionData{NetworkType: f[0], AddressType: f[1], ConnectionAddress: f[2]}, nil
}

func parseBandwidth(raw string) (Bandwidth, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return Bandwidth{}, fmt.Errorf("%w: bandwidth %q missing ':'", ErrInvalidSessionDescription, raw)
	}
	value, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Bandwidth{}, fmt.Errorf("%w: invalid bandwidth value %q", ErrInvalidSessionDescription, parts[1])
	}

	var bt BandwidthType
	switch parts[0] {
	case "CT":
		bt = BandwidthType{Kind: BandwidthCT}
	case "AS":
		bt = BandwidthType{Kind: BandwidthAS}
	default:
		token := strings.TrimPrefix(parts[0], "X-")
		bt = BandwidthType{Kind: BandwidthExperimental, Token: token}
	}

	return Bandwidth{Type: bt, Value: value}, nil
}

func parseTiming(raw string) (TimeDescription, error) {
	f := strings.Fields(raw)
	if len(f) != 2 {
		return TimeDescription{}, fmt.Errorf("%w: timing %q needs 2 fields", ErrInvalidSessionDescription, raw)
	}
	start, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return TimeDescription{}, fmt.Errorf("%w: invalid start-time %q", ErrInvalidSessionDescription, f[0])
	}
	stop, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return TimeDescription{}, fmt.Errorf("%w: invalid stop-time %q", ErrInvalidSessionDescription, f[1])
	}
	return TimeDescription{StartTime: start, StopTime: stop}, nil
}

func parseRepeat(raw string) (RepeatTime, error) {
	f := strings.Fields(raw)
	if len(f) < 2 {
		return RepeatTime{}, fmt.Errorf("%w: repeat %q needs at least 2 fields", ErrInvalidSessionDescription, raw)
	}
	interval, err := parseTypedTime(f[0])
	if err != nil {
		return RepeatTime{}, err
	}
	duration, err := parseTypedTime(f[1])
	if err != nil {
		return RepeatTime{}, err
	}
	rt := RepeatTime{Interval: interval, ActiveDuration: duration}
	for _, tok := range f[2:] {
		offset, err := parseTypedTime(tok)
		if err != nil {
			return RepeatTime{}, err
		}
		rt.Offsets = append(rt.Offsets, offset)
	}
	return rt, nil
}

func parseTimeZones(raw string) ([]TimeZoneAdjustment, error) {
	f := strings.Fields(raw)
	if len(f) == 0 || len(f)%2 != 0 {
		return nil, fmt.Errorf("%w: time zone %q needs an even number of fields", ErrInvalidSessionDescription, raw)
	}
	var zones []TimeZoneAdjustment
	for i := 0; i < len(f); i += 2 {
		at, err := strconv.ParseInt(f[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid adjustment time %q", ErrInvalidSessionDescription, f[i])
		}
		offset, err := parseTypedTime(f[i+1])
		if err != nil {
			return nil, err
		}
		zones = append(zones, TimeZoneAdjustment{AdjustmentTime: at, Offset: offset})
	}
	return zones, nil
}

// parseTypedTime parses a signed integer with an optional trailing unit
// suffix: d=86400, h=3600, m=60, s=1; no suffix means seconds.
func parseTypedTime(tok string) (int64, error) {
	if tok == "" {
		return 0, fmt.Errorf("%w: empty time value", ErrInvalidSessionDescription)
	}
	unit := int64(1)
	numPart := tok
	switch tok[len(tok)-1] {
	case 'd':
		unit = 86400
		numPart = tok[:len(tok)-1]
	case 'h':
		unit = 3600
		numPart = tok[:len(tok)-1]
	case 'm':
		unit = 60
		numPart = tok[:len(tok)-1]
	case 's':
		unit = 1
		numPart = tok[:len(tok)-1]
	}
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time value %q", ErrInvalidSessionDescription, tok)
	}
	return n * unit, nil
}

func parseEncryptionKey(raw string) (EncryptionKey, error) {
	parts := strings.SplitN(raw, ":", 2)
	method := parts[0]
	var ek EncryptionKey
	switch method {
	case "clear":
		ek.Method = EncryptionMethodClear
	case "base64":
		ek.Method = EncryptionMethodBase64
	case "uri":
		ek.Method = EncryptionMethodURI
	case "prompt":
		ek.Method = EncryptionMethodPrompt
	default:
		return EncryptionKey{}, fmt.Errorf("%w: unknown encryption method %q", ErrInvalidSessionDescription, method)
	}
	if len(parts) == 2 {
		ek.Data = parts[1]
		ek.HasData = true
	}
	return ek, nil
}

// parseAttribute splits an "a=" value into Property or Value form: the
// part before the first ':' is the name, unless there is no colon, in
// which case the whole value is the (property) name.
func parseAttribute(raw string) Attribute {
	idx := strings.IndexByte(raw, ':')
	if idx == -1 {
		return Attribute{Name: raw}
	}
	return Attribute{Name: raw[:idx], Value: raw[idx+1:], HasValue: true}
}

func isKnownMediaType(t MediaType) bool {
	switch t {
	case MediaTypeApplication, MediaTypeAudio, MediaTypeMessage, MediaTypeText, MediaTypeVideo:
		return true
	default:
		return false
	}
}

func parseMedia(raw string) (Media, error) {
	f := strings.Fields(raw)
	if len(f) < 4 {
		return Media{}, fmt.Errorf("%w: media %q needs at least 4 fields", ErrInvalidSessionDescription, raw)
	}
	mediaType := MediaType(f[0])
	if !isKnownMediaType(mediaType) {
		return Media{}, fmt.Errorf("%w: unknown media type %q", ErrInvalidSessionDescription, f[0])
	}
	port, err := strconv.Atoi(f[1])
	if err != nil || port < 0 || port > 65535 {
		return Media{}, fmt.Errorf("%w: invalid media port %q", ErrInvalidSessionDescription, f[1])
	}
	return Media{
		Type:     mediaType,
		Port:     port,
		Protocol: f[2],
		Formats:  f[3:],
	}, nil
}
