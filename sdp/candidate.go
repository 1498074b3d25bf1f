package sdp

import (
	"fmt"
	"strconv"
	"strings"
)

// Transport is the candidate's transport protocol. This core only ever
// emits UDP, but parses TCP since remote peers may offer it.
type Transport int

const (
	TransportUDP Transport = iota
	TransportTCP
)

func (t Transport) String() string {
	if t == TransportTCP {
		return "tcp"
	}
	return "udp"
}

func parseTransport(token string) (Transport, error) {
	switch strings.ToLower(token) {
	case "udp":
		return TransportUDP, nil
	case "tcp":
		return TransportTCP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedTransport, token)
	}
}

// CandidateType is the closed set of RFC 5245 candidate types.
type CandidateType int

const (
	CandidateHost CandidateType = iota
	CandidateSrflx
	CandidatePrflx
	CandidateRelay
)

func (c CandidateType) String() string {
	switch c {
	case CandidateHost:
		return "host"
	case CandidateSrflx:
		return "srflx"
	case CandidatePrflx:
		return "prflx"
	case CandidateRelay:
		return "relay"
	default:
		return "unknown"
	}
}

func parseCandidateType(token string) (CandidateType, error) {
	switch token {
	case "host":
		return CandidateHost, nil
	case "srflx":
		return CandidateSrflx, nil
	case "prflx":
		return CandidatePrflx, nil
	case "relay":
		return CandidateRelay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCandidateType, token)
	}
}

// CandidateExtension is one trailing (name, value) pair after the
// mandatory candidate fields, preserved verbatim in declaration order.
type CandidateExtension struct {
	Name  string
	Value string
}

// RemoteCandidate is a parsed "a=candidate" attribute value, per RFC 5245
// §15.1.
type RemoteCandidate struct {
	Foundation  string
	ComponentID int
	Transport   Transport
	Priority    uint32
	Address     string
	Port        int

	Type CandidateType

	HasRelated     bool
	RelatedAddress string
	RelatedPort    int

	Extensions []CandidateExtension
}

const iceCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+/"

func validFoundation(s string) bool {
	if len(s) < 1 || len(s) > 32 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(iceCharset, r) {
			return false
		}
	}
	return true
}

// ParseCandidate parses the value of an "a=candidate" attribute:
//
//	foundation SP component-id SP transport SP priority SP address SP port
//	SP "typ" SP type [SP "raddr" SP address SP "rport" SP port] *(SP name SP value)
func ParseCandidate(s string) (RemoteCandidate, error) {
	fields := strings.Fields(s)
	if len(fields) < 8 {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("need at least 8 fields, got %d", len(fields))}
	}

	foundation := fields[0]
	if !validFoundation(foundation) {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("invalid foundation %q", foundation)}
	}

	component, err := strconv.Atoi(fields[1])
	if err != nil || component < 1 || component > 99999 || len(fields[1]) > 5 {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("invalid component id %q", fields[1])}
	}

	transport, err := parseTransport(fields[2])
	if err != nil {
		return RemoteCandidate{}, err
	}

	if len(fields[3]) > 10 {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("priority %q too long", fields[3])}
	}
	priority, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("invalid priority %q", fields[3])}
	}

	address := fields[4]

	port, err := strconv.Atoi(fields[5])
	if err != nil || port < 0 || port > 65535 {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("invalid port %q", fields[5])}
	}

	if fields[6] != "typ" {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf(`expected "typ", got %q`, fields[6])}
	}

	candType, err := parseCandidateType(fields[7])
	if err != nil {
		return RemoteCandidate{}, err
	}

	rc := RemoteCandidate{
		Foundation:  foundation,
		ComponentID: component,
		Transport:   transport,
		Priority:    uint32(priority),
		Address:     address,
		Port:        port,
		Type:        candType,
	}

	rest := fields[8:]
	if len(rest) >= 4 && rest[0] == "raddr" && rest[2] == "rport" {
		rport, err := strconv.Atoi(rest[3])
		if err != nil || rport < 0 || rport > 65535 {
			return RemoteCandidate{}, &InvalidCandidateError{Detail: fmt.Sprintf("invalid rport %q", rest[3])}
		}
		rc.HasRelated = true
		rc.RelatedAddress = rest[1]
		rc.RelatedPort = rport
		rest = rest[4:]
	}

	for len(rest) >= 2 {
		rc.Extensions = append(rc.Extensions, CandidateExtension{Name: rest[0], Value: rest[1]})
		rest = rest[2:]
	}
	if len(rest) != 0 {
		return RemoteCandidate{}, &InvalidCandidateError{Detail: "trailing extension name without a value"}
	}

	return rc, nil
}

// String serializes the candidate back to its "a=candidate" attribute
// value, in the same field order ParseCandidate expects.
func (c RemoteCandidate) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d %s %d %s %d typ %s",
		c.Foundation, c.ComponentID, c.Transport, c.Priority, c.Address, c.Port, c.Type)

	if c.HasRelated {
		fmt.Fprintf(&b, " raddr %s rport %d", c.RelatedAddress, c.RelatedPort)
	}
	for _, ext := range c.Extensions {
		fmt.Fprintf(&b, " %s %s", ext.Name, ext.Value)
	}

	return b.String()
}
