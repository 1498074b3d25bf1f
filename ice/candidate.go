package ice

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/mchlrhw/rtcrs/sdp"
)

// LocalCandidate is a host candidate this agent has gathered: a bound
// UDP socket's kernel-assigned local address. Every candidate this core
// emits is type host at component 1.
type LocalCandidate struct {
	Foundation  Foundation
	ComponentID ComponentID
	Address     net.IP
	Port        int
	Priority    Priority

	// statsID is an opaque identifier for correlating this candidate
	// across diagnostics calls; it never reaches the wire.
	statsID string
}

func newLocalCandidate(index int, addr net.IP, port int) LocalCandidate {
	foundation, _ := NewFoundation(strconv.Itoa(index))
	component, _ := NewComponentID(1)
	return LocalCandidate{
		Foundation:  foundation,
		ComponentID: component,
		Address:     addr,
		Port:        port,
		Priority:    hostCandidatePriority,
		statsID:     uuid.NewString(),
	}
}

// attribute builds the SDP "a=candidate" attribute value for c.
func (c LocalCandidate) attribute() sdp.Attribute {
	value := fmt.Sprintf("%s %d udp %d %s %d typ host",
		c.Foundation, c.ComponentID, c.Priority, c.Address, c.Port)
	return sdp.NewValueAttribute("candidate", value)
}
