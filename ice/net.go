package ice

import (
	transport "github.com/pion/transport/v4"
	"github.com/pion/transport/v4/stdnet"
)

// Net is the network abstraction this agent gathers against: interface
// enumeration plus UDP socket capability. Injecting it (rather than
// calling the standard library directly) is what lets tests substitute a
// virtual network for real sockets.
type Net = transport.Net

// DefaultNet returns the Net backed by the host's real network stack,
// the default a peer-connection constructs its agent with.
func DefaultNet() (Net, error) {
	return stdnet.NewNet()
}
