package ice

import (
	"fmt"
	"net"
	"sync"

	"github.com/pion/logging"
	transport "github.com/pion/transport/v4"

	"github.com/mchlrhw/rtcrs/sdp"
	"github.com/mchlrhw/rtcrs/stun"
)

// GatherMode selects how many interfaces Gather binds before returning.
type GatherMode int

const (
	// GatherAllInterfaces binds every non-loopback IPv4 address found,
	// logging and skipping any that fail to bind. This is the default,
	// chosen over stopping after the first bind for correctness on
	// multi-homed hosts.
	GatherAllInterfaces GatherMode = iota

	// GatherFirstInterface stops after the first successful bind, for
	// parity with the original single-socket driver.
	GatherFirstInterface
)

// GatherConfig controls Gather's interface-selection behavior.
type GatherConfig struct {
	Mode GatherMode
}

// Agent owns one peer-connection's ICE state: its credentials, local
// host candidates, accepted remote candidates, and the responder
// goroutine running on each bound socket. An Agent is created anew per
// peer-connection and torn down by Close.
type Agent struct {
	ufrag string
	pwd   string

	net   transport.Net
	log   logging.LeveledLogger
	codec *stun.Codec

	mu         sync.Mutex
	candidates []LocalCandidate
	remote     []sdp.RemoteCandidate
	conns      []transport.UDPConn
	closed     bool

	wg sync.WaitGroup
}

// NewAgent builds an Agent with freshly generated credentials, ready to
// gather against net. loggerFactory scopes the agent's log lines the way
// the rest of this core's components do.
func NewAgent(net transport.Net, loggerFactory logging.LoggerFactory) (*Agent, error) {
	ufrag, pwd, err := generateCredentials()
	if err != nil {
		return nil, fmt.Errorf("ice: generating credentials: %w", err)
	}

	return &Agent{
		ufrag: ufrag,
		pwd:   pwd,
		net:   net,
		log:   loggerFactory.NewLogger("ice"),
		codec: stun.NewCodec(loggerFactory),
	}, nil
}

// Ufrag returns the agent's local ICE username fragment.
func (a *Agent) Ufrag() string { return a.ufrag }

// Password returns the agent's local ICE password, also the HMAC key the
// responder uses for MESSAGE-INTEGRITY.
func (a *Agent) Password() string { return a.pwd }

// GatherAll is Gather with GatherAllInterfaces.
func (a *Agent) GatherAll() error {
	return a.Gather(GatherConfig{Mode: GatherAllInterfaces})
}

// GatherFirst is Gather with GatherFirstInterface.
func (a *Agent) GatherFirst() error {
	return a.Gather(GatherConfig{Mode: GatherFirstInterface})
}

// Gather binds a UDP socket to every non-loopback local IPv4 address
// (or just the first one, per cfg.Mode), records a host candidate for
// each successful bind, and spawns a responder goroutine on it. A bind
// failure is logged and that address is skipped; Gather itself only
// fails if interface enumeration fails outright.
func (a *Agent) Gather(cfg GatherConfig) error {
	ifaces, err := a.net.Interfaces()
	if err != nil {
		return fmt.Errorf("ice: enumerating interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			a.log.Warnf("ice: reading addresses for %s: %v", iface.Name, err)
			continue
		}

		for _, addr := range addrs {
			ip := ipv4Of(addr)
			if ip == nil || ip.IsLoopback() {
				continue
			}

			if a.bind(ip) {
				if cfg.Mode == GatherFirstInterface {
					return nil
				}
			}
		}
	}

	return nil
}

// bind attempts to listen on ip and, on success, records the resulting
// candidate and spawns its responder goroutine. Reports whether the bind
// succeeded.
func (a *Agent) bind(ip net.IP) bool {
	conn, err := a.net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: 0})
	if err != nil {
		a.log.Warnf("%v: %s: %v", ErrBindFailed, ip, err)
		return false
	}

	local, _ := conn.LocalAddr().(*net.UDPAddr)
	port := 0
	if local != nil {
		port = local.Port
	}

	a.mu.Lock()
	cand := newLocalCandidate(len(a.candidates), ip, port)
	a.candidates = append(a.candidates, cand)
	a.conns = append(a.conns, conn)
	a.mu.Unlock()

	a.wg.Add(1)
	go a.respond(conn)

	return true
}

func ipv4Of(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP.To4()
	case *net.IPAddr:
		return v.IP.To4()
	default:
		return nil
	}
}

// respond is the per-socket responder loop: decode each
// inbound datagram as STUN, answer Binding requests that carry a
// USERNAME with an authenticated reply, and silently drop everything
// else. It returns only once conn is closed out from under it by Close.
func (a *Agent) respond(conn transport.UDPConn) {
	defer a.wg.Done()

	buf := make([]byte, 1500)
	for {
		n, raddr, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}

		udpAddr, ok := raddr.(*net.UDPAddr)
		if !ok {
			continue
		}

		msg, _, err := a.codec.Parse(buf[:n])
		if err != nil {
			continue
		}
		if msg.Header.Method != stun.MethodBinding || msg.Header.Class != stun.ClassRequest {
			continue
		}

		var username stun.Username
		found := false
		for _, attr := range msg.Attributes {
			if u, ok := attr.(stun.Username); ok {
				username = u
				found = true
				break
			}
		}
		if !found {
			continue
		}

		reply := stun.Base(stun.Header{
			Method:        stun.MethodBinding,
			Class:         stun.ClassSuccess,
			TransactionID: msg.Header.TransactionID,
		}).WithAttributes([]stun.Attribute{
			username,
			stun.XorMappedAddress{IP: udpAddr.IP, Port: uint16(udpAddr.Port)},
		}).WithMessageIntegrity([]byte(a.pwd)).WithFingerprint()

		if _, err := conn.WriteTo(reply.Encode(), udpAddr); err != nil {
			a.log.Debugf("ice: sending binding response: %v", err)
		}
	}
}

// AddRemoteCandidate parses and stores a remote candidate from an
// "a=candidate" attribute value. Unsupported transports or candidate
// types are returned as errors; the façade logs and discards them
// rather than failing the whole offer.
func (a *Agent) AddRemoteCandidate(value string) error {
	rc, err := sdp.ParseCandidate(value)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.remote = append(a.remote, rc)
	a.mu.Unlock()

	return nil
}

// RemoteCandidates returns every remote candidate accepted so far.
func (a *Agent) RemoteCandidates() []sdp.RemoteCandidate {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]sdp.RemoteCandidate, len(a.remote))
	copy(out, a.remote)
	return out
}

// CandidateAttributes returns, for each gathered local candidate, the
// SDP "a=candidate" attribute value.
func (a *Agent) CandidateAttributes() []sdp.Attribute {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]sdp.Attribute, len(a.candidates))
	for i, c := range a.candidates {
		out[i] = c.attribute()
	}
	return out
}

// Close closes every bound socket and waits for their responder
// goroutines to return. Idempotent.
func (a *Agent) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	conns := a.conns
	a.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	a.wg.Wait()

	return nil
}
