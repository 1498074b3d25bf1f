// Package rtcrs wires the SDP codec, STUN codec, and ICE agent together
// behind a small offer/answer façade: set a remote offer, gather local
// candidates, produce a local answer.
package rtcrs

import (
	"fmt"
	"sync"

	"github.com/pion/logging"

	"github.com/mchlrhw/rtcrs/ice"
	"github.com/mchlrhw/rtcrs/sdp"
)

// connectionPhase tracks the three-step offer/answer flow
// (New -> HasRemoteDescription -> HasLocalAndRemoteDescriptions), checked
// at the top of every call instead of being encoded in the type system.
type connectionPhase int

const (
	phaseNew connectionPhase = iota
	phaseHasRemoteDescription
	phaseHasLocalAndRemoteDescriptions
)

// placeholderDTLSFingerprint is the value written into every answer's
// session-level "fingerprint" attribute. It is not production
// cryptographic material: a real deployment would obtain this from the
// DTLS subsystem (out of scope for this core) once a certificate exists.
const placeholderDTLSFingerprint = "sha-512 4E:DD:25:41:95:51:85:B6:6A:29:42:FF:56:5B:41:47:2C:6C:67:36:7D:97:91:5A:65:C7:E1:76:1B:6E:D3:22:45:B4:9F:DF:EA:93:FF:20:F4:CB:A8:53:AF:50:DA:87:5A:C5:4C:5B:F6:4C:50:DC:D9:29:A3:C0:19:7A:17:48"

// PeerConnection links the SDP codec and the ICE agent through the
// three-phase offer/answer flow: set_remote_description, create_answer,
// set_local_description.
type PeerConnection struct {
	mu    sync.Mutex
	phase connectionPhase
	agent *ice.Agent
	log   logging.LeveledLogger

	remoteDescription sdp.SessionDescription
	localDescription  sdp.SessionDescription
}

// NewPeerConnection constructs a PeerConnection with a freshly minted
// ICE agent bound to the host's real network stack.
func NewPeerConnection(loggerFactory logging.LoggerFactory) (*PeerConnection, error) {
	n, err := ice.DefaultNet()
	if err != nil {
		return nil, fmt.Errorf("rtcrs: building network: %w", err)
	}

	agent, err := ice.NewAgent(n, loggerFactory)
	if err != nil {
		return nil, fmt.Errorf("rtcrs: building ice agent: %w", err)
	}

	return &PeerConnection{
		phase: phaseNew,
		agent: agent,
		log:   loggerFactory.NewLogger("rtcrs"),
	}, nil
}

// SetRemoteDescription installs offer as the remote description and
// seeds the ICE agent with every candidate it carries. A candidate the
// agent rejects (unsupported transport or type) is logged and dropped;
// the offer itself is still installed.
func (pc *PeerConnection) SetRemoteDescription(offer sdp.SessionDescription) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.phase != phaseNew {
		return &InvalidStateError{Err: ErrAlreadyNegotiated}
	}

	for _, attr := range offer.CandidateAttributes() {
		if !attr.HasValue {
			continue
		}
		if err := pc.agent.AddRemoteCandidate(attr.Value); err != nil {
			pc.log.Errorf("rtcrs: rejecting remote candidate %q: %v", attr.Value, err)
		}
	}

	pc.remoteDescription = offer
	pc.phase = phaseHasRemoteDescription

	return nil
}

// CreateAnswer synthesizes a static answer template: a single video
// media description, the agent's live ICE credentials, and the session-
// level ice-lite/fingerprint/msid-semantic/BUNDLE attributes. The caller
// may edit the result before calling SetLocalDescription.
func (pc *PeerConnection) CreateAnswer() (sdp.SessionDescription, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.phase != phaseHasRemoteDescription {
		return sdp.SessionDescription{}, &InvalidStateError{Err: ErrNoRemoteDescription}
	}

	video := sdp.MediaDescription{
		Media: sdp.Media{
			Type:     sdp.MediaTypeVideo,
			Port:     7,
			Protocol: "RTP/SAVPF",
			Formats:  []string{"96", "97"},
		},
		ConnectionData: sdp.ConnectionData{
			NetworkType:       "IN",
			AddressType:       "IP4",
			ConnectionAddress: "127.0.0.1",
		},
		HasConnectionData: true,
		Attributes: []sdp.Attribute{
			sdp.NewValueAttribute("rtpmap", "96 VP8/90000"),
			sdp.NewValueAttribute("rtpmap", "97 rtx/90000"),
			sdp.NewValueAttribute("fmtp", "97 apt=96"),
			sdp.NewValueAttribute("rtcp-fb", "96 goog-remb"),
			sdp.NewValueAttribute("rtcp-fb", "96 ccm fir"),
			sdp.NewValueAttribute("rtcp-fb", "96 nack"),
			sdp.NewValueAttribute("rtcp-fb", "96 nack pli"),
			sdp.NewValueAttribute("extmap", "2 urn:ietf:params:rtp-hdrext:toffset"),
			sdp.NewValueAttribute("extmap", "3 http://www.webrtc.org/experiments/rtp-hdrext/abs-send-time"),
			sdp.NewValueAttribute("extmap", "4 urn:3gpp:video-orientation"),
			sdp.NewValueAttribute("setup", "active"),
			sdp.NewValueAttribute("mid", "0"),
			sdp.NewPropertyAttribute("sendonly"),
			sdp.NewValueAttribute("ice-ufrag", pc.agent.Ufrag()),
			sdp.NewValueAttribute("ice-pwd", pc.agent.Password()),
			sdp.NewValueAttribute("ice-options", "renomination"),
			sdp.NewPropertyAttribute("rtcp-mux"),
			sdp.NewPropertyAttribute("rtcp-rsize"),
		},
	}

	answer := sdp.SessionDescription{
		ProtocolVersion: 0,
		Origin: sdp.Origin{
			Username:       "rtcrs",
			SessionID:      1433832402044130222,
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "127.0.0.1",
		},
		SessionName: "-",
		Timing:      sdp.TimeDescription{StartTime: 0, StopTime: 0},
		Attributes: []sdp.Attribute{
			sdp.NewPropertyAttribute("ice-lite"),
			sdp.NewValueAttribute("fingerprint", placeholderDTLSFingerprint),
			sdp.NewValueAttribute("msid-semantic", " WMS *"),
			sdp.NewValueAttribute("group", "BUNDLE 0"),
		},
		MediaDescriptions: []sdp.MediaDescription{video},
	}

	return answer, nil
}

// SetLocalDescription gathers the agent's local candidates, appends them
// to answer's first media description, installs the result as the local
// description, and transitions to the final phase.
func (pc *PeerConnection) SetLocalDescription(answer sdp.SessionDescription) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.phase != phaseHasRemoteDescription {
		return &InvalidStateError{Err: ErrNoRemoteDescription}
	}

	if err := pc.agent.GatherAll(); err != nil {
		return fmt.Errorf("rtcrs: gathering candidates: %w", err)
	}

	local := answer.Clone()
	if len(local.MediaDescriptions) > 0 {
		local.MediaDescriptions[0].Attributes = append(
			local.MediaDescriptions[0].Attributes,
			pc.agent.CandidateAttributes()...,
		)
	}

	pc.localDescription = local
	pc.phase = phaseHasLocalAndRemoteDescriptions

	return nil
}

// LocalDescription returns the negotiated local description.
func (pc *PeerConnection) LocalDescription() (sdp.SessionDescription, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.phase != phaseHasLocalAndRemoteDescriptions {
		return sdp.SessionDescription{}, &InvalidStateError{Err: ErrNoLocalDescription}
	}

	return pc.localDescription, nil
}

// Close tears down the embedded ICE agent's sockets and responder
// goroutines.
func (pc *PeerConnection) Close() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	return pc.agent.Close()
}
