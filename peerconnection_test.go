package rtcrs

import (
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchlrhw/rtcrs/sdp"
)

func newTestPeerConnection(t *testing.T) *PeerConnection {
	t.Helper()
	pc, err := NewPeerConnection(logging.NewDefaultLoggerFactory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })
	return pc
}

func TestPeerConnectionRejectsOutOfOrderCalls(t *testing.T) {
	pc := newTestPeerConnection(t)

	_, err := pc.CreateAnswer()
	assert.ErrorIs(t, err, ErrNoRemoteDescription)

	err = pc.SetLocalDescription(sdp.SessionDescription{})
	assert.ErrorIs(t, err, ErrNoRemoteDescription)

	_, err = pc.LocalDescription()
	assert.ErrorIs(t, err, ErrNoLocalDescription)
}

func TestPeerConnectionFullFlow(t *testing.T) {
	pc := newTestPeerConnection(t)

	offer := sdp.SessionDescription{
		MediaDescriptions: []sdp.MediaDescription{
			{
				Attributes: []sdp.Attribute{
					sdp.NewValueAttribute("candidate", "1 1 sctp 100 10.0.0.1 1 typ host"),
				},
			},
		},
	}

	require.NoError(t, pc.SetRemoteDescription(offer))

	err := pc.SetRemoteDescription(offer)
	assert.ErrorIs(t, err, ErrAlreadyNegotiated)

	answer, err := pc.CreateAnswer()
	require.NoError(t, err)
	assert.Equal(t, "-", answer.SessionName)
	require.Len(t, answer.MediaDescriptions, 1)
	assert.Equal(t, sdp.MediaTypeVideo, answer.MediaDescriptions[0].Media.Type)

	require.NoError(t, pc.SetLocalDescription(answer))

	local, err := pc.LocalDescription()
	require.NoError(t, err)
	assert.Equal(t, answer.SessionName, local.SessionName)
	assert.GreaterOrEqual(t, len(local.MediaDescriptions[0].Attributes), len(answer.MediaDescriptions[0].Attributes))
}
