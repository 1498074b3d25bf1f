package ice

import (
	"net"
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	a, err := NewAgent(nil, logging.NewDefaultLoggerFactory())
	require.NoError(t, err)
	return a
}

func TestNewAgentGeneratesCredentials(t *testing.T) {
	a := newTestAgent(t)

	assert.Len(t, a.Ufrag(), ufragLength)
	assert.Len(t, a.Password(), pwdLength)
}

func TestCandidateAttributesFormat(t *testing.T) {
	a := newTestAgent(t)
	a.candidates = append(a.candidates, newLocalCandidate(0, net.ParseIP("10.0.0.5"), 54321))

	attrs := a.CandidateAttributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "candidate", attrs[0].Name)
	assert.True(t, attrs[0].HasValue)
	assert.Equal(t, "0 1 udp 2130706431 10.0.0.5 54321 typ host", attrs[0].Value)
}

func TestAddRemoteCandidateAcceptsValid(t *testing.T) {
	a := newTestAgent(t)

	err := a.AddRemoteCandidate("1 1 udp 2130706431 203.0.113.5 54321 typ host")
	require.NoError(t, err)

	got := a.RemoteCandidates()
	require.Len(t, got, 1)
	assert.Equal(t, "203.0.113.5", got[0].Address)
}

func TestAddRemoteCandidateRejectsUnsupported(t *testing.T) {
	a := newTestAgent(t)

	err := a.AddRemoteCandidate("1 1 sctp 100 203.0.113.5 1 typ host")
	assert.Error(t, err)
	assert.Empty(t, a.RemoteCandidates())
}

func TestRemoteCandidatesReturnsCopy(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.AddRemoteCandidate("1 1 udp 2130706431 203.0.113.5 54321 typ host"))

	got := a.RemoteCandidates()
	got[0].Address = "mutated"

	again := a.RemoteCandidates()
	assert.Equal(t, "203.0.113.5", again[0].Address)
}

func TestCloseWithNoSocketsIsANoop(t *testing.T) {
	a := newTestAgent(t)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
