package stun

import (
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecParseMatchesPackageParse(t *testing.T) {
	h := Header{Method: MethodBinding, Class: ClassRequest, TransactionID: TransactionID{1}}
	raw := Base(h).WithAttributes([]Attribute{Username("mchlrhw")}).Encode()

	c := NewCodec(logging.NewDefaultLoggerFactory())
	msg, remainder, err := c.Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, remainder)

	want, _, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, want, msg)
}

func TestCodecParsePropagatesError(t *testing.T) {
	c := NewCodec(logging.NewDefaultLoggerFactory())
	_, _, err := c.Parse([]byte{0x00})
	assert.Error(t, err)
}
