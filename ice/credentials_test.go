package ice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCredentials(t *testing.T) {
	ufrag, pwd, err := generateCredentials()
	require.NoError(t, err)

	assert.Len(t, ufrag, ufragLength)
	assert.Len(t, pwd, pwdLength)

	for _, r := range ufrag + pwd {
		assert.True(t, strings.ContainsRune(iceCharset, r), "unexpected character %q", r)
	}
}

func TestGenerateCredentialsAreRandom(t *testing.T) {
	ufrag1, pwd1, err := generateCredentials()
	require.NoError(t, err)
	ufrag2, pwd2, err := generateCredentials()
	require.NoError(t, err)

	// Cryptographically random 4- and 22-character strings colliding is
	// astronomically unlikely; a collision here would indicate a broken
	// random source, not bad luck.
	assert.NotEqual(t, ufrag1, ufrag2)
	assert.NotEqual(t, pwd1, pwd2)
}
