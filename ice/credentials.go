package ice

import "github.com/pion/randutil"

// ufragLength and pwdLength are the fixed credential lengths: a short
// ufrag and a longer password, both drawn from the ICE character set.
const (
	ufragLength = 4
	pwdLength   = 22
)

// generateCredentials mints a fresh (ufrag, password) pair from a
// cryptographically seeded source, the way the agent's username/password
// is minted once per peer-connection.
func generateCredentials() (ufrag, pwd string, err error) {
	ufrag, err = randutil.GenerateCryptoRandomString(ufragLength, iceCharset)
	if err != nil {
		return "", "", err
	}
	pwd, err = randutil.GenerateCryptoRandomString(pwdLength, iceCharset)
	if err != nil {
		return "", "", err
	}
	return ufrag, pwd, nil
}
