package stun

import "crypto/rand"

// transactionIDSize is the fixed length of a STUN transaction id in bytes.
const transactionIDSize = 12

// TransactionID correlates a STUN request with its response. Equality is
// byte-wise.
type TransactionID [transactionIDSize]byte

// NewTransactionID returns a fresh, cryptographically random transaction
// id. pion/randutil's public surface only generates charset-restricted
// strings (see github.com/pion/randutil.GenerateCryptoRandomString, used
// for ICE credentials in the ice package); a transaction id needs 12
// arbitrary random bytes, so crypto/rand is used directly here.
func NewTransactionID() (TransactionID, error) {
	var id TransactionID
	if _, err := rand.Read(id[:]); err != nil {
		return TransactionID{}, err
	}
	return id, nil
}

// TransactionIDFromBytes builds a TransactionID from an existing 12-byte
// slice, as used when crafting a reply that echoes a request's id.
func TransactionIDFromBytes(b []byte) (TransactionID, error) {
	var id TransactionID
	if len(b) != transactionIDSize {
		return id, ErrInvalidTransactionID
	}
	copy(id[:], b)
	return id, nil
}
