package signettest

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/crypto"
)

// NewKey returns a random private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a freshly generated identity key.
func NewCondition() signet.Condition {
	return NewKey().PublicKey().Condition()
}
