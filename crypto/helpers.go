package crypto

import (
	"github.com/signet-one/signet"
)

// ExtensionName is used for the conditions we derive from identity keys
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig []byte) bool
	Condition() signet.Condition
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() *PublicKey
}
