package crypto

import (
	"github.com/signet-one/signet"
	"golang.org/x/crypto/ed25519"
)

var _ PubKey = (*PublicKey)(nil)

// PublicKey is an ed25519 identity key. Possession of the matching
// private key is what the substrate verifies before handing an
// operation to the engine.
type PublicKey struct {
	Ed25519 ed25519.PublicKey
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig []byte) bool {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(p.Ed25519, message, sig)
}

// Condition encodes the public key into a permission
func (p *PublicKey) Condition() signet.Condition {
	if len(p.Ed25519) == 0 {
		return nil
	}
	return signet.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is a shortcut for Condition().Address()
func (p *PublicKey) Address() signet.Address {
	return p.Condition().Address()
}

var _ Signer = (*PrivateKey)(nil)

// PrivateKey is the private counterpart of a PublicKey.
type PrivateKey struct {
	Ed25519 ed25519.PrivateKey
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(p.Ed25519, message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := p.Ed25519.Public().(ed25519.PublicKey)
	return &PublicKey{
		Ed25519: pub,
	}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{
		Ed25519: priv,
	}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{
		Ed25519: priv,
	}
}
