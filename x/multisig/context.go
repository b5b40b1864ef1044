package multisig

import (
	"context"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/x"
)

type contextKey int // local to the multisig module

const (
	contextKeyMultisig contextKey = iota
)

// withMultisig is a private method, as only this module can mint the
// wallet authority into a context
func withMultisig(ctx signet.Context, tag []byte) signet.Context {
	return context.WithValue(ctx, contextKeyMultisig, WalletCondition(tag))
}

// Authenticate gets conditions on the multisig context key
type Authenticate struct {
}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the wallet condition if previously minted on
// this context
func (a Authenticate) GetConditions(ctx signet.Context) []signet.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyMultisig).(signet.Condition)
	if val == nil {
		return nil
	}
	return []signet.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx signet.Context, addr signet.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
