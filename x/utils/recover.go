package utils

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ signet.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Checker) (_ *signet.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Deliverer) (_ *signet.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
