package utils

import (
	"github.com/signet-one/signet"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
//
// This is what makes every operation all-or-nothing: a handler that
// fails after mutating records, or whose delegated call fails, leaves
// no partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ signet.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on Check
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{
		onCheck:   true,
		onDeliver: s.onDeliver,
	}
}

// OnDeliver returns a savepoint that will trigger on Deliver
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{
		onCheck:   s.onCheck,
		onDeliver: true,
	}
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Checker) (*signet.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}

	cstore, ok := store.(signet.CacheableKVStore)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	cache.Write()
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Deliverer) (*signet.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}

	cstore, ok := store.(signet.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	cache.Write()
	return res, nil
}
