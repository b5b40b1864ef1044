/*
Package signet defines all common interfaces that weave the engine's
subpackages together, as well as implementations of some of the simpler
components (when interfaces would be too much overhead).

We pass context through context.Context between the decorator stack and
handlers. Each extension, such as multisig, may add its own keys to
enrich the context with specific data, most importantly the conditions a
caller has proven or a handler has derived.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package signet

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a renaming of the standard context
type Context = context.Context

type contextKey int // local to the signet module

const (
	contextKeyLogger contextKey = iota
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// WithLogger sets the logger on the context.
func WithLogger(ctx Context, logger log.Logger) Context {
	// Logger is a private type, so we can only set it here.
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the context,
// or a NopLogger if none was set.
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
