package utils

import (
	"time"

	"github.com/signet-one/signet"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ signet.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Checker) (*signet.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, signet.GetPath(tx), start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx signet.Context, store signet.KVStore, tx signet.Tx, next signet.Deliverer) (*signet.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, signet.GetPath(tx), start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx signet.Context, path string, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := signet.GetLogger(ctx).With("path", path, "duration", delta/time.Microsecond)

	if err != nil {
		logger = logger.With("err", err)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Error(msg)
	} else {
		if lowPrio {
			logger.Debug(msg)
		} else {
			logger.Info(msg)
		}
	}
}
