package signet

import (
	common "github.com/tendermint/tendermint/libs/common"
)

// CheckResult captures any non-error response from
// validating an operation without applying it.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasAllocated is an estimate of the work this operation may cost
	// when delivered, used by callers for admission control.
	GasAllocated int64
}

// DeliverResult captures any non-error response from
// applying an operation.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags can be used to index the committed transition for later lookup
	Tags []common.KVPair
	// GasUsed is the actual cost of the call
	GasUsed int64
}

// Pair is a helper to create a KVPair tag.
func Pair(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}
