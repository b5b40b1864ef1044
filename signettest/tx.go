package signettest

import "github.com/signet-one/signet"

// Tx represents an engine transaction.
// Transaction represents a single message that is to be processed within this
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg signet.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ signet.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (signet.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a mock message.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// ValidateErr if set is returned by Validate.
	ValidateErr error
}

var _ signet.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.ValidateErr
}
