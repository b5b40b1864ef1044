package multisig

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
)

// Executor runs the stored action of an executed proposal. The context
// it receives carries the wallet condition, so downstream code can
// authenticate the wallet through Authenticate. Any returned error
// aborts the whole execution, including the executed flag flip.
type Executor interface {
	Execute(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error
}

// ExecutorFunc turns a plain function into an Executor
type ExecutorFunc func(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error

var _ Executor = ExecutorFunc(nil)

func (f ExecutorFunc) Execute(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error {
	return f(ctx, db, action, records)
}

// RouterExecutor dispatches actions to handlers by the action path.
// The action payload and records travel in an ActionMsg delivered to
// whatever handler is registered under that path.
type RouterExecutor struct {
	h signet.Handler
}

var _ Executor = RouterExecutor{}

// NewRouterExecutor wraps a dispatching handler, usually an app.Router
func NewRouterExecutor(h signet.Handler) RouterExecutor {
	return RouterExecutor{h: h}
}

// Execute delivers the action to the handler registered under its path
func (e RouterExecutor) Execute(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error {
	recs := make([]signet.Address, 0, len(action.Records)+len(records))
	recs = append(recs, action.Records...)
	recs = append(recs, records...)
	msg := &ActionMsg{
		ActionPath: action.Path,
		Payload:    append([]byte(nil), action.Payload...),
		Records:    recs,
	}
	_, err := e.h.Deliver(ctx, db, &actionTx{msg: msg})
	return err
}

// ActionMsg carries an executed action to its target handler. Target
// handlers type-assert the message and interpret Payload themselves.
type ActionMsg struct {
	ActionPath string
	Payload    []byte
	Records    []signet.Address
}

var _ signet.Msg = (*ActionMsg)(nil)

// Path routes the message to the handler the proposal named
func (m *ActionMsg) Path() string {
	return m.ActionPath
}

// Validate fulfills signet.Msg interface
func (m *ActionMsg) Validate() error {
	if m.ActionPath == "" {
		return errors.Wrap(errors.ErrEmpty, "action path")
	}
	return nil
}

// actionTx is the internal transaction wrapper handed to the executor
// target. It never crosses a wire, so there is nothing else to carry.
type actionTx struct {
	msg *ActionMsg
}

var _ signet.Tx = (*actionTx)(nil)

func (tx *actionTx) GetMsg() (signet.Msg, error) {
	return tx.msg, nil
}
