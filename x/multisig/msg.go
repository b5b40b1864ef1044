package multisig

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
)

const (
	pathInitializeWalletMsg = "multisig/init"
	pathCreateProposalMsg   = "multisig/create"
	pathApproveProposalMsg  = "multisig/approve"
	pathExecuteProposalMsg  = "multisig/execute"
)

var (
	_ signet.Msg = (*InitializeWalletMsg)(nil)
	_ signet.Msg = (*CreateProposalMsg)(nil)
	_ signet.Msg = (*ApproveProposalMsg)(nil)
	_ signet.Msg = (*ExecuteProposalMsg)(nil)
)

// InitializeWalletMsg creates the singleton wallet with a fixed signer
// set and approval threshold.
type InitializeWalletMsg struct {
	Signers   []signet.Address
	Threshold int64
}

// Path fulfills signet.Msg interface
func (InitializeWalletMsg) Path() string {
	return pathInitializeWalletMsg
}

// Validate rejects threshold and signer sets that can never be stored
func (m *InitializeWalletMsg) Validate() error {
	return validateSigners(m.Signers, m.Threshold)
}

// CreateProposalMsg records a new action proposal on the wallet.
// The main signer becomes the proposer and the first approval.
type CreateProposalMsg struct {
	Action Action
}

// Path fulfills signet.Msg interface
func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

// Validate fulfills signet.Msg interface
func (m *CreateProposalMsg) Validate() error {
	return m.Action.Validate()
}

// ApproveProposalMsg adds the main signer to the approval list of an
// existing proposal.
type ApproveProposalMsg struct {
	ProposalID []byte
}

// Path fulfills signet.Msg interface
func (ApproveProposalMsg) Path() string {
	return pathApproveProposalMsg
}

// Validate fulfills signet.Msg interface
func (m *ApproveProposalMsg) Validate() error {
	return validateProposalID(m.ProposalID)
}

// ExecuteProposalMsg executes a proposal that reached the threshold.
// Records optionally carries extra record addresses handed through to
// the executor on top of the ones stored with the action.
type ExecuteProposalMsg struct {
	ProposalID []byte
	Records    []signet.Address
}

// Path fulfills signet.Msg interface
func (ExecuteProposalMsg) Path() string {
	return pathExecuteProposalMsg
}

// Validate fulfills signet.Msg interface
func (m *ExecuteProposalMsg) Validate() error {
	if err := validateProposalID(m.ProposalID); err != nil {
		return err
	}
	for _, r := range m.Records {
		if err := r.Validate(); err != nil {
			return errors.Wrap(err, "record")
		}
	}
	return nil
}

// validateProposalID accepts only the derived record key, the wallet
// address followed by the big-endian index.
func validateProposalID(id []byte) error {
	if want := signet.AddressLength + 8; len(id) != want {
		return errors.Wrapf(errors.ErrInvalidInput, "proposal id must be %d bytes", want)
	}
	return nil
}
