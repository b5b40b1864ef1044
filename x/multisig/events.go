package multisig

import (
	"github.com/signet-one/signet"
)

// WalletInitialized is emitted once when the wallet is created.
type WalletInitialized struct {
	Wallet    signet.Address
	Signers   []signet.Address
	Threshold int64
}

// ProposalCreated is emitted when a signer records a new proposal.
type ProposalCreated struct {
	Proposal signet.Address
	Proposer signet.Address
	Index    int64
}

// ProposalApproved is emitted on every accepted approval, including
// how far the proposal is from the threshold.
type ProposalApproved struct {
	Proposal         signet.Address
	Approver         signet.Address
	ApprovalsNeeded  int64
	CurrentApprovals int64
}

// ProposalExecuted is emitted after the delegated action succeeded.
type ProposalExecuted struct {
	Proposal signet.Address
	Index    int64
	Path     string
}

// Notifier receives engine events after the triggering operation
// succeeded. Calls are fire-and-forget, a Notifier cannot fail or
// abort the operation that produced the event.
type Notifier interface {
	WalletInitialized(WalletInitialized)
	ProposalCreated(ProposalCreated)
	ProposalApproved(ProposalApproved)
	ProposalExecuted(ProposalExecuted)
}

// NopNotifier discards all events. It is the default when no Notifier
// is provided.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) WalletInitialized(WalletInitialized) {}
func (NopNotifier) ProposalCreated(ProposalCreated)     {}
func (NopNotifier) ProposalApproved(ProposalApproved)   {}
func (NopNotifier) ProposalExecuted(ProposalExecuted)   {}
