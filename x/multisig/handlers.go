package multisig

import (
	"strconv"

	common "github.com/tendermint/tendermint/libs/common"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
	"github.com/signet-one/signet/x"
)

const (
	initCost     int64 = 1
	proposalCost int64 = 1
	approveCost  int64 = 1
	executeCost  int64 = 1
)

// RegisterRoutes will instantiate and register all handlers in this
// package. A nil notifier falls back to NopNotifier.
func RegisterRoutes(r signet.Registry, auth x.Authenticator, executor Executor, notifier Notifier) {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	wallets := NewWalletBucket()
	proposals := NewProposalBucket()
	r.Handle(pathInitializeWalletMsg, InitializeWalletHandler{auth, wallets, notifier})
	r.Handle(pathCreateProposalMsg, CreateProposalHandler{auth, wallets, proposals, notifier})
	r.Handle(pathApproveProposalMsg, ApproveProposalHandler{auth, wallets, proposals, notifier})
	r.Handle(pathExecuteProposalMsg, ExecuteProposalHandler{auth, wallets, proposals, executor, notifier})
}

//-------------------- InitializeWallet --------------------

type InitializeWalletHandler struct {
	auth    x.Authenticator
	wallets WalletBucket
	notify  Notifier
}

var _ signet.Handler = InitializeWalletHandler{}

func (h InitializeWalletHandler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &signet.CheckResult{GasAllocated: initCost}, nil
}

func (h InitializeWalletHandler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// the wallet is a singleton, initialization happens once
	if h.wallets.Has(db, defaultDerivationTag) {
		return nil, errors.Wrap(errors.ErrDuplicate, "wallet already initialized")
	}

	wallet := &Wallet{
		Signers:       copyAddrs(msg.Signers),
		Threshold:     msg.Threshold,
		ProposalCount: 0,
		DerivationTag: defaultDerivationTag,
	}
	if err := h.wallets.Save(db, wallet); err != nil {
		return nil, err
	}

	addr := wallet.Condition().Address()
	h.notify.WalletInitialized(WalletInitialized{
		Wallet:    addr,
		Signers:   wallet.Signers,
		Threshold: wallet.Threshold,
	})

	return &signet.DeliverResult{
		Data: addr,
		Tags: []common.KVPair{
			signet.Pair("multisig", "init"),
			signet.Pair("wallet", addr.String()),
		},
	}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h InitializeWalletHandler) validate(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*InitializeWalletMsg, error) {
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	initMsg, ok := msg.(*InitializeWalletMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", msg)
	}
	if err := initMsg.Validate(); err != nil {
		return nil, err
	}
	return initMsg, nil
}

//-------------------- CreateProposal --------------------

type CreateProposalHandler struct {
	auth      x.Authenticator
	wallets   WalletBucket
	proposals ProposalBucket
	notify    Notifier
}

var _ signet.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &signet.CheckResult{GasAllocated: proposalCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	msg, wallet, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	proposer := x.MainSigner(ctx, h.auth).Address()
	walletAddr := wallet.Condition().Address()

	// the counter increment and the new record share the derived key,
	// a savepoint makes them land together or not at all
	index := wallet.ProposalCount + 1
	proposal := &Proposal{
		Wallet:    walletAddr,
		Proposer:  proposer,
		Index:     index,
		Action:    msg.Action.copy(),
		Approvals: []signet.Address{proposer},
		Executed:  false,
	}
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}
	wallet.ProposalCount = index
	if err := h.wallets.Save(db, wallet); err != nil {
		return nil, err
	}

	h.notify.ProposalCreated(ProposalCreated{
		Proposal: ProposalCondition(walletAddr, index).Address(),
		Proposer: proposer,
		Index:    index,
	})

	return &signet.DeliverResult{
		Data: proposalKey(walletAddr, index),
		Tags: []common.KVPair{
			signet.Pair("multisig", "create"),
			signet.Pair("proposal", strconv.FormatInt(index, 10)),
		},
	}, nil
}

func (h CreateProposalHandler) validate(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*CreateProposalMsg, *Wallet, error) {
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, err
	}
	createMsg, ok := msg.(*CreateProposalMsg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", msg)
	}
	if err := createMsg.Validate(); err != nil {
		return nil, nil, err
	}

	wallet, err := h.wallets.GetWallet(db, defaultDerivationTag)
	if err != nil {
		return nil, nil, err
	}
	if !wallet.IsSigner(sender.Address()) {
		return nil, nil, errors.Wrapf(ErrInvalidSigner, "%s", sender.Address())
	}
	return createMsg, wallet, nil
}

//-------------------- ApproveProposal --------------------

type ApproveProposalHandler struct {
	auth      x.Authenticator
	wallets   WalletBucket
	proposals ProposalBucket
	notify    Notifier
}

var _ signet.Handler = ApproveProposalHandler{}

func (h ApproveProposalHandler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &signet.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveProposalHandler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	_, wallet, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	approver := x.MainSigner(ctx, h.auth).Address()
	// approvals keep arrival order
	proposal.Approvals = append(proposal.Approvals, approver)
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}

	h.notify.ProposalApproved(ProposalApproved{
		Proposal:         ProposalCondition(proposal.Wallet, proposal.Index).Address(),
		Approver:         approver,
		ApprovalsNeeded:  wallet.Threshold,
		CurrentApprovals: int64(len(proposal.Approvals)),
	})

	return &signet.DeliverResult{
		Log: "approvals: " + strconv.Itoa(len(proposal.Approvals)),
		Tags: []common.KVPair{
			signet.Pair("multisig", "approve"),
			signet.Pair("proposal", strconv.FormatInt(proposal.Index, 10)),
		},
	}, nil
}

// validate checks membership first, then the executed flag, then for a
// repeated approval. The order is observable through error codes and
// must not change.
func (h ApproveProposalHandler) validate(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*ApproveProposalMsg, *Wallet, *Proposal, error) {
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, nil, err
	}
	approveMsg, ok := msg.(*ApproveProposalMsg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", msg)
	}
	if err := approveMsg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	wallet, err := h.wallets.GetWallet(db, defaultDerivationTag)
	if err != nil {
		return nil, nil, nil, err
	}
	proposal, err := h.proposals.GetProposal(db, approveMsg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}

	approver := sender.Address()
	if !wallet.IsSigner(approver) {
		return nil, nil, nil, errors.Wrapf(ErrInvalidSigner, "%s", approver)
	}
	if proposal.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", proposal.Index)
	}
	if proposal.HasApproval(approver) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyApproved, "%s", approver)
	}
	return approveMsg, wallet, proposal, nil
}

//-------------------- ExecuteProposal --------------------

type ExecuteProposalHandler struct {
	auth      x.Authenticator
	wallets   WalletBucket
	proposals ProposalBucket
	executor  Executor
	notify    Notifier
}

var _ signet.Handler = ExecuteProposalHandler{}

func (h ExecuteProposalHandler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &signet.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteProposalHandler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	msg, wallet, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// flip before delegating so the action cannot re-enter this
	// proposal. The savepoint above reverts the flip if the delegate
	// fails, leaving the proposal executable again.
	proposal.Executed = true
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}

	ctx = withMultisig(ctx, wallet.DerivationTag)
	if err := h.executor.Execute(ctx, db, &proposal.Action, msg.Records); err != nil {
		return nil, errors.Wrap(err, "executing action")
	}

	h.notify.ProposalExecuted(ProposalExecuted{
		Proposal: ProposalCondition(proposal.Wallet, proposal.Index).Address(),
		Index:    proposal.Index,
		Path:     proposal.Action.Path,
	})

	return &signet.DeliverResult{
		Log: "executed " + proposal.Action.Path,
		Tags: []common.KVPair{
			signet.Pair("multisig", "execute"),
			signet.Pair("proposal", strconv.FormatInt(proposal.Index, 10)),
		},
	}, nil
}

// validate checks the executed flag before the approval count. Any
// caller may execute, membership is not required here.
func (h ExecuteProposalHandler) validate(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*ExecuteProposalMsg, *Wallet, *Proposal, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, nil, err
	}
	execMsg, ok := msg.(*ExecuteProposalMsg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", msg)
	}
	if err := execMsg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	wallet, err := h.wallets.GetWallet(db, defaultDerivationTag)
	if err != nil {
		return nil, nil, nil, err
	}
	proposal, err := h.proposals.GetProposal(db, execMsg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}

	if proposal.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", proposal.Index)
	}
	if int64(len(proposal.Approvals)) < wallet.Threshold {
		return nil, nil, nil, errors.Wrapf(ErrMissingApprovals, "%d of %d",
			len(proposal.Approvals), wallet.Threshold)
	}
	return execMsg, wallet, proposal, nil
}
