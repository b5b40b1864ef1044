package multisig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
	"github.com/signet-one/signet/signettest"
	"github.com/signet-one/signet/store"
	"github.com/signet-one/signet/x"
)

// checkHandlerErr asserts the error matches the wanted root, or that
// there is none
func checkHandlerErr(t *testing.T, want *errors.Error, got error) {
	t.Helper()
	if want == nil {
		require.NoError(t, got)
	} else if !want.Is(got) {
		t.Fatalf("want %q, got %+v", want, got)
	}
}

// newContextWithAuth creates a context with perms as signers
func newContextWithAuth(perms ...signet.Condition) (signet.Context, x.Authenticator) {
	ctx := context.Background()
	auth := &signettest.CtxAuth{Key: "authKey"}
	return auth.SetConditions(ctx, perms...), auth
}

// newAddrs creates an array with addresses from each condition
func newAddrs(perms ...signet.Condition) []signet.Address {
	var addrs []signet.Address
	for _, p := range perms {
		addrs = append(addrs, p.Address())
	}
	return addrs
}

func initWallet(t *testing.T, db signet.KVStore, signers []signet.Address, threshold int64) *Wallet {
	t.Helper()
	k := signettest.NewCondition()
	ctx, auth := newContextWithAuth(k)
	handler := InitializeWalletHandler{auth, NewWalletBucket(), NopNotifier{}}
	_, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &InitializeWalletMsg{
		Signers:   signers,
		Threshold: threshold,
	}})
	require.NoError(t, err)

	wallet, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
	require.NoError(t, err)
	return wallet
}

func createProposal(t *testing.T, db signet.KVStore, proposer signet.Condition, action Action) []byte {
	t.Helper()
	ctx, auth := newContextWithAuth(proposer)
	handler := CreateProposalHandler{auth, NewWalletBucket(), NewProposalBucket(), NopNotifier{}}
	res, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &CreateProposalMsg{Action: action}})
	require.NoError(t, err)
	return res.Data
}

func queryProposal(t *testing.T, db signet.KVStore, id []byte) *Proposal {
	t.Helper()
	p, err := NewProposalBucket().GetProposal(db, id)
	require.NoError(t, err)
	return p
}

func approve(t *testing.T, db signet.KVStore, approver signet.Condition, id []byte) error {
	t.Helper()
	ctx, auth := newContextWithAuth(approver)
	handler := ApproveProposalHandler{auth, NewWalletBucket(), NewProposalBucket(), NopNotifier{}}
	_, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &ApproveProposalMsg{ProposalID: id}})
	return err
}

func testAction() Action {
	return Action{
		Path:    "cash/send",
		Payload: []byte("pay the rent"),
	}
}

func TestInitializeWalletHandler(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()
	c := signettest.NewCondition()

	cases := map[string]struct {
		msg     *InitializeWalletMsg
		wantErr *errors.Error
	}{
		"valid 2 of 3": {
			msg: &InitializeWalletMsg{Signers: newAddrs(a, b, c), Threshold: 2},
		},
		"threshold above signer count": {
			msg:     &InitializeWalletMsg{Signers: newAddrs(a, b), Threshold: 3},
			wantErr: ErrInvalidThreshold,
		},
		"zero threshold": {
			msg:     &InitializeWalletMsg{Signers: newAddrs(a, b), Threshold: 0},
			wantErr: ErrInvalidThreshold,
		},
		"duplicate signer": {
			msg:     &InitializeWalletMsg{Signers: newAddrs(a, b, a), Threshold: 2},
			wantErr: ErrDuplicateSigner,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx, auth := newContextWithAuth(a)
			handler := InitializeWalletHandler{auth, NewWalletBucket(), NopNotifier{}}
			tx := &signettest.Tx{Msg: tc.msg}

			_, err := handler.Check(ctx, db, tx)
			checkHandlerErr(t, tc.wantErr, err)

			_, err = handler.Deliver(ctx, db, tx)
			checkHandlerErr(t, tc.wantErr, err)

			// a failed initialization must not leave a record behind
			hasWallet := NewWalletBucket().Has(db, defaultDerivationTag)
			assert.Equal(t, tc.wantErr == nil, hasWallet)

			if tc.wantErr == nil {
				wallet, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
				require.NoError(t, err)
				assert.Equal(t, tc.msg.Threshold, wallet.Threshold)
				assert.Equal(t, tc.msg.Signers, wallet.Signers)
				assert.Equal(t, int64(0), wallet.ProposalCount)
			}
		})
	}
}

func TestInitializeWalletOnlyOnce(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()

	db := store.MemStore()
	initWallet(t, db, newAddrs(a, b), 2)

	ctx, auth := newContextWithAuth(a)
	handler := InitializeWalletHandler{auth, NewWalletBucket(), NopNotifier{}}
	_, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &InitializeWalletMsg{
		Signers:   newAddrs(a),
		Threshold: 1,
	}})
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}

	// the original configuration is untouched
	wallet, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
	require.NoError(t, err)
	assert.Equal(t, int64(2), wallet.Threshold)
}

func TestCreateProposalHandler(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()
	outsider := signettest.NewCondition()

	db := store.MemStore()
	wallet := initWallet(t, db, newAddrs(a, b), 2)
	walletAddr := wallet.Condition().Address()

	t.Run("proposer must be a wallet signer", func(t *testing.T) {
		ctx, auth := newContextWithAuth(outsider)
		handler := CreateProposalHandler{auth, NewWalletBucket(), NewProposalBucket(), NopNotifier{}}
		_, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &CreateProposalMsg{Action: testAction()}})
		if !ErrInvalidSigner.Is(err) {
			t.Fatalf("want ErrInvalidSigner, got %+v", err)
		}
		// nothing was stored and the counter did not move
		w, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.ProposalCount)
	})

	t.Run("first proposal gets index 1 and the proposer approval", func(t *testing.T) {
		id := createProposal(t, db, a, testAction())
		assert.Equal(t, proposalKey(walletAddr, 1), id)

		p := queryProposal(t, db, id)
		assert.Equal(t, walletAddr, p.Wallet)
		assert.Equal(t, a.Address(), p.Proposer)
		assert.Equal(t, int64(1), p.Index)
		assert.Equal(t, []signet.Address{a.Address()}, p.Approvals)
		assert.False(t, p.Executed)

		w, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
		require.NoError(t, err)
		assert.Equal(t, int64(1), w.ProposalCount)
	})

	t.Run("indices keep growing", func(t *testing.T) {
		id := createProposal(t, db, b, testAction())
		assert.Equal(t, proposalKey(walletAddr, 2), id)
		assert.Equal(t, int64(2), queryProposal(t, db, id).Index)
	})
}

func TestCreateProposalNoWallet(t *testing.T) {
	a := signettest.NewCondition()
	db := store.MemStore()

	ctx, auth := newContextWithAuth(a)
	handler := CreateProposalHandler{auth, NewWalletBucket(), NewProposalBucket(), NopNotifier{}}
	_, err := handler.Deliver(ctx, db, &signettest.Tx{Msg: &CreateProposalMsg{Action: testAction()}})
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestApproveProposalHandler(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()
	c := signettest.NewCondition()
	outsider := signettest.NewCondition()

	db := store.MemStore()
	initWallet(t, db, newAddrs(a, b, c), 3)
	id := createProposal(t, db, a, testAction())

	if err := approve(t, db, outsider, id); !ErrInvalidSigner.Is(err) {
		t.Fatalf("want ErrInvalidSigner, got %+v", err)
	}
	if err := approve(t, db, a, id); !ErrAlreadyApproved.Is(err) {
		t.Fatalf("proposer auto-approved, want ErrAlreadyApproved, got %+v", err)
	}

	require.NoError(t, approve(t, db, b, id))
	require.NoError(t, approve(t, db, c, id))

	// approvals keep arrival order
	p := queryProposal(t, db, id)
	assert.Equal(t, []signet.Address{a.Address(), b.Address(), c.Address()}, p.Approvals)

	if err := approve(t, db, b, id); !ErrAlreadyApproved.Is(err) {
		t.Fatalf("want ErrAlreadyApproved, got %+v", err)
	}
}

func TestApproveMissingProposal(t *testing.T) {
	a := signettest.NewCondition()
	db := store.MemStore()
	wallet := initWallet(t, db, newAddrs(a), 1)

	err := approve(t, db, a, proposalKey(wallet.Condition().Address(), 42))
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestExecuteProposalHandler(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()
	anyone := signettest.NewCondition()

	db := store.MemStore()
	wallet := initWallet(t, db, newAddrs(a, b), 2)
	walletAddr := wallet.Condition().Address()
	id := createProposal(t, db, a, testAction())

	var (
		executed  int
		gotAction *Action
		gotAuthed bool
	)
	executor := ExecutorFunc(func(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error {
		executed++
		gotAction = action
		// the wallet authority must be minted into the context
		gotAuthed = Authenticate{}.HasAddress(ctx, walletAddr)
		return nil
	})

	ctx, auth := newContextWithAuth(anyone)
	handler := ExecuteProposalHandler{auth, NewWalletBucket(), NewProposalBucket(), executor, NopNotifier{}}
	tx := &signettest.Tx{Msg: &ExecuteProposalMsg{ProposalID: id}}

	// below quorum
	_, err := handler.Deliver(ctx, db, tx)
	if !ErrMissingApprovals.Is(err) {
		t.Fatalf("want ErrMissingApprovals, got %+v", err)
	}
	assert.Equal(t, 0, executed)
	assert.False(t, queryProposal(t, db, id).Executed)

	require.NoError(t, approve(t, db, b, id))

	_, err = handler.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, executed)
	assert.True(t, gotAuthed)
	require.NotNil(t, gotAction)
	assert.Equal(t, "cash/send", gotAction.Path)
	assert.True(t, queryProposal(t, db, id).Executed)

	// a proposal executes at most once
	_, err = handler.Deliver(ctx, db, tx)
	if !ErrAlreadyExecuted.Is(err) {
		t.Fatalf("want ErrAlreadyExecuted, got %+v", err)
	}
	assert.Equal(t, 1, executed)
}

// TestExecuteProposalRevertsOnFailure runs the full decorator stack,
// so a failing delegate discards the executed flag flip and the
// proposal can be retried.
func TestExecuteProposalRevertsOnFailure(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()

	db := store.MemStore()
	auth := &signettest.CtxAuth{Key: "authKey"}

	fail := true
	executor := ExecutorFunc(func(ctx signet.Context, db signet.KVStore, action *Action, records []signet.Address) error {
		db.Set([]byte("side-effect"), []byte("yes"))
		if fail {
			return errors.ErrInvalidState.New("delegate exploded")
		}
		return nil
	})
	stack, _ := NewStack(auth, executor, nil)

	deliver := func(cond signet.Condition, msg signet.Msg) error {
		ctx := auth.SetConditions(context.Background(), cond)
		_, err := stack.Deliver(ctx, db, &signettest.Tx{Msg: msg})
		return err
	}

	require.NoError(t, deliver(a, &InitializeWalletMsg{Signers: newAddrs(a, b), Threshold: 2}))
	wallet, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
	require.NoError(t, err)
	id := proposalKey(wallet.Condition().Address(), 1)

	require.NoError(t, deliver(a, &CreateProposalMsg{Action: testAction()}))
	require.NoError(t, deliver(b, &ApproveProposalMsg{ProposalID: id}))

	// failing delegate reverts everything, including the flag flip
	err = deliver(a, &ExecuteProposalMsg{ProposalID: id})
	require.Error(t, err)
	assert.False(t, queryProposal(t, db, id).Executed)
	assert.False(t, db.Has([]byte("side-effect")))

	// the same proposal is still executable
	fail = false
	require.NoError(t, deliver(a, &ExecuteProposalMsg{ProposalID: id}))
	assert.True(t, queryProposal(t, db, id).Executed)
	assert.True(t, db.Has([]byte("side-effect")))
}

// TestRouterExecutorDispatch wires execution through a router, the way
// an embedding application would.
func TestRouterExecutorDispatch(t *testing.T) {
	a := signettest.NewCondition()

	db := store.MemStore()
	auth := &signettest.CtxAuth{Key: "authKey"}

	stack, router := NewStack(auth, nil, nil)
	target := &signettest.Handler{}
	router.Handle("cash/send", target)

	ctx := auth.SetConditions(context.Background(), a)
	_, err := stack.Deliver(ctx, db, &signettest.Tx{Msg: &InitializeWalletMsg{
		Signers:   newAddrs(a),
		Threshold: 1,
	}})
	require.NoError(t, err)
	wallet, err := NewWalletBucket().GetWallet(db, defaultDerivationTag)
	require.NoError(t, err)
	id := proposalKey(wallet.Condition().Address(), 1)

	_, err = stack.Deliver(ctx, db, &signettest.Tx{Msg: &CreateProposalMsg{Action: testAction()}})
	require.NoError(t, err)

	_, err = stack.Deliver(ctx, db, &signettest.Tx{Msg: &ExecuteProposalMsg{ProposalID: id}})
	require.NoError(t, err)
	assert.Equal(t, 1, target.DeliverCallCount())
}
