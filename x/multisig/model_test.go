package multisig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
	"github.com/signet-one/signet/signettest"
	"github.com/signet-one/signet/store"
)

func TestWalletConditionDeterminism(t *testing.T) {
	// the same seed always derives the same address, without any
	// stored mapping
	a := WalletCondition([]byte("multisig")).Address()
	b := WalletCondition([]byte("multisig")).Address()
	assert.Equal(t, a, b)
	require.NoError(t, a.Validate())

	other := WalletCondition([]byte("other")).Address()
	assert.False(t, a.Equals(other))
}

func TestProposalConditionDistinct(t *testing.T) {
	wallet := WalletCondition(defaultDerivationTag).Address()

	one := ProposalCondition(wallet, 1).Address()
	alsoOne := ProposalCondition(wallet, 1).Address()
	two := ProposalCondition(wallet, 2).Address()

	assert.Equal(t, one, alsoOne)
	assert.False(t, one.Equals(two))
	assert.False(t, one.Equals(wallet))
}

func TestWalletValidate(t *testing.T) {
	a := signettest.NewCondition().Address()
	b := signettest.NewCondition().Address()

	cases := map[string]struct {
		wallet  Wallet
		wantErr *errors.Error
	}{
		"valid": {
			wallet: Wallet{
				Signers:       []signet.Address{a, b},
				Threshold:     2,
				DerivationTag: defaultDerivationTag,
			},
		},
		"no signers": {
			wallet:  Wallet{Threshold: 1, DerivationTag: defaultDerivationTag},
			wantErr: errors.ErrEmpty,
		},
		"threshold too high": {
			wallet: Wallet{
				Signers:       []signet.Address{a},
				Threshold:     2,
				DerivationTag: defaultDerivationTag,
			},
			wantErr: ErrInvalidThreshold,
		},
		"repeated signer": {
			wallet: Wallet{
				Signers:       []signet.Address{a, a},
				Threshold:     1,
				DerivationTag: defaultDerivationTag,
			},
			wantErr: ErrDuplicateSigner,
		},
		"missing derivation tag": {
			wallet: Wallet{
				Signers:   []signet.Address{a},
				Threshold: 1,
			},
			wantErr: errors.ErrInvalidModel,
		},
		"negative proposal count": {
			wallet: Wallet{
				Signers:       []signet.Address{a},
				Threshold:     1,
				ProposalCount: -1,
				DerivationTag: defaultDerivationTag,
			},
			wantErr: errors.ErrInvalidModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.wallet.Validate()
			checkHandlerErr(t, tc.wantErr, err)
		})
	}
}

func TestProposalValidate(t *testing.T) {
	a := signettest.NewCondition().Address()
	wallet := WalletCondition(defaultDerivationTag).Address()

	valid := Proposal{
		Wallet:    wallet,
		Proposer:  a,
		Index:     1,
		Action:    testAction(),
		Approvals: []signet.Address{a},
	}
	require.NoError(t, valid.Validate())

	missingPath := valid
	missingPath.Action.Path = ""
	if err := missingPath.Validate(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want ErrEmpty, got %+v", err)
	}

	zeroIndex := valid
	zeroIndex.Index = 0
	if err := zeroIndex.Validate(); !errors.ErrInvalidModel.Is(err) {
		t.Fatalf("want ErrInvalidModel, got %+v", err)
	}

	doubleApproval := valid
	doubleApproval.Approvals = []signet.Address{a, a}
	if err := doubleApproval.Validate(); !errors.ErrInvalidModel.Is(err) {
		t.Fatalf("want ErrInvalidModel, got %+v", err)
	}
}

func TestWalletBucketRoundtrip(t *testing.T) {
	a := signettest.NewCondition().Address()
	b := signettest.NewCondition().Address()

	db := store.MemStore()
	bucket := NewWalletBucket()

	wallet := &Wallet{
		Signers:       []signet.Address{a, b},
		Threshold:     2,
		ProposalCount: 7,
		DerivationTag: defaultDerivationTag,
	}
	require.NoError(t, bucket.Save(db, wallet))

	loaded, err := bucket.GetWallet(db, defaultDerivationTag)
	require.NoError(t, err)
	assert.Equal(t, wallet, loaded)
}

func TestProposalBucketRoundtrip(t *testing.T) {
	a := signettest.NewCondition().Address()
	b := signettest.NewCondition().Address()
	wallet := WalletCondition(defaultDerivationTag).Address()

	db := store.MemStore()
	bucket := NewProposalBucket()

	proposal := &Proposal{
		Wallet:   wallet,
		Proposer: a,
		Index:    3,
		Action: Action{
			Path:    "cash/send",
			Payload: []byte{0xde, 0xad, 0xbe, 0xef},
			Records: []signet.Address{b},
		},
		Approvals: []signet.Address{a, b},
		Executed:  true,
	}
	require.NoError(t, bucket.Save(db, proposal))

	loaded, err := bucket.GetProposal(db, proposalKey(wallet, 3))
	require.NoError(t, err)
	assert.Equal(t, proposal, loaded)

	// lookups under any other derived key miss
	_, err = bucket.GetProposal(db, proposalKey(wallet, 4))
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

// TestActionRecordListBound keeps the write-time record limit in sync
// with what the decoder accepts: anything that passes validation must
// also read back.
func TestActionRecordListBound(t *testing.T) {
	a := signettest.NewCondition().Address()
	wallet := WalletCondition(defaultDerivationTag).Address()

	records := make([]signet.Address, maxActionRecords)
	for i := range records {
		records[i] = signet.NewAddress([]byte{byte(i), byte(i >> 8)})
	}

	db := store.MemStore()
	bucket := NewProposalBucket()
	proposal := &Proposal{
		Wallet:   wallet,
		Proposer: a,
		Index:    1,
		Action: Action{
			Path:    "cash/send",
			Records: records,
		},
		Approvals: []signet.Address{a},
	}
	require.NoError(t, bucket.Save(db, proposal))

	loaded, err := bucket.GetProposal(db, proposalKey(wallet, 1))
	require.NoError(t, err)
	assert.Len(t, loaded.Action.Records, maxActionRecords)

	// one record over the limit is rejected before anything is stored
	over := Action{
		Path:    "cash/send",
		Records: append(records, signet.NewAddress([]byte("over"))),
	}
	if err := over.Validate(); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want ErrInvalidInput, got %+v", err)
	}
	msg := CreateProposalMsg{Action: over}
	if err := msg.Validate(); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want ErrInvalidInput, got %+v", err)
	}
}

func TestProposalUnmarshalGarbage(t *testing.T) {
	var p Proposal
	if err := p.Unmarshal([]byte("too short")); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want ErrInvalidInput, got %+v", err)
	}

	var w Wallet
	if err := w.Unmarshal(nil); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want ErrInvalidInput, got %+v", err)
	}
}
