package multisig

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ signet.Initializer = (*Initializer)(nil)

// FromGenesis will parse the initial wallet configuration from genesis
// and save it in the database. A missing "multisig" section is a noop.
func (*Initializer) FromGenesis(opts signet.Options, kv signet.KVStore) error {
	var conf struct {
		Signers   []signet.Address `json:"signers"`
		Threshold int64            `json:"threshold"`
	}
	if err := opts.ReadOptions("multisig", &conf); err != nil {
		return err
	}
	if len(conf.Signers) == 0 {
		return nil
	}

	bucket := NewWalletBucket()
	if bucket.Has(kv, defaultDerivationTag) {
		return errors.Wrap(errors.ErrDuplicate, "wallet already initialized")
	}
	wallet := &Wallet{
		Signers:       conf.Signers,
		Threshold:     conf.Threshold,
		ProposalCount: 0,
		DerivationTag: defaultDerivationTag,
	}
	if err := bucket.Save(kv, wallet); err != nil {
		return errors.Wrap(err, "cannot save wallet")
	}
	return nil
}
