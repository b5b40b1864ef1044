package multisig

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
	"github.com/signet-one/signet/orm"
)

const (
	// WalletBucketName is where we store the wallets
	WalletBucketName = "wallets"
	// ProposalBucketName is where we store the proposals
	ProposalBucketName = "proposals"

	// maxSigners bounds the wallet signer set. Everything above is
	// almost certainly a mistake and keeps records small.
	maxSigners = 100

	// maxActionRecords bounds the record addresses stored with an
	// action. Must not exceed the decoder address list cap, or a saved
	// proposal could never be read back.
	maxActionRecords = maxSigners

	// maxDerivationTag bounds the wallet derivation seed, it is stored
	// with a single length byte.
	maxDerivationTag = 255
)

// defaultDerivationTag is the seed of the singleton wallet. Anyone who
// reproduces these bytes derives the same wallet address, which is the
// whole point: the address is knowable without any stored mapping.
var defaultDerivationTag = []byte("multisig")

// WalletCondition returns the condition a wallet is derived from.
// Minting it into a context grants the wallet authority.
func WalletCondition(tag []byte) signet.Condition {
	return signet.NewCondition("multisig", "wallet", tag)
}

// ProposalCondition returns the condition a proposal record is derived
// from. The data section is exactly the proposal bucket key.
func ProposalCondition(wallet signet.Address, index int64) signet.Condition {
	return signet.NewCondition("multisig", "proposal", proposalKey(wallet, index))
}

// proposalKey builds the derived proposal key: wallet address followed
// by the big-endian index. Collision-free per (wallet, index).
func proposalKey(wallet signet.Address, index int64) []byte {
	key := make([]byte, len(wallet)+8)
	copy(key, wallet)
	binary.BigEndian.PutUint64(key[len(wallet):], uint64(index))
	return key
}

//-------------------- Wallet --------------------

// Wallet is the singleton M-of-N configuration. Signers and Threshold
// are immutable after initialization, ProposalCount only grows.
type Wallet struct {
	Signers       []signet.Address
	Threshold     int64
	ProposalCount int64
	DerivationTag []byte
}

var _ orm.Model = (*Wallet)(nil)

// Validate enforces the wallet invariants
func (w *Wallet) Validate() error {
	if err := validateSigners(w.Signers, w.Threshold); err != nil {
		return err
	}
	if w.ProposalCount < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative proposal count")
	}
	if n := len(w.DerivationTag); n == 0 || n > maxDerivationTag {
		return errors.Wrap(errors.ErrInvalidModel, "derivation tag size")
	}
	return nil
}

// Copy makes a deep copy of the wallet
func (w *Wallet) Copy() orm.Model {
	return &Wallet{
		Signers:       copyAddrs(w.Signers),
		Threshold:     w.Threshold,
		ProposalCount: w.ProposalCount,
		DerivationTag: append([]byte(nil), w.DerivationTag...),
	}
}

// Condition returns the condition this wallet is derived from
func (w *Wallet) Condition() signet.Condition {
	return WalletCondition(w.DerivationTag)
}

// IsSigner returns true if the address is a member of the signer set
func (w *Wallet) IsSigner(addr signet.Address) bool {
	return containsAddr(w.Signers, addr)
}

// Marshal encodes the wallet with a fixed layout: the signer list,
// threshold, proposal count and length-prefixed derivation tag.
func (w *Wallet) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	writeAddrs(&buf, w.Signers)
	writeInt64(&buf, w.Threshold)
	writeInt64(&buf, w.ProposalCount)
	buf.WriteByte(byte(len(w.DerivationTag)))
	buf.Write(w.DerivationTag)
	return buf.Bytes(), nil
}

// Unmarshal decodes a wallet written by Marshal
func (w *Wallet) Unmarshal(bz []byte) error {
	d := decoder{data: bz}
	w.Signers = d.addrs()
	w.Threshold = d.int64()
	w.ProposalCount = d.int64()
	w.DerivationTag = d.bytes(int(d.byte()))
	return d.finish("wallet")
}

//-------------------- Proposal --------------------

// Action is the opaque work order a proposal carries: the handler path
// to dispatch to, a payload the engine never interprets, and the
// record addresses the action intends to touch.
type Action struct {
	Path    string
	Payload []byte
	Records []signet.Address
}

// Validate requires a dispatchable path and valid record addresses
func (a *Action) Validate() error {
	if a.Path == "" {
		return errors.Wrap(errors.ErrEmpty, "action path")
	}
	if len(a.Records) > maxActionRecords {
		return errors.Wrapf(errors.ErrInvalidInput, "more than %d action records", maxActionRecords)
	}
	for _, r := range a.Records {
		if err := r.Validate(); err != nil {
			return errors.Wrap(err, "action record")
		}
	}
	return nil
}

func (a *Action) copy() Action {
	return Action{
		Path:    a.Path,
		Payload: append([]byte(nil), a.Payload...),
		Records: copyAddrs(a.Records),
	}
}

// Proposal is one pending action of a wallet. Approvals is append-only
// and a subset of the wallet signers, Executed flips at most once.
type Proposal struct {
	Wallet    signet.Address
	Proposer  signet.Address
	Index     int64
	Action    Action
	Approvals []signet.Address
	Executed  bool
}

var _ orm.Model = (*Proposal)(nil)

// Validate enforces the proposal invariants
func (p *Proposal) Validate() error {
	if err := p.Wallet.Validate(); err != nil {
		return errors.Wrap(err, "wallet")
	}
	if err := p.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if p.Index < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "proposal index starts at 1")
	}
	if err := p.Action.Validate(); err != nil {
		return err
	}
	if len(p.Approvals) == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "no approvals")
	}
	for i, a := range p.Approvals {
		if err := a.Validate(); err != nil {
			return errors.Wrap(err, "approval")
		}
		if containsAddr(p.Approvals[:i], a) {
			return errors.Wrap(errors.ErrInvalidModel, "duplicate approval")
		}
	}
	return nil
}

// Copy makes a deep copy of the proposal
func (p *Proposal) Copy() orm.Model {
	return &Proposal{
		Wallet:    p.Wallet.Clone(),
		Proposer:  p.Proposer.Clone(),
		Index:     p.Index,
		Action:    p.Action.copy(),
		Approvals: copyAddrs(p.Approvals),
		Executed:  p.Executed,
	}
}

// Marshal encodes the proposal with a fixed layout
func (p *Proposal) Marshal() ([]byte, error) {
	if len(p.Action.Path) > math.MaxUint32 {
		return nil, errors.Wrap(errors.ErrOverflow, "action path")
	}
	var buf bytes.Buffer
	buf.Write(p.Wallet)
	buf.Write(p.Proposer)
	writeInt64(&buf, p.Index)
	writeUint32(&buf, uint32(len(p.Action.Path)))
	buf.WriteString(p.Action.Path)
	writeUint32(&buf, uint32(len(p.Action.Payload)))
	buf.Write(p.Action.Payload)
	writeAddrs(&buf, p.Action.Records)
	writeAddrs(&buf, p.Approvals)
	if p.Executed {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a proposal written by Marshal
func (p *Proposal) Unmarshal(bz []byte) error {
	d := decoder{data: bz}
	p.Wallet = signet.Address(d.bytes(signet.AddressLength))
	p.Proposer = signet.Address(d.bytes(signet.AddressLength))
	p.Index = d.int64()
	p.Action.Path = string(d.bytes(int(d.uint32())))
	p.Action.Payload = d.bytes(int(d.uint32()))
	p.Action.Records = d.addrs()
	p.Approvals = d.addrs()
	p.Executed = d.byte() == 1
	return d.finish("proposal")
}

// HasApproval returns true if the address already approved
func (p *Proposal) HasApproval(addr signet.Address) bool {
	return containsAddr(p.Approvals, addr)
}

//-------------------- codec helpers --------------------

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeAddrs(buf *bytes.Buffer, addrs []signet.Address) {
	writeUint32(buf, uint32(len(addrs)))
	for _, a := range addrs {
		buf.Write(a)
	}
}

// decoder is a cursor over encoded bytes. It never panics on short
// input, it sticks on the first failure and finish reports it.
type decoder struct {
	data []byte
	bad  bool
}

func (d *decoder) bytes(n int) []byte {
	if d.bad || n < 0 || len(d.data) < n {
		d.bad = true
		return nil
	}
	out := append([]byte(nil), d.data[:n]...)
	d.data = d.data[n:]
	return out
}

func (d *decoder) byte() byte {
	b := d.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) uint32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) int64() int64 {
	b := d.bytes(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (d *decoder) addrs() []signet.Address {
	n := d.uint32()
	if d.bad || int(n) > maxSigners {
		d.bad = true
		return nil
	}
	out := make([]signet.Address, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, signet.Address(d.bytes(signet.AddressLength)))
	}
	return out
}

func (d *decoder) finish(what string) error {
	if d.bad {
		return errors.Wrapf(errors.ErrInvalidInput, "malformed %s record", what)
	}
	if len(d.data) != 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "%d trailing bytes after %s record", len(d.data), what)
	}
	return nil
}

func copyAddrs(addrs []signet.Address) []signet.Address {
	if addrs == nil {
		return nil
	}
	out := make([]signet.Address, len(addrs))
	for i, a := range addrs {
		out[i] = a.Clone()
	}
	return out
}

func containsAddr(addrs []signet.Address, addr signet.Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// validateSigners is shared by the wallet model and the initialize
// message, both must reject the same configurations.
func validateSigners(signers []signet.Address, threshold int64) error {
	switch n := len(signers); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "signers")
	case n > maxSigners:
		return errors.Wrapf(errors.ErrInvalidInput, "more than %d signers", maxSigners)
	}
	if threshold < 1 || threshold > int64(len(signers)) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d signers", threshold, len(signers))
	}
	for i, s := range signers {
		if err := s.Validate(); err != nil {
			return errors.Wrap(err, "signer")
		}
		if containsAddr(signers[:i], s) {
			return errors.Wrapf(ErrDuplicateSigner, "signer %s", s)
		}
	}
	return nil
}

//-------------------- buckets --------------------

// WalletBucket is a type-safe wrapper around orm.Bucket
type WalletBucket struct {
	orm.Bucket
}

// NewWalletBucket initializes a WalletBucket with default name
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		Bucket: orm.NewBucket(WalletBucketName, orm.NewSimpleObj(nil, new(Wallet))),
	}
}

// GetWallet returns the wallet stored under the derivation tag, or
// ErrNotFound if it was never initialized.
func (b WalletBucket) GetWallet(db signet.ReadOnlyKVStore, tag []byte) (*Wallet, error) {
	obj, err := b.Get(db, tag)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %X", tag)
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return w, nil
}

// Save persists the wallet under its derivation tag
func (b WalletBucket) Save(db signet.KVStore, w *Wallet) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(w.DerivationTag, w))
}

// ProposalBucket is a type-safe wrapper around orm.Bucket
type ProposalBucket struct {
	orm.Bucket
}

// NewProposalBucket initializes a ProposalBucket with default name
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket(ProposalBucketName, orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// GetProposal returns the proposal stored under the derived key, or
// ErrNotFound if no such proposal exists.
func (b ProposalBucket) GetProposal(db signet.ReadOnlyKVStore, key []byte) (*Proposal, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %X", key)
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Save persists the proposal under its derived (wallet, index) key
func (b ProposalBucket) Save(db signet.KVStore, p *Proposal) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(proposalKey(p.Wallet, p.Index), p))
}
