package multisig

import (
	"github.com/signet-one/signet/errors"
)

// multisig reserves error codes 1030 ~ 1039
var (
	// ErrInvalidThreshold is returned when a wallet threshold is not
	// positive or exceeds the number of signers.
	ErrInvalidThreshold = errors.Register(1030, "invalid threshold")

	// ErrDuplicateSigner is returned when a signer set contains the same
	// address more than once.
	ErrDuplicateSigner = errors.Register(1031, "duplicate signer")

	// ErrInvalidSigner is returned when the acting identity is not a
	// member of the wallet signer set.
	ErrInvalidSigner = errors.Register(1032, "not a wallet signer")

	// ErrAlreadyExecuted is returned when operating on a proposal that
	// was already executed.
	ErrAlreadyExecuted = errors.Register(1033, "proposal already executed")

	// ErrAlreadyApproved is returned when a signer approves the same
	// proposal twice.
	ErrAlreadyApproved = errors.Register(1034, "proposal already approved by this signer")

	// ErrMissingApprovals is returned when executing a proposal whose
	// approval count is below the wallet threshold.
	ErrMissingApprovals = errors.Register(1035, "not enough approvals")
)
