package core

import (
	"fmt"

	"github.com/simeth/simeth/core/types"
)

// Validator decides whether a candidate block may legally follow the current
// head. The chain treats a positive result as authoritative: the store does
// not re-derive contiguity or linkage rules after a successful validation.
type Validator interface {
	ValidateNextBlock(spec Spec, parent, candidate *types.Block) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(spec Spec, parent, candidate *types.Block) error

func (f ValidatorFunc) ValidateNextBlock(spec Spec, parent, candidate *types.Block) error {
	return f(spec, parent, candidate)
}

// ValidateNextBlock is the default validation rule set: the candidate must
// carry the next block number, link to the parent's hash, not move time
// backwards, and have the header shape its spec requires.
func ValidateNextBlock(spec Spec, parent, candidate *types.Block) error {
	expected := parent.NumberU64() + 1
	if actual := candidate.NumberU64(); actual != expected {
		return &InvalidBlockNumberError{Actual: actual, Expected: expected}
	}

	if candidate.ParentHash() != parent.Hash() {
		return fmt.Errorf("%w: %v does not link to head %v",
			ErrInvalidParentHash, candidate.ParentHash(), parent.Hash())
	}

	if candidate.Time() < parent.Time() {
		return fmt.Errorf("%w: %d < %d", ErrInvalidTimestamp, candidate.Time(), parent.Time())
	}

	if spec.AtLeast(London) && candidate.BaseFee() == nil {
		return ErrMissingBaseFee
	}

	if spec.AtLeast(Shanghai) && candidate.Header().WithdrawalsHash == nil {
		return ErrMissingWithdrawals
	}

	return nil
}
