package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseFee is returned when a post-London block or genesis is
	// built without a base fee per gas.
	ErrMissingBaseFee = errors.New("missing base fee per gas for post-London chain")

	// ErrMissingPrevrandao is returned when a post-merge genesis is built
	// without a prevrandao value.
	ErrMissingPrevrandao = errors.New("missing prevrandao for post-merge chain")

	// ErrMissingWithdrawals is returned when a post-Shanghai block lacks a
	// withdrawals list.
	ErrMissingWithdrawals = errors.New("missing withdrawals for post-Shanghai chain")

	// ErrUnknownBlockNumber is returned when a block number is outside the
	// known span of the chain, reserved blocks included.
	ErrUnknownBlockNumber = errors.New("unknown block number")

	// ErrInvalidParentHash is returned when a candidate block does not link
	// to the current head.
	ErrInvalidParentHash = errors.New("invalid parent hash")

	// ErrInvalidTimestamp is returned when a candidate block's timestamp is
	// older than its parent's.
	ErrInvalidTimestamp = errors.New("timestamp is older than parent")
)

// InvalidBlockNumberError is returned when a block's number does not match
// the number the chain expects at its position.
type InvalidBlockNumberError struct {
	Actual   uint64
	Expected uint64
}

func (e *InvalidBlockNumberError) Error() string {
	return fmt.Sprintf("invalid block number: %d, expected: %d", e.Actual, e.Expected)
}
