package core

import "github.com/simeth/simeth/core/types"

// State is the external account-state collaborator consumed during genesis
// construction. Both operations are synchronous; implementations report
// failures as errors, which the chain wraps and surfaces to the caller.
type State interface {
	// Checkpoint establishes a checkpoint the caller can later revert to.
	Checkpoint() error

	// StateRoot computes the root hash of the current state.
	StateRoot() (types.Hash, error)
}
