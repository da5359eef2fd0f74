package state

import (
	"math/big"

	"github.com/simeth/simeth/core/types"
)

// GenesisAccount represents an account in the genesis allocation.
type GenesisAccount struct {
	Balance *big.Int
	Code    []byte
	Nonce   uint64
	Storage map[types.Hash]types.Hash
}

// GenesisAlloc is the genesis allocation map: address -> account.
type GenesisAlloc map[types.Address]GenesisAccount

// Apply writes the allocation (balances, code, nonces, storage) into the
// given state. It is meant to run once, before genesis construction.
func (ga GenesisAlloc) Apply(st *MemoryState) {
	for addr, account := range ga {
		st.CreateAccount(addr)
		if account.Balance != nil {
			st.AddBalance(addr, account.Balance)
		}
		if account.Nonce > 0 {
			st.SetNonce(addr, account.Nonce)
		}
		if len(account.Code) > 0 {
			st.SetCode(addr, account.Code)
		}
		for key, val := range account.Storage {
			st.SetState(addr, key, val)
		}
	}
}
