// Package state provides the in-memory account state backing the chain
// simulator. It implements the two-operation state contract the chain core
// consumes during genesis construction: establishing a checkpoint and
// computing a state root.
package state

import (
	"math/big"
	"sort"

	"github.com/simeth/simeth/core/types"
	"github.com/simeth/simeth/crypto"
)

// stateObject represents an account with its associated state.
type stateObject struct {
	account types.Account
	code    []byte
	storage map[types.Hash]types.Hash
}

func newStateObject() *stateObject {
	return &stateObject{
		account: types.NewAccount(),
		storage: make(map[types.Hash]types.Hash),
	}
}

func (obj *stateObject) copy() *stateObject {
	cpy := &stateObject{
		account: types.Account{
			Nonce:    obj.account.Nonce,
			Balance:  new(big.Int).Set(obj.account.Balance),
			Root:     obj.account.Root,
			CodeHash: append([]byte(nil), obj.account.CodeHash...),
		},
		code:    append([]byte(nil), obj.code...),
		storage: make(map[types.Hash]types.Hash, len(obj.storage)),
	}
	for k, v := range obj.storage {
		cpy.storage[k] = v
	}
	return cpy
}

// MemoryState is an in-memory account state with checkpoint support.
type MemoryState struct {
	stateObjects map[types.Address]*stateObject
	checkpoints  []map[types.Address]*stateObject
}

// NewMemoryState creates a new empty in-memory state.
func NewMemoryState() *MemoryState {
	return &MemoryState{
		stateObjects: make(map[types.Address]*stateObject),
	}
}

func (s *MemoryState) getOrNewStateObject(addr types.Address) *stateObject {
	if obj := s.stateObjects[addr]; obj != nil {
		return obj
	}
	obj := newStateObject()
	s.stateObjects[addr] = obj
	return obj
}

// CreateAccount creates a fresh account at the given address, replacing any
// existing one.
func (s *MemoryState) CreateAccount(addr types.Address) {
	s.stateObjects[addr] = newStateObject()
}

// AddBalance adds amount to the balance of the given account.
func (s *MemoryState) AddBalance(addr types.Address, amount *big.Int) {
	obj := s.getOrNewStateObject(addr)
	obj.account.Balance = new(big.Int).Add(obj.account.Balance, amount)
}

// GetBalance returns the balance of the given account.
func (s *MemoryState) GetBalance(addr types.Address) *big.Int {
	if obj := s.stateObjects[addr]; obj != nil {
		return new(big.Int).Set(obj.account.Balance)
	}
	return new(big.Int)
}

// SetNonce sets the nonce of the given account.
func (s *MemoryState) SetNonce(addr types.Address, nonce uint64) {
	s.getOrNewStateObject(addr).account.Nonce = nonce
}

// GetNonce returns the nonce of the given account.
func (s *MemoryState) GetNonce(addr types.Address) uint64 {
	if obj := s.stateObjects[addr]; obj != nil {
		return obj.account.Nonce
	}
	return 0
}

// SetCode sets the code of the given account.
func (s *MemoryState) SetCode(addr types.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	obj.code = append([]byte(nil), code...)
	obj.account.CodeHash = crypto.Keccak256(code)
}

// GetCode returns the code of the given account.
func (s *MemoryState) GetCode(addr types.Address) []byte {
	if obj := s.stateObjects[addr]; obj != nil {
		return obj.code
	}
	return nil
}

// SetState sets a storage slot of the given account.
func (s *MemoryState) SetState(addr types.Address, key, value types.Hash) {
	s.getOrNewStateObject(addr).storage[key] = value
}

// GetState returns a storage slot of the given account.
func (s *MemoryState) GetState(addr types.Address, key types.Hash) types.Hash {
	if obj := s.stateObjects[addr]; obj != nil {
		return obj.storage[key]
	}
	return types.Hash{}
}

// Checkpoint records the current state so a later Revert restores it.
func (s *MemoryState) Checkpoint() error {
	snapshot := make(map[types.Address]*stateObject, len(s.stateObjects))
	for addr, obj := range s.stateObjects {
		snapshot[addr] = obj.copy()
	}
	s.checkpoints = append(s.checkpoints, snapshot)
	return nil
}

// Revert restores the state recorded by the most recent Checkpoint.
// It is a no-op if no checkpoint exists.
func (s *MemoryState) Revert() {
	if len(s.checkpoints) == 0 {
		return
	}
	last := len(s.checkpoints) - 1
	s.stateObjects = s.checkpoints[last]
	s.checkpoints = s.checkpoints[:last]
}

// StateRoot computes a deterministic root hash over the full account state.
// Accounts and storage slots are folded in sorted order, so two states with
// identical contents always produce identical roots.
func (s *MemoryState) StateRoot() (types.Hash, error) {
	addrs := make([]types.Address, 0, len(s.stateObjects))
	for addr := range s.stateObjects {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i].Bytes()) < string(addrs[j].Bytes())
	})

	var acc []byte
	for _, addr := range addrs {
		obj := s.stateObjects[addr]
		entry := crypto.Keccak256(
			addr.Bytes(),
			uint64ToBytes(obj.account.Nonce),
			obj.account.Balance.Bytes(),
			obj.account.CodeHash,
			storageRoot(obj.storage).Bytes(),
		)
		acc = append(acc, entry...)
	}
	return crypto.Keccak256Hash(acc), nil
}

// storageRoot folds the storage slots of one account in sorted key order.
func storageRoot(storage map[types.Hash]types.Hash) types.Hash {
	if len(storage) == 0 {
		return types.EmptyRootHash
	}
	keys := make([]types.Hash, 0, len(storage))
	for k := range storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i].Bytes()) < string(keys[j].Bytes())
	})

	var acc []byte
	for _, k := range keys {
		v := storage[k]
		acc = append(acc, k.Bytes()...)
		acc = append(acc, v.Bytes()...)
	}
	return crypto.Keccak256Hash(acc)
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
