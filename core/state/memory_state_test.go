package state

import (
	"math/big"
	"testing"

	"github.com/simeth/simeth/core/types"
)

func TestStateRootDeterministic(t *testing.T) {
	build := func() *MemoryState {
		st := NewMemoryState()
		st.AddBalance(types.HexToAddress("0x01"), big.NewInt(100))
		st.AddBalance(types.HexToAddress("0x02"), big.NewInt(200))
		st.SetNonce(types.HexToAddress("0x01"), 3)
		st.SetState(types.HexToAddress("0x02"), types.HexToHash("0x0a"), types.HexToHash("0x0b"))
		return st
	}

	rootA, err := build().StateRoot()
	if err != nil {
		t.Fatalf("StateRoot: %v", err)
	}
	rootB, err := build().StateRoot()
	if err != nil {
		t.Fatalf("StateRoot: %v", err)
	}
	if rootA != rootB {
		t.Fatalf("identical states produced different roots: %v vs %v", rootA, rootB)
	}
}

func TestStateRootChangesWithState(t *testing.T) {
	st := NewMemoryState()
	empty, _ := st.StateRoot()

	st.AddBalance(types.HexToAddress("0x01"), big.NewInt(1))
	funded, _ := st.StateRoot()
	if funded == empty {
		t.Fatal("balance change did not alter the state root")
	}

	st.SetState(types.HexToAddress("0x01"), types.HexToHash("0x0a"), types.HexToHash("0x0b"))
	withStorage, _ := st.StateRoot()
	if withStorage == funded {
		t.Fatal("storage change did not alter the state root")
	}
}

func TestCheckpointRevert(t *testing.T) {
	addr := types.HexToAddress("0x01")
	st := NewMemoryState()
	st.AddBalance(addr, big.NewInt(100))

	if err := st.Checkpoint(); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	before, _ := st.StateRoot()

	st.AddBalance(addr, big.NewInt(50))
	st.SetNonce(addr, 7)
	st.Revert()

	if got := st.GetBalance(addr); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance after revert: got %v, want 100", got)
	}
	if st.GetNonce(addr) != 0 {
		t.Fatal("nonce survived revert")
	}
	after, _ := st.StateRoot()
	if after != before {
		t.Fatal("state root differs after revert to checkpoint")
	}
}

func TestRevertWithoutCheckpoint(t *testing.T) {
	st := NewMemoryState()
	st.AddBalance(types.HexToAddress("0x01"), big.NewInt(1))
	st.Revert() // must not panic or clear state
	if st.GetBalance(types.HexToAddress("0x01")).Sign() == 0 {
		t.Fatal("revert without checkpoint cleared state")
	}
}

func TestSetCode(t *testing.T) {
	addr := types.HexToAddress("0x01")
	st := NewMemoryState()
	code := []byte{0x60, 0x00, 0x60, 0x00}
	st.SetCode(addr, code)

	if got := st.GetCode(addr); string(got) != string(code) {
		t.Fatalf("code: got %x, want %x", got, code)
	}
}

func TestGenesisAllocApply(t *testing.T) {
	addr := types.HexToAddress("0xabcd")
	alloc := GenesisAlloc{
		addr: {
			Balance: big.NewInt(1_000_000),
			Nonce:   2,
			Code:    []byte{0x01},
			Storage: map[types.Hash]types.Hash{
				types.HexToHash("0x01"): types.HexToHash("0x02"),
			},
		},
	}

	st := NewMemoryState()
	alloc.Apply(st)

	if st.GetBalance(addr).Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatal("alloc balance not applied")
	}
	if st.GetNonce(addr) != 2 {
		t.Fatal("alloc nonce not applied")
	}
	if len(st.GetCode(addr)) != 1 {
		t.Fatal("alloc code not applied")
	}
	if st.GetState(addr, types.HexToHash("0x01")) != types.HexToHash("0x02") {
		t.Fatal("alloc storage not applied")
	}
}
