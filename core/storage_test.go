package core

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/simeth/simeth/core/types"
)

// testStorage seeds a storage with a pre-merge style genesis of difficulty 1.
func testStorage(t *testing.T) (*reservableStorage, *types.Block) {
	t.Helper()
	header := &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        types.HexToHash("0x0a"),
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(1),
		Number:      new(big.Int),
		GasLimit:    30_000_000,
		Time:        genesisTime,
	}
	genesis := types.NewBlock(header, nil)
	return newReservableStorage(genesis, uint256.NewInt(1)), genesis
}

func TestStorageSeed(t *testing.T) {
	s, genesis := testStorage(t)

	if s.lastBlockNumber() != 0 {
		t.Fatal("seeded storage tail not at genesis")
	}
	if s.blockByNumber(0) != genesis {
		t.Fatal("genesis not reachable by number")
	}
	if s.blockByHash(genesis.Hash()) != genesis {
		t.Fatal("genesis not reachable by hash")
	}
	if td := s.totalDifficultyByHash(genesis.Hash()); td == nil || !td.Eq(uint256.NewInt(1)) {
		t.Fatalf("genesis total difficulty: got %v, want 1", td)
	}
}

func TestStorageStackedReservations(t *testing.T) {
	s, genesis := testStorage(t)

	s.reserveBlocks(3, 10, genesis, uint256.NewInt(1), Merge)
	if s.lastBlockNumber() != 3 {
		t.Fatalf("tail after first reservation: got %d, want 3", s.lastBlockNumber())
	}

	// The second reservation's parent is the materialized tail of the first.
	tail := s.blockByNumber(3)
	s.reserveBlocks(2, 5, tail, s.totalDifficultyByNumber(3), Merge)
	if s.lastBlockNumber() != 5 {
		t.Fatalf("tail after second reservation: got %d, want 5", s.lastBlockNumber())
	}

	// First range: genesisTime + k*10.
	if got := s.blockByNumber(2).Time(); got != genesisTime+2*10 {
		t.Fatalf("first range time: got %d, want %d", got, genesisTime+2*10)
	}
	// Second range: tail time + k*5.
	if got := s.blockByNumber(5).Time(); got != tail.Time()+2*5 {
		t.Fatalf("second range time: got %d, want %d", got, tail.Time()+2*5)
	}
	// The second range links to the first range's tail.
	if got := s.blockByNumber(4).ParentHash(); got != tail.Hash() {
		t.Fatalf("second range parent: got %v, want %v", got, tail.Hash())
	}
}

func TestStorageRevertTruncatesRangeInPlace(t *testing.T) {
	s, genesis := testStorage(t)
	s.reserveBlocks(10, 12, genesis, uint256.NewInt(1), Merge)

	if !s.revertToBlock(4) {
		t.Fatal("revert into the range failed")
	}
	if s.lastBlockNumber() != 4 {
		t.Fatalf("tail: got %d, want 4", s.lastBlockNumber())
	}
	if len(s.reservations) != 1 {
		t.Fatalf("reservations: got %d, want 1 truncated range", len(s.reservations))
	}
	if s.reservations[0].last != 4 {
		t.Fatalf("range end: got %d, want 4", s.reservations[0].last)
	}
	if s.blockByNumber(5) != nil {
		t.Fatal("number beyond the truncated range still materializable")
	}
	if got := s.blockByNumber(4).Time(); got != genesisTime+4*12 {
		t.Fatalf("truncated range timing changed: got %d", got)
	}
}

func TestStorageRevertDropsWholeRanges(t *testing.T) {
	s, genesis := testStorage(t)
	s.reserveBlocks(3, 10, genesis, uint256.NewInt(1), Merge)
	tail := s.blockByNumber(3)
	s.reserveBlocks(2, 5, tail, s.totalDifficultyByNumber(3), Merge)

	// Target sits exactly at the first range's end: second range dropped whole.
	if !s.revertToBlock(3) {
		t.Fatal("revert failed")
	}
	if len(s.reservations) != 1 {
		t.Fatalf("reservations: got %d, want 1", len(s.reservations))
	}
	if s.reservations[0].last != 3 {
		t.Fatalf("kept range end: got %d, want 3", s.reservations[0].last)
	}
}

func TestStorageRevertBeyondTail(t *testing.T) {
	s, _ := testStorage(t)
	if s.revertToBlock(1) {
		t.Fatal("revert beyond the tail succeeded")
	}
	if s.lastBlockNumber() != 0 {
		t.Fatal("failed revert moved the tail")
	}
}

func TestStorageRevertToGenesisKeepsGenesis(t *testing.T) {
	s, genesis := testStorage(t)
	s.reserveBlocks(5, 12, genesis, uint256.NewInt(1), Merge)

	if !s.revertToBlock(0) {
		t.Fatal("revert to genesis failed")
	}
	if s.blockByNumber(0) != genesis {
		t.Fatal("genesis lost by revert")
	}
	if len(s.reservations) != 0 {
		t.Fatal("reservations survived a revert to genesis")
	}
}

func TestStorageTotalDifficultyByNumberDerived(t *testing.T) {
	s, genesis := testStorage(t)

	// Pre-merge reservation: per-block difficulty equals the parent's.
	s.reserveBlocks(4, 12, genesis, uint256.NewInt(1), Berlin)

	// genesis TD 1, difficulty 1 per reserved block: TD(k) = 1 + k.
	for k := uint64(1); k <= 4; k++ {
		td := s.totalDifficultyByNumber(k)
		if td == nil || !td.Eq(uint256.NewInt(1+k)) {
			t.Fatalf("derived TD at %d: got %v, want %d", k, td, 1+k)
		}
	}
	if s.totalDifficultyByNumber(5) != nil {
		t.Fatal("TD derived outside the known span")
	}
}

func TestStorageFindReservationBounds(t *testing.T) {
	s, genesis := testStorage(t)
	s.reserveBlocks(3, 12, genesis, uint256.NewInt(1), Merge)

	if s.findReservation(0) != nil {
		t.Fatal("committed number matched a reservation")
	}
	if s.findReservation(1) == nil || s.findReservation(3) == nil {
		t.Fatal("range bounds not covered")
	}
	if s.findReservation(4) != nil {
		t.Fatal("number beyond the range matched")
	}
}
