package types

import (
	"math/big"
	"testing"
)

func TestNewBlockCopiesHeader(t *testing.T) {
	header := testHeader()
	block := NewBlock(header, nil)

	header.Number.SetUint64(99)
	if block.NumberU64() != 7 {
		t.Fatal("block shares header with caller")
	}
}

func TestNewBlockNilBody(t *testing.T) {
	block := NewBlock(testHeader(), nil)
	if len(block.Transactions()) != 0 || len(block.Receipts()) != 0 {
		t.Fatal("nil body should yield an empty block")
	}
	if block.Withdrawals() != nil {
		t.Fatal("nil body should have nil withdrawals")
	}
}

func TestNewBlockWithdrawalsPresence(t *testing.T) {
	// A present-but-empty withdrawals list must stay distinguishable from an
	// absent one: the distinction encodes pre/post-Shanghai header shape.
	empty := NewBlock(testHeader(), &Body{Withdrawals: []*Withdrawal{}})
	if empty.Withdrawals() == nil {
		t.Fatal("empty withdrawals list collapsed to nil")
	}
	if len(empty.Withdrawals()) != 0 {
		t.Fatal("empty withdrawals list not empty")
	}

	absent := NewBlock(testHeader(), &Body{})
	if absent.Withdrawals() != nil {
		t.Fatal("absent withdrawals list materialized")
	}
}

func TestBlockHashMatchesHeader(t *testing.T) {
	header := testHeader()
	block := NewBlock(header, nil)
	if block.Hash() != header.Hash() {
		t.Fatalf("block hash %v != header hash %v", block.Hash(), header.Hash())
	}
}

func TestBlockAccessors(t *testing.T) {
	header := testHeader()
	header.BaseFee = big.NewInt(7)
	tx := NewTransaction(&LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21_000, Value: big.NewInt(5)})
	receipt := NewReceipt(ReceiptStatusSuccessful, 21_000)

	block := NewBlock(header, &Body{
		Transactions: []*Transaction{tx},
		Receipts:     []*Receipt{receipt},
	})

	if block.GasLimit() != 30_000_000 || block.GasUsed() != 21_000 {
		t.Fatal("gas accessors disagree with header")
	}
	if block.Time() != 1_700_000_000 {
		t.Fatal("time accessor disagrees with header")
	}
	if block.BaseFee().Cmp(big.NewInt(7)) != 0 {
		t.Fatal("base fee accessor disagrees with header")
	}
	if len(block.Transactions()) != 1 || len(block.Receipts()) != 1 {
		t.Fatal("body accessors lost contents")
	}
	if block.Difficulty().Cmp(big.NewInt(131072)) != 0 {
		t.Fatal("difficulty accessor disagrees with header")
	}
}

func TestBlockBaseFeeNil(t *testing.T) {
	block := NewBlock(testHeader(), nil)
	if block.BaseFee() != nil {
		t.Fatal("pre-London block should have nil base fee")
	}
}
