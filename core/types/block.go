package types

import (
	"math/big"
	"sync/atomic"
	"unsafe"
)

// Withdrawal represents a validator withdrawal from the beacon chain.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex uint64
	Address        Address
	Amount         uint64 // in Gwei
}

// Body contains the transactions, receipts and withdrawals of a block.
type Body struct {
	Transactions []*Transaction
	Receipts     []*Receipt
	Withdrawals  []*Withdrawal
}

// Block represents a fully assembled block: header, ordered transactions, the
// receipts produced by executing them, and (post-Shanghai) withdrawals. Blocks
// are immutable once constructed; a nil Withdrawals slice means the block
// predates withdrawals, while an empty non-nil slice means "present but empty".
type Block struct {
	header *Header
	body   Body

	hash atomic.Pointer[Hash]
	size atomic.Uint64
}

// NewBlock creates a new block with the given header and body.
// A nil body is treated as an empty body.
func NewBlock(header *Header, body *Body) *Block {
	b := &Block{header: CopyHeader(header)}
	if body != nil {
		b.body.Transactions = make([]*Transaction, len(body.Transactions))
		copy(b.body.Transactions, body.Transactions)

		b.body.Receipts = make([]*Receipt, len(body.Receipts))
		copy(b.body.Receipts, body.Receipts)

		if body.Withdrawals != nil {
			b.body.Withdrawals = make([]*Withdrawal, len(body.Withdrawals))
			for i, w := range body.Withdrawals {
				wCopy := *w
				b.body.Withdrawals[i] = &wCopy
			}
		}
	}
	return b
}

// Header returns a copy of the block header.
func (b *Block) Header() *Header { return CopyHeader(b.header) }

// Body returns the block body.
func (b *Block) Body() *Body {
	return &Body{
		Transactions: b.body.Transactions,
		Receipts:     b.body.Receipts,
		Withdrawals:  b.body.Withdrawals,
	}
}

// Transactions returns the block's transactions.
func (b *Block) Transactions() []*Transaction { return b.body.Transactions }

// Receipts returns the receipts of the block's transactions.
func (b *Block) Receipts() []*Receipt { return b.body.Receipts }

// Withdrawals returns the block's withdrawals (nil if pre-Shanghai).
func (b *Block) Withdrawals() []*Withdrawal { return b.body.Withdrawals }

// Number returns the block number.
func (b *Block) Number() *big.Int {
	if b.header.Number == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.Number)
}

// NumberU64 returns the block number as uint64.
func (b *Block) NumberU64() uint64 { return b.header.NumberU64() }

// GasLimit returns the gas limit of the block.
func (b *Block) GasLimit() uint64 { return b.header.GasLimit }

// GasUsed returns the gas used in the block.
func (b *Block) GasUsed() uint64 { return b.header.GasUsed }

// Time returns the block timestamp.
func (b *Block) Time() uint64 { return b.header.Time }

// Difficulty returns the block difficulty.
func (b *Block) Difficulty() *big.Int {
	if b.header.Difficulty == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.Difficulty)
}

// BaseFee returns the base fee of the block (nil if pre-London).
func (b *Block) BaseFee() *big.Int {
	if b.header.BaseFee == nil {
		return nil
	}
	return new(big.Int).Set(b.header.BaseFee)
}

// ParentHash returns the parent block hash.
func (b *Block) ParentHash() Hash { return b.header.ParentHash }

// TxHash returns the transactions root hash.
func (b *Block) TxHash() Hash { return b.header.TxHash }

// ReceiptHash returns the receipts root hash.
func (b *Block) ReceiptHash() Hash { return b.header.ReceiptHash }

// Root returns the state root hash.
func (b *Block) Root() Hash { return b.header.Root }

// Coinbase returns the block coinbase address.
func (b *Block) Coinbase() Address { return b.header.Coinbase }

// MixDigest returns the block mix digest (prevrandao post-merge).
func (b *Block) MixDigest() Hash { return b.header.MixDigest }

// Nonce returns the block nonce.
func (b *Block) Nonce() BlockNonce { return b.header.Nonce }

// Extra returns the block extra data.
func (b *Block) Extra() []byte { return b.header.Extra }

// Hash returns the keccak256 hash of the block header.
func (b *Block) Hash() Hash {
	if cached := b.hash.Load(); cached != nil {
		return *cached
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

// Size returns the approximate memory footprint of the block.
func (b *Block) Size() uint64 {
	if cached := b.size.Load(); cached != 0 {
		return cached
	}
	s := unsafe.Sizeof(*b)
	s += uintptr(b.header.Size())
	for _, tx := range b.body.Transactions {
		s += uintptr(tx.Size())
	}
	for _, w := range b.body.Withdrawals {
		s += unsafe.Sizeof(*w)
	}
	size := uint64(s)
	b.size.Store(size)
	return size
}
