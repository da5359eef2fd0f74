package core

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/simeth/simeth/core/types"
)

// reservation describes a contiguous run of virtual block numbers that has
// been reserved but not materialized. Blocks inside the run are synthesized
// deterministically on lookup from the descriptor alone, so a reservation of
// a million numbers costs a single record. Successive reservations stack as
// independent trailing descriptors.
type reservation struct {
	first, last uint64
	interval    uint64

	// Parent context captured at reservation time. Base fee and state root
	// are carried forward unchanged: no execution happens for virtual blocks.
	parentHash types.Hash
	parentTime uint64
	gasLimit   uint64
	baseFee    *big.Int
	stateRoot  types.Hash
	difficulty *big.Int
	parentTD   *uint256.Int
	spec       Spec
}

// reservableStorage is the sole owner of all block records, derived indices
// and total-difficulty accounting. It performs no validation of its own: the
// insert precondition (number == head+1) is established by the caller through
// the validation contract.
//
// Committed blocks live in the hash/number indices; reserved numbers live
// only in the reservations slice and are synthesized on demand. Lookups by
// hash or transaction hash therefore cover the committed prefix only.
type reservableStorage struct {
	hashToBlock     map[types.Hash]*types.Block
	numberToHash    map[uint64]types.Hash
	txToBlock       map[types.Hash]*types.Block
	txToReceipt     map[types.Hash]*types.Receipt
	totalDifficulty map[types.Hash]*uint256.Int

	reservations []*reservation
	lastNumber   uint64
}

// newReservableStorage creates a storage seeded with the given genesis block
// and its total difficulty.
func newReservableStorage(genesis *types.Block, td *uint256.Int) *reservableStorage {
	s := &reservableStorage{
		hashToBlock:     make(map[types.Hash]*types.Block),
		numberToHash:    make(map[uint64]types.Hash),
		txToBlock:       make(map[types.Hash]*types.Block),
		txToReceipt:     make(map[types.Hash]*types.Receipt),
		totalDifficulty: make(map[types.Hash]*uint256.Int),
	}
	s.index(genesis, td)
	s.lastNumber = genesis.NumberU64()
	return s
}

// insertBlock appends a block whose number the caller has already validated
// to be head+1, and returns the stored shared handle.
func (s *reservableStorage) insertBlock(block *types.Block, td *uint256.Int) *types.Block {
	s.index(block, td)
	s.lastNumber = block.NumberU64()
	return block
}

// index records a block in all derived indices.
func (s *reservableStorage) index(block *types.Block, td *uint256.Int) {
	hash := block.Hash()
	s.hashToBlock[hash] = block
	s.numberToHash[block.NumberU64()] = hash
	s.totalDifficulty[hash] = td.Clone()

	receipts := block.Receipts()
	for i, tx := range block.Transactions() {
		txHash := tx.Hash()
		s.txToBlock[txHash] = block
		if i < len(receipts) {
			s.txToReceipt[txHash] = receipts[i]
		}
	}
}

// reserveBlocks records a run of count virtual block numbers following the
// current tail, carrying the parent's base fee, state root and gas limit
// forward. Per-block difficulty is zero post-merge, otherwise the parent's
// constant difficulty.
func (s *reservableStorage) reserveBlocks(count, interval uint64, parent *types.Block, parentTD *uint256.Int, spec Spec) {
	if count == 0 {
		return
	}

	difficulty := new(big.Int)
	if !spec.AtLeast(Merge) {
		difficulty = parent.Difficulty()
	}

	first := s.lastNumber + 1
	s.reservations = append(s.reservations, &reservation{
		first:      first,
		last:       first + count - 1,
		interval:   interval,
		parentHash: parent.Hash(),
		parentTime: parent.Time(),
		gasLimit:   parent.GasLimit(),
		baseFee:    parent.BaseFee(),
		stateRoot:  parent.Root(),
		difficulty: difficulty,
		parentTD:   parentTD.Clone(),
		spec:       spec,
	})
	s.lastNumber += count
}

// blockByNumber returns the committed block with the given number, a block
// synthesized from a covering reservation, or nil if the number is outside
// the known span. Synthesis is pure: repeated lookups of the same reserved
// number yield identical content and identical hashes.
func (s *reservableStorage) blockByNumber(number uint64) *types.Block {
	if hash, ok := s.numberToHash[number]; ok {
		return s.hashToBlock[hash]
	}
	if r := s.findReservation(number); r != nil {
		return r.materialize(number)
	}
	return nil
}

// blockByHash returns the committed block with the given hash, or nil.
func (s *reservableStorage) blockByHash(hash types.Hash) *types.Block {
	return s.hashToBlock[hash]
}

// blockByTransactionHash returns the committed block containing the given
// transaction, or nil.
func (s *reservableStorage) blockByTransactionHash(txHash types.Hash) *types.Block {
	return s.txToBlock[txHash]
}

// receiptByTransactionHash returns the receipt of the given transaction, or nil.
func (s *reservableStorage) receiptByTransactionHash(txHash types.Hash) *types.Receipt {
	return s.txToReceipt[txHash]
}

// totalDifficultyByHash returns the recorded cumulative difficulty of a
// committed block, or nil if the hash is unknown.
func (s *reservableStorage) totalDifficultyByHash(hash types.Hash) *uint256.Int {
	if td, ok := s.totalDifficulty[hash]; ok {
		return td.Clone()
	}
	return nil
}

// totalDifficultyByNumber returns the recorded or derived cumulative
// difficulty for any number inside the known span, or nil outside it. For a
// reserved number k blocks into its range, the value is
// parentTD + k*difficulty.
func (s *reservableStorage) totalDifficultyByNumber(number uint64) *uint256.Int {
	if hash, ok := s.numberToHash[number]; ok {
		return s.totalDifficultyByHash(hash)
	}
	r := s.findReservation(number)
	if r == nil {
		return nil
	}
	k := uint256.NewInt(number - r.first + 1)
	perBlock := mustUint256(r.difficulty)

	sum, overflow := new(uint256.Int).MulOverflow(k, perBlock)
	if overflow {
		panic("core: total difficulty overflow")
	}
	td, overflow := sum.AddOverflow(sum, r.parentTD)
	if overflow {
		panic("core: total difficulty overflow")
	}
	return td
}

// lastBlockNumber returns the highest known block number, committed or reserved.
func (s *reservableStorage) lastBlockNumber() uint64 {
	return s.lastNumber
}

// revertToBlock discards every committed block and virtual slot above the
// target number. A reservation containing the target is truncated in place.
// It reports false if the target is outside the known span, in which case
// nothing changes.
func (s *reservableStorage) revertToBlock(number uint64) bool {
	if number > s.lastNumber {
		return false
	}

	for n := s.lastNumber; n > number; n-- {
		hash, ok := s.numberToHash[n]
		if !ok {
			continue // reserved slot, handled below
		}
		block := s.hashToBlock[hash]
		for _, tx := range block.Transactions() {
			txHash := tx.Hash()
			delete(s.txToBlock, txHash)
			delete(s.txToReceipt, txHash)
		}
		delete(s.totalDifficulty, hash)
		delete(s.hashToBlock, hash)
		delete(s.numberToHash, n)
	}

	kept := s.reservations[:0]
	for _, r := range s.reservations {
		switch {
		case r.last <= number:
			kept = append(kept, r)
		case r.first <= number:
			r.last = number
			kept = append(kept, r)
		}
	}
	s.reservations = kept

	s.lastNumber = number
	return true
}

// findReservation returns the reservation covering the given number, or nil.
func (s *reservableStorage) findReservation(number uint64) *reservation {
	for _, r := range s.reservations {
		if number >= r.first && number <= r.last {
			return r
		}
	}
	return nil
}

// materialize synthesizes the block for a number inside the reservation.
// The first block of a range links to the real parent recorded at
// reservation time; interior blocks carry a zero parent hash, since their
// parents are themselves virtual.
func (r *reservation) materialize(number uint64) *types.Block {
	k := number - r.first + 1

	header := &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        r.stateRoot,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  new(big.Int).Set(r.difficulty),
		Number:      new(big.Int).SetUint64(number),
		GasLimit:    r.gasLimit,
		Time:        r.parentTime + k*r.interval,
	}
	if number == r.first {
		header.ParentHash = r.parentHash
	}
	if r.baseFee != nil {
		header.BaseFee = new(big.Int).Set(r.baseFee)
	}

	body := &types.Body{}
	if r.spec.AtLeast(Shanghai) {
		withdrawalsHash := types.EmptyRootHash
		header.WithdrawalsHash = &withdrawalsHash
		body.Withdrawals = []*types.Withdrawal{}
	}

	return types.NewBlock(header, body)
}

// mustUint256 converts a non-negative big.Int into a uint256.Int, panicking
// on overflow. Difficulty values inside the chain always fit.
func mustUint256(v *big.Int) *uint256.Int {
	u, overflow := uint256.FromBig(v)
	if overflow {
		panic("core: 256-bit overflow")
	}
	return u
}
