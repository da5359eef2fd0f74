// Package core implements the in-memory ledger of a locally operated,
// single-node chain simulator: genesis construction, validated appends,
// sparse reservation of future block numbers and chain truncation.
package core

import (
	"fmt"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/simeth/simeth/core/types"
)

// genesisExtra is the extra-data marker stamped on generated genesis blocks.
var genesisExtra = []byte("sim")

// genesisNonce is the pre-merge genesis block nonce.
const genesisNonce = uint64(66)

// ChainReader is the query-only capability of a chain.
type ChainReader interface {
	BlockByHash(hash types.Hash) *types.Block
	BlockByNumber(number uint64) *types.Block
	BlockByTransactionHash(txHash types.Hash) *types.Block
	ReceiptByTransactionHash(txHash types.Hash) *types.Receipt
	ChainID() *big.Int
	LastBlock() *types.Block
	LastBlockNumber() uint64
	TotalDifficultyByHash(hash types.Hash) *uint256.Int
	BlockSupportsSpec(number uint64, spec Spec) bool
}

// ChainWriter is the mutating capability of a chain. Mutations require
// exclusive access; arranging it is the caller's responsibility.
type ChainWriter interface {
	InsertBlock(block *types.Block) (*types.Block, error)
	ReserveBlocks(count, interval uint64) error
	RevertToBlock(number uint64) error
}

// BlockHashResolver resolves block numbers to hashes for BLOCKHASH-style
// lookups by an execution engine.
type BlockHashResolver interface {
	BlockHash(number uint64) (types.Hash, error)
}

// ChainParams bundles the parameters for constructing a chain with a
// generated genesis block.
type ChainParams struct {
	ChainID  *big.Int
	Spec     Spec
	GasLimit uint64

	// Timestamp is the genesis timestamp in seconds since epoch; nil selects
	// the current wall clock.
	Timestamp *uint64

	// Prevrandao is required for post-merge chains and ignored otherwise.
	Prevrandao *types.Hash

	// BaseFee is required for post-London chains and ignored otherwise.
	BaseFee *big.Int

	// Validator overrides the default next-block validation rules. Nil
	// selects ValidateNextBlock.
	Validator Validator
}

// Chain binds a chain id and protocol version to a reservable sparse block
// store. It grows append-only, optionally with a sparse reserved tail;
// RevertToBlock is the only operation that moves the tail backwards.
//
// Read methods require only shared access and may run concurrently with each
// other. Mutations (InsertBlock, ReserveBlocks, RevertToBlock) require
// exclusive access, which the chain does not arrange itself: callers that
// interleave readers and writers must serialize externally.
type Chain struct {
	storage   *reservableStorage
	chainID   *big.Int
	spec      Spec
	validator Validator
}

var (
	_ ChainReader       = (*Chain)(nil)
	_ ChainWriter       = (*Chain)(nil)
	_ BlockHashResolver = (*Chain)(nil)
)

// NewChain constructs a chain with a protocol-consistent genesis block built
// from the given parameters and state. The state receives an initial
// checkpoint and supplies the genesis state root; its failures are wrapped
// and returned.
func NewChain(params ChainParams, st State) (*Chain, error) {
	if params.Spec.AtLeast(Merge) && params.Prevrandao == nil {
		return nil, ErrMissingPrevrandao
	}
	if params.Spec.AtLeast(London) && params.BaseFee == nil {
		return nil, ErrMissingBaseFee
	}

	// Ensure an initial checkpoint exists.
	if err := st.Checkpoint(); err != nil {
		return nil, fmt.Errorf("genesis state checkpoint: %w", err)
	}
	root, err := st.StateRoot()
	if err != nil {
		return nil, fmt.Errorf("genesis state root: %w", err)
	}

	header := &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        root,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(1),
		Number:      new(big.Int),
		GasLimit:    params.GasLimit,
		Extra:       genesisExtra,
		Nonce:       types.EncodeNonce(genesisNonce),
	}

	if params.Timestamp != nil {
		header.Time = *params.Timestamp
	} else {
		header.Time = uint64(time.Now().Unix())
	}

	if params.Spec.AtLeast(Merge) {
		header.Difficulty = new(big.Int)
		header.MixDigest = *params.Prevrandao
		header.Nonce = types.BlockNonce{}
	}
	if params.Spec.AtLeast(London) {
		header.BaseFee = new(big.Int).Set(params.BaseFee)
	}

	body := &types.Body{}
	if params.Spec.AtLeast(Shanghai) {
		withdrawalsHash := types.EmptyRootHash
		header.WithdrawalsHash = &withdrawalsHash
		body.Withdrawals = []*types.Withdrawal{}
	}

	genesis := types.NewBlock(header, body)
	return newChainUnchecked(params.ChainID, params.Spec, genesis, params.Validator), nil
}

// WithGenesisBlock constructs a chain seeded with an already-built genesis
// block, validating that its number is zero and that withdrawals presence
// matches the protocol version.
func WithGenesisBlock(chainID *big.Int, spec Spec, genesis *types.Block) (*Chain, error) {
	if actual := genesis.NumberU64(); actual != 0 {
		return nil, &InvalidBlockNumberError{Actual: actual, Expected: 0}
	}
	if spec.AtLeast(Shanghai) && genesis.Header().WithdrawalsHash == nil {
		return nil, ErrMissingWithdrawals
	}
	return newChainUnchecked(chainID, spec, genesis, nil), nil
}

// newChainUnchecked seeds a chain without validating the genesis block. It
// is the trusted fast path: callers must have established that the block
// number is zero and the header shape matches the spec.
func newChainUnchecked(chainID *big.Int, spec Spec, genesis *types.Block, validator Validator) *Chain {
	if validator == nil {
		validator = ValidatorFunc(ValidateNextBlock)
	}
	td := mustUint256(genesis.Difficulty())
	return &Chain{
		storage:   newReservableStorage(genesis, td),
		chainID:   chainID,
		spec:      spec,
		validator: validator,
	}
}

// BlockByHash returns the committed block with the given hash, or nil.
func (c *Chain) BlockByHash(hash types.Hash) *types.Block {
	return c.storage.blockByHash(hash)
}

// BlockByNumber returns the block with the given number, synthesizing blocks
// inside the reserved tail, or nil if the number is outside the known span.
func (c *Chain) BlockByNumber(number uint64) *types.Block {
	return c.storage.blockByNumber(number)
}

// BlockByTransactionHash returns the block containing the given transaction,
// or nil.
func (c *Chain) BlockByTransactionHash(txHash types.Hash) *types.Block {
	return c.storage.blockByTransactionHash(txHash)
}

// ReceiptByTransactionHash returns the receipt of the given transaction, or nil.
func (c *Chain) ReceiptByTransactionHash(txHash types.Hash) *types.Receipt {
	return c.storage.receiptByTransactionHash(txHash)
}

// ChainID returns the chain id.
func (c *Chain) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Spec returns the protocol version of the chain.
func (c *Chain) Spec() Spec {
	return c.spec
}

// LastBlock returns the block at the current tail of the chain.
func (c *Chain) LastBlock() *types.Block {
	block := c.storage.blockByNumber(c.storage.lastBlockNumber())
	if block == nil {
		panic("core: head block missing")
	}
	return block
}

// LastBlockNumber returns the current highest known block number, committed
// or reserved.
func (c *Chain) LastBlockNumber() uint64 {
	return c.storage.lastBlockNumber()
}

// TotalDifficultyByHash returns the cumulative difficulty of the committed
// block with the given hash, or nil if the hash is unknown.
func (c *Chain) TotalDifficultyByHash(hash types.Hash) *uint256.Int {
	return c.storage.totalDifficultyByHash(hash)
}

// BlockSupportsSpec reports whether the block with the given number supports
// the given spec. The chain has a single protocol version for its whole
// lifetime, so the answer does not depend on the number.
func (c *Chain) BlockSupportsSpec(_ uint64, spec Spec) bool {
	return spec <= c.spec
}

// BlockHash resolves a block number to its hash, or returns
// ErrUnknownBlockNumber outside the known span.
func (c *Chain) BlockHash(number uint64) (types.Hash, error) {
	block := c.storage.blockByNumber(number)
	if block == nil {
		return types.Hash{}, ErrUnknownBlockNumber
	}
	return block.Hash(), nil
}

// GetHashFn returns a number -> hash resolver for BLOCKHASH-style opcode
// lookups. Unknown numbers resolve to the zero hash.
func (c *Chain) GetHashFn() func(uint64) types.Hash {
	return func(number uint64) types.Hash {
		hash, err := c.BlockHash(number)
		if err != nil {
			return types.Hash{}
		}
		return hash
	}
}

// InsertBlock runs the validation contract against the current head,
// accounts the candidate's difficulty into the cumulative total, and appends
// the block. It returns the stored shared handle.
func (c *Chain) InsertBlock(block *types.Block) (*types.Block, error) {
	parent := c.LastBlock()

	if err := c.validator.ValidateNextBlock(c.spec, parent, block); err != nil {
		return nil, err
	}

	parentTD := c.storage.totalDifficultyByNumber(parent.NumberU64())
	if parentTD == nil {
		panic("core: total difficulty missing for head block")
	}
	td, overflow := new(uint256.Int).AddOverflow(parentTD, mustUint256(block.Difficulty()))
	if overflow {
		panic("core: total difficulty overflow")
	}

	stored := c.storage.insertBlock(block, td)

	log.Debug().
		Uint64("number", stored.NumberU64()).
		Stringer("hash", stored.Hash()).
		Int("txs", len(stored.Transactions())).
		Msg("inserted block")

	return stored, nil
}

// ReserveBlocks reserves count virtual block numbers following the current
// tail, each interval seconds apart, carrying the head's base fee and state
// root forward. A zero count is a no-op.
func (c *Chain) ReserveBlocks(count, interval uint64) error {
	if count == 0 {
		return nil
	}

	parent := c.LastBlock()
	parentTD := c.storage.totalDifficultyByNumber(parent.NumberU64())
	if parentTD == nil {
		panic("core: total difficulty missing for head block")
	}

	c.storage.reserveBlocks(count, interval, parent, parentTD, c.spec)

	log.Debug().
		Uint64("count", count).
		Uint64("interval", interval).
		Uint64("tail", c.storage.lastBlockNumber()).
		Msg("reserved blocks")

	return nil
}

// RevertToBlock truncates the chain to the given block number, discarding
// all later committed blocks and reserved slots. It returns
// ErrUnknownBlockNumber if the number is outside the known span, leaving the
// chain unchanged.
func (c *Chain) RevertToBlock(number uint64) error {
	if !c.storage.revertToBlock(number) {
		return ErrUnknownBlockNumber
	}

	log.Debug().
		Uint64("tail", number).
		Msg("reverted chain")

	return nil
}
