package types

import (
	"math/big"
	"sync/atomic"
	"unsafe"
)

// Transaction type constants.
const (
	LegacyTxType     = 0x00
	DynamicFeeTxType = 0x02
)

// Transaction represents a transaction included in a block.
type Transaction struct {
	inner TxData
	hash  atomic.Pointer[Hash]
	size  atomic.Uint64
	from  atomic.Pointer[Address] // cached sender address
}

// NewTransaction wraps the given transaction data.
func NewTransaction(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

// SetSender caches the sender address on the transaction.
func (tx *Transaction) SetSender(addr Address) {
	a := addr
	tx.from.Store(&a)
}

// Sender returns the cached sender address, or nil if not yet set.
func (tx *Transaction) Sender() *Address {
	return tx.from.Load()
}

// TxData is the underlying data of a transaction.
type TxData interface {
	txType() byte
	chainID() *big.Int
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *Address

	copy() TxData
}

// LegacyTx represents a legacy (type 0x00) transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int
}

func (tx *LegacyTx) txType() byte         { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int    { return nil }
func (tx *LegacyTx) data() []byte         { return tx.Data }
func (tx *LegacyTx) gas() uint64          { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int   { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int  { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int  { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int      { return tx.Value }
func (tx *LegacyTx) nonce() uint64        { return tx.Nonce }
func (tx *LegacyTx) to() *Address         { return tx.To }

func (tx *LegacyTx) copy() TxData {
	return &LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: copyBigInt(tx.GasPrice),
		Gas:      tx.Gas,
		To:       copyAddressPtr(tx.To),
		Value:    copyBigInt(tx.Value),
		Data:     copyBytes(tx.Data),
		V:        copyBigInt(tx.V),
		R:        copyBigInt(tx.R),
		S:        copyBigInt(tx.S),
	}
}

// DynamicFeeTx represents an EIP-1559 (type 0x02) transaction.
type DynamicFeeTx struct {
	ChainID   *big.Int
	Nonce     uint64
	GasTipCap *big.Int
	GasFeeCap *big.Int
	Gas       uint64
	To        *Address
	Value     *big.Int
	Data      []byte
	V, R, S   *big.Int
}

func (tx *DynamicFeeTx) txType() byte        { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int   { return tx.ChainID }
func (tx *DynamicFeeTx) data() []byte        { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64         { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *big.Int  { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int     { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64       { return tx.Nonce }
func (tx *DynamicFeeTx) to() *Address        { return tx.To }

func (tx *DynamicFeeTx) copy() TxData {
	return &DynamicFeeTx{
		ChainID:   copyBigInt(tx.ChainID),
		Nonce:     tx.Nonce,
		GasTipCap: copyBigInt(tx.GasTipCap),
		GasFeeCap: copyBigInt(tx.GasFeeCap),
		Gas:       tx.Gas,
		To:        copyAddressPtr(tx.To),
		Value:     copyBigInt(tx.Value),
		Data:      copyBytes(tx.Data),
		V:         copyBigInt(tx.V),
		R:         copyBigInt(tx.R),
		S:         copyBigInt(tx.S),
	}
}

// Type returns the transaction type.
func (tx *Transaction) Type() byte { return tx.inner.txType() }

// ChainID returns the chain id of the transaction, or nil for legacy
// transactions without replay protection.
func (tx *Transaction) ChainID() *big.Int { return tx.inner.chainID() }

// Nonce returns the sender nonce of the transaction.
func (tx *Transaction) Nonce() uint64 { return tx.inner.nonce() }

// Gas returns the gas limit of the transaction.
func (tx *Transaction) Gas() uint64 { return tx.inner.gas() }

// GasPrice returns the gas price of the transaction.
func (tx *Transaction) GasPrice() *big.Int { return copyBigInt(tx.inner.gasPrice()) }

// GasTipCap returns the tip cap per gas of the transaction.
func (tx *Transaction) GasTipCap() *big.Int { return copyBigInt(tx.inner.gasTipCap()) }

// GasFeeCap returns the fee cap per gas of the transaction.
func (tx *Transaction) GasFeeCap() *big.Int { return copyBigInt(tx.inner.gasFeeCap()) }

// Value returns the ether amount of the transaction.
func (tx *Transaction) Value() *big.Int { return copyBigInt(tx.inner.value()) }

// Data returns the input data of the transaction.
func (tx *Transaction) Data() []byte { return tx.inner.data() }

// To returns the recipient address, or nil for contract creation.
func (tx *Transaction) To() *Address { return copyAddressPtr(tx.inner.to()) }

// Hash returns the transaction hash.
func (tx *Transaction) Hash() Hash {
	if h := tx.hash.Load(); h != nil {
		return *h
	}
	h := tx.hashRLP()
	tx.hash.Store(&h)
	return h
}

// Size returns the approximate memory footprint of the transaction.
func (tx *Transaction) Size() uint64 {
	if cached := tx.size.Load(); cached != 0 {
		return cached
	}
	s := uint64(unsafe.Sizeof(*tx)) + uint64(len(tx.inner.data()))
	tx.size.Store(s)
	return s
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copyAddressPtr(a *Address) *Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}
