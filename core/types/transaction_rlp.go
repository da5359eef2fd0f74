package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// hashRLP computes the canonical transaction hash: keccak256 of the RLP
// encoding for legacy transactions, keccak256 of type byte || RLP payload for
// typed transactions.
func (tx *Transaction) hashRLP() Hash {
	var (
		enc []byte
		err error
	)
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		enc, err = rlp.EncodeToBytes([]interface{}{
			inner.Nonce,
			bigIntOrZero(inner.GasPrice),
			inner.Gas,
			inner.To,
			bigIntOrZero(inner.Value),
			inner.Data,
			bigIntOrZero(inner.V),
			bigIntOrZero(inner.R),
			bigIntOrZero(inner.S),
		})
	case *DynamicFeeTx:
		enc, err = rlp.EncodeToBytes([]interface{}{
			bigIntOrZero(inner.ChainID),
			inner.Nonce,
			bigIntOrZero(inner.GasTipCap),
			bigIntOrZero(inner.GasFeeCap),
			inner.Gas,
			inner.To,
			bigIntOrZero(inner.Value),
			inner.Data,
			[]interface{}{}, // access list, unused
			bigIntOrZero(inner.V),
			bigIntOrZero(inner.R),
			bigIntOrZero(inner.S),
		})
		if err == nil {
			enc = append([]byte{DynamicFeeTxType}, enc...)
		}
	default:
		panic("types: unknown transaction type")
	}
	if err != nil {
		panic("types: transaction RLP encoding failed: " + err.Error())
	}

	d := sha3.NewLegacyKeccak256()
	d.Write(enc)
	return BytesToHash(d.Sum(nil))
}
