// Package leaf implements Lithium's deterministic byte layouts for
// transactions and logs, and the position-binding outer prefix that pins
// a leaf to a specific (block hash, transaction index, log index)
// coordinate.
package leaf

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/clearmatics/lithium/pkg/codec"
)

// TxInnerLen is the fixed length of a transaction inner leaf:
// from(20) || to(20) || value_be(32) || keccak256(input)(32).
const TxInnerLen = 20 + 20 + 32 + 32

// LogInnerLen is the fixed length of a log inner leaf:
// address(20) || topic0(32) || keccak256(data)(32).
const LogInnerLen = 20 + 32 + 32

// OuterLen is the fixed length of a position-bound outer leaf:
// block_hash(32) || tx_index_be32(4) || log_index_be32(4) || keccak256(inner)(32).
const OuterLen = 32 + 4 + 4 + 32

// Transaction carries the fields of a source-chain transaction needed to
// pack a TxInner leaf. To is nil for contract-creation transactions,
// which are excluded by block.Process and PackTx's caller.
type Transaction struct {
	From  common.Address
	To    *common.Address
	Value *uint256.Int
	Input []byte
}

// Log carries the fields of a source-chain log needed to pack a
// LogInner leaf. The event signature (topic0) and originating contract
// are carried verbatim and the data bytes are summarized by their hash;
// indexed topics beyond topic0 are not part of the leaf.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// PackTx packs a transaction into its 104-byte inner leaf form.
func PackTx(tx Transaction) [TxInnerLen]byte {
	var out [TxInnerLen]byte
	copy(out[0:20], tx.From.Bytes())
	if tx.To != nil {
		copy(out[20:40], tx.To.Bytes())
	}
	value := codec.U256BE(tx.Value)
	copy(out[40:72], value[:])
	inputHash := codec.Keccak256(tx.Input)
	copy(out[72:104], inputHash[:])
	return out
}

// PackLog packs a log into its 84-byte inner leaf form. Topics[0] is the
// event signature hash; additional indexed topics are not included.
func PackLog(log Log) [LogInnerLen]byte {
	var out [LogInnerLen]byte
	copy(out[0:20], log.Address.Bytes())
	if len(log.Topics) > 0 {
		copy(out[20:52], log.Topics[0].Bytes())
	}
	dataHash := codec.Keccak256(log.Data)
	copy(out[52:84], dataHash[:])
	return out
}

// Outer packs an inner leaf (tx or log) into the 72-byte position-bound
// outer leaf. logIndex is 0 for a transaction leaf.
func Outer(blockHash common.Hash, txIndex, logIndex uint32, inner []byte) [OuterLen]byte {
	var out [OuterLen]byte
	copy(out[0:32], blockHash.Bytes())
	txIdxBytes := codec.U32BE(txIndex)
	copy(out[32:36], txIdxBytes[:])
	logIdxBytes := codec.U32BE(logIndex)
	copy(out[36:40], logIdxBytes[:])
	innerHash := codec.Keccak256(inner)
	copy(out[40:72], innerHash[:])
	return out
}

// IsContractCreation reports whether a transaction yields no leaf: one
// whose `to` field is nil or the zero address.
func IsContractCreation(to *common.Address) bool {
	return to == nil || *to == (common.Address{})
}
