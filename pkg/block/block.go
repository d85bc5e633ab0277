// Package block implements the block processor: given a height and the
// source-chain RPC facade, it produces a Block record carrying every
// non-creation transaction's leaf and its logs' leaves, folded into a
// Merkle root.
package block

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/leaf"
	"github.com/clearmatics/lithium/pkg/merkle"
)

// Block is an immutable record of one source-chain height: its header
// hash, the Merkle root of its eligible leaves, and the leaves
// themselves in the order they were produced (transaction-index
// ascending, tx leaf before its log leaves in log-index ascending
// order). An empty block (no eligible transactions) has Root equal to
// the zero value and an empty Items slice.
type Block struct {
	Height uint64
	Hash   common.Hash
	Root   *uint256.Int
	Items  [][]byte
}

// Signer recovers a transaction's sender address. It is fixed to chain
// ID 1; unprotected (pre-EIP-155) legacy transactions are recovered
// with Homestead rules.
var Signer = types.NewLondonSigner(big.NewInt(1))

// Process fetches and folds block height into a Block. Contract-creation
// transactions (nil or zero `to`) are skipped entirely; remaining
// transactions each contribute one tx leaf followed by one leaf per log
// in their receipt. Returns the Block plus the transaction and log
// counts used for S1-style assertions.
func Process(ctx context.Context, rpc chain.SourceRPC, height uint64) (*Block, int, int, error) {
	blockHash, txHashes, err := rpc.BlockTxHashes(ctx, height)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "process block %d", height)
	}

	if len(txHashes) == 0 {
		tree, err := merkle.BuildTree(nil)
		if err != nil {
			return nil, 0, 0, errors.Wrap(err, "build empty tree")
		}
		return &Block{Height: height, Hash: blockHash, Root: tree.Root, Items: nil}, 0, 0, nil
	}

	var items [][]byte
	txCount, logCount := 0, 0

	for _, txHash := range txHashes {
		tx, _, txIndex, err := rpc.TransactionByHash(ctx, txHash)
		if err != nil {
			return nil, 0, 0, errors.Wrapf(err, "fetch transaction %s", txHash)
		}

		if leaf.IsContractCreation(tx.To()) {
			continue
		}

		from, err := types.Sender(Signer, tx)
		if err != nil {
			return nil, 0, 0, errors.Wrapf(err, "recover sender for %s", txHash)
		}

		value, overflow := uint256.FromBig(tx.Value())
		if overflow {
			return nil, 0, 0, errors.Errorf("transaction %s value overflows 256 bits", txHash)
		}

		txInner := leaf.PackTx(leaf.Transaction{
			From:  from,
			To:    tx.To(),
			Value: value,
			Input: tx.Data(),
		})
		items = append(items, outerBytes(blockHash, txIndex, 0, txInner[:]))
		txCount++

		receipt, err := rpc.TransactionReceipt(ctx, txHash)
		if err != nil {
			return nil, 0, 0, errors.Wrapf(err, "fetch receipt %s", txHash)
		}
		for logIdx, evmLog := range receipt.Logs {
			logInner := leaf.PackLog(leaf.Log{
				Address: evmLog.Address,
				Topics:  evmLog.Topics,
				Data:    evmLog.Data,
			})
			items = append(items, outerBytes(blockHash, txIndex, uint32(logIdx), logInner[:]))
			logCount++
		}
	}

	tree, err := merkle.BuildTree(items)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "build tree for block %d", height)
	}

	return &Block{Height: height, Hash: blockHash, Root: tree.Root, Items: items}, txCount, logCount, nil
}

func outerBytes(blockHash common.Hash, txIndex, logIndex uint32, inner []byte) []byte {
	out := leaf.Outer(blockHash, txIndex, logIndex, inner)
	return out[:]
}
