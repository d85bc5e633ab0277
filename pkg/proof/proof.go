// Package proof builds and verifies ProofBlobs: a 16-byte position
// prefix followed by a Merkle sibling path, self-describing enough that
// a destination-chain verifier can check inclusion of a transaction or
// log leaf against a previously relayed root.
package proof

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/clearmatics/lithium/pkg/block"
	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/codec"
	"github.com/clearmatics/lithium/pkg/leaf"
	"github.com/clearmatics/lithium/pkg/merkle"
)

// ErrOutOfRange is returned by ForEvent when logIdx is not less than the
// transaction's log count.
var ErrOutOfRange = errors.New("log index out of range")

// MinBlobLen is the minimum valid ProofBlob length: a 16-byte prefix
// plus exactly one 32-byte sibling.
const MinBlobLen = 16 + 32

// Blob is a self-describing inclusion proof:
// block_height_be64(8) || tx_index_be32(4) || log_index_be32(4) || sibling_be256 x N.
type Blob []byte

// BlockHeight decodes the blob's height prefix field.
func (b Blob) BlockHeight() uint64 {
	return beUint64(b[0:8])
}

// TxIndex decodes the blob's transaction-index prefix field.
func (b Blob) TxIndex() uint32 {
	return beUint32(b[8:12])
}

// LogIndex decodes the blob's log-index prefix field.
func (b Blob) LogIndex() uint32 {
	return beUint32(b[12:16])
}

// Path decodes the blob's sibling path.
func (b Blob) Path() []*uint256.Int {
	raw := b[16:]
	path := make([]*uint256.Int, len(raw)/32)
	for i := range path {
		path[i] = new(uint256.Int).SetBytes32(raw[i*32 : i*32+32])
	}
	return path
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func beUint32(b []byte) uint32 {
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v
}

func buildBlob(height uint64, txIndex, logIndex uint32, path []*uint256.Int) Blob {
	out := make([]byte, 16+32*len(path))
	h := codec.U64BE(height)
	copy(out[0:8], h[:])
	t := codec.U32BE(txIndex)
	copy(out[8:12], t[:])
	l := codec.U32BE(logIndex)
	copy(out[12:16], l[:])
	for i, sibling := range path {
		s := codec.U256BE(sibling)
		copy(out[16+32*i:16+32*(i+1)], s[:])
	}
	return out
}

// ForTx builds a proof that txHash is included in its enclosing block,
// re-processing that block to obtain a matching tree and root.
func ForTx(ctx context.Context, rpc chain.SourceRPC, txHash common.Hash) (Blob, error) {
	return build(ctx, rpc, txHash, -1)
}

// ForEvent builds a proof for the logIdx-th log (0-based, in receipt
// order) emitted by txHash. Returns ErrOutOfRange if logIdx is beyond
// the transaction's log count.
func ForEvent(ctx context.Context, rpc chain.SourceRPC, txHash common.Hash, logIdx int) (Blob, error) {
	if logIdx < 0 {
		return nil, errors.Errorf("negative log index %d", logIdx)
	}
	return build(ctx, rpc, txHash, logIdx)
}

func build(ctx context.Context, rpc chain.SourceRPC, txHash common.Hash, logIdx int) (Blob, error) {
	tx, _, txIndex, err := rpc.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch transaction %s", txHash)
	}
	if leaf.IsContractCreation(tx.To()) {
		return nil, errors.Errorf("transaction %s is a contract creation, has no leaf", txHash)
	}

	receipt, err := rpc.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch receipt %s", txHash)
	}

	logIndex := uint32(0)
	if logIdx >= 0 {
		if logIdx >= len(receipt.Logs) {
			return nil, errors.Wrapf(ErrOutOfRange, "log %d of %d for tx %s", logIdx, len(receipt.Logs), txHash)
		}
		logIndex = uint32(logIdx)
	}

	height := receipt.BlockNumber.Uint64()
	b, _, _, err := block.Process(ctx, rpc, height)
	if err != nil {
		return nil, errors.Wrapf(err, "reprocess block %d", height)
	}

	var targetLeaf []byte
	for i, item := range b.Items {
		// A tx leaf (log index 0) comes first, followed by its log leaves in
		// log-index order; the first log leaf also carries log index 0.
		if beUint32(item[32:36]) != txIndex || beUint32(item[36:40]) != 0 {
			continue
		}
		j := i
		if logIdx >= 0 {
			j = i + 1 + logIdx
		}
		if j < len(b.Items) && beUint32(b.Items[j][32:36]) == txIndex && beUint32(b.Items[j][36:40]) == logIndex {
			targetLeaf = b.Items[j]
		}
		break
	}
	if targetLeaf == nil {
		return nil, errors.Errorf("leaf for tx %s log %d not found in reprocessed block %d", txHash, logIndex, height)
	}

	tree, err := merkle.BuildTree(b.Items)
	if err != nil {
		return nil, errors.Wrap(err, "rebuild tree")
	}

	path, err := merkle.Path(targetLeaf, tree)
	if err != nil {
		return nil, errors.Wrap(err, "construct sibling path")
	}

	if !merkle.Verify(targetLeaf, path, tree.Root) {
		return nil, errors.New("internally inconsistent proof: verification failed immediately after construction")
	}

	return buildBlob(height, txIndex, logIndex, path), nil
}

// Verify checks blob's length and decodes its path, then delegates to
// merkle.Verify against root. The prefix is informational: callers bind
// it to a claimed (block, tx, log) tuple themselves.
func Verify(root *uint256.Int, leafBytes []byte, blob Blob) bool {
	if len(blob) < MinBlobLen {
		return false
	}
	if (len(blob)-16)%32 != 0 {
		return false
	}
	return merkle.Verify(leafBytes, blob.Path(), root)
}
