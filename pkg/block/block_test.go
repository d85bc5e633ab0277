package block

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// fakeRPC implements chain.SourceRPC over an in-memory fixture, avoiding
// any live network dependency in block processor tests.
type fakeRPC struct {
	blockHash common.Hash
	txHashes  []common.Hash
	txs       map[common.Hash]*types.Transaction
	txIndex   map[common.Hash]uint32
	receipts  map[common.Hash]*types.Receipt
}

func (f *fakeRPC) BlockNumber(ctx context.Context) (uint64, error) { return 0, nil }

func (f *fakeRPC) BlockTxHashes(ctx context.Context, height uint64) (common.Hash, []common.Hash, error) {
	return f.blockHash, f.txHashes, nil
}

func (f *fakeRPC) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, common.Hash, uint32, error) {
	return f.txs[txHash], f.blockHash, f.txIndex[txHash], nil
}

func (f *fakeRPC) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return f.receipts[txHash], nil
}

func signedTx(t *testing.T, key *ecdsa.PrivateKey, to *common.Address, value int64, input []byte) *types.Transaction {
	t.Helper()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		To:       to,
		Value:    big.NewInt(value),
		Gas:      21000,
		GasPrice: big.NewInt(1),
		Data:     input,
	})
	signed, err := types.SignTx(tx, Signer, key)
	require.NoError(t, err)
	return signed
}

func TestProcessEmptyBlock(t *testing.T) {
	rpc := &fakeRPC{blockHash: common.HexToHash("0xabc"), txHashes: nil}
	b, txCount, logCount, err := Process(context.Background(), rpc, 10)
	require.NoError(t, err)
	require.Equal(t, 0, txCount)
	require.Equal(t, 0, logCount)
	require.Empty(t, b.Items)
	require.True(t, b.Root.IsZero())
}

func TestProcessSkipsContractCreation(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	tx := signedTx(t, key, nil, 0, []byte{0x60, 0x60})
	rpc := &fakeRPC{
		blockHash: common.HexToHash("0xabc"),
		txHashes:  []common.Hash{tx.Hash()},
		txs:       map[common.Hash]*types.Transaction{tx.Hash(): tx},
		txIndex:   map[common.Hash]uint32{tx.Hash(): 0},
		receipts:  map[common.Hash]*types.Receipt{tx.Hash(): {Logs: nil}},
	}

	b, txCount, logCount, err := Process(context.Background(), rpc, 10)
	require.NoError(t, err)
	require.Equal(t, 0, txCount)
	require.Equal(t, 0, logCount)
	require.Empty(t, b.Items)
}

func TestProcessTxWithLogs(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0xd83321000000000000000000000000000041bb")

	tx := signedTx(t, key, &to, 0, []byte{0x01, 0x02})
	receipt := &types.Receipt{
		Logs: []*types.Log{
			{Address: to, Topics: []common.Hash{common.HexToHash("0xfeed")}, Data: []byte{0x01}},
			{Address: to, Topics: []common.Hash{common.HexToHash("0xbeef")}, Data: []byte{0x02}},
		},
	}
	rpc := &fakeRPC{
		blockHash: common.HexToHash("0x0ecee20000000000000000000000000000000000000000000000000003615"),
		txHashes:  []common.Hash{tx.Hash()},
		txs:       map[common.Hash]*types.Transaction{tx.Hash(): tx},
		txIndex:   map[common.Hash]uint32{tx.Hash(): 0},
		receipts:  map[common.Hash]*types.Receipt{tx.Hash(): receipt},
	}

	b, txCount, logCount, err := Process(context.Background(), rpc, 10)
	require.NoError(t, err)
	require.Equal(t, 1, txCount)
	require.Equal(t, 2, logCount)
	require.Len(t, b.Items, 3)
	require.False(t, b.Root.IsZero())

	// tx leaf carries log-index 0 in its prefix.
	require.Equal(t, []byte{0, 0, 0, 0}, b.Items[0][36:40])
	// first log leaf carries log-index 0, second carries log-index 1.
	require.Equal(t, []byte{0, 0, 0, 0}, b.Items[1][36:40])
	require.Equal(t, []byte{0, 0, 0, 1}, b.Items[2][36:40])
}

func TestProcessS1SingleTxNoLogs(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0xd83321000000000000000000000000000041bb")

	tx := signedTx(t, key, &to, 0, []byte{0xde, 0xad, 0xbe, 0xef})
	rpc := &fakeRPC{
		blockHash: common.HexToHash("0x0ecee20000000000000000000000000000000000000000000000000003615"),
		txHashes:  []common.Hash{tx.Hash()},
		txs:       map[common.Hash]*types.Transaction{tx.Hash(): tx},
		txIndex:   map[common.Hash]uint32{tx.Hash(): 0},
		receipts:  map[common.Hash]*types.Receipt{tx.Hash(): {Logs: nil}},
	}

	b, txCount, logCount, err := Process(context.Background(), rpc, 10)
	require.NoError(t, err)
	require.Equal(t, 1, txCount)
	require.Equal(t, 0, logCount)
	require.Len(t, b.Items, 1)
	require.Len(t, b.Items[0], 72)
}
