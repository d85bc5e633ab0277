package relay

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/destination"
)

// fakeRPC serves an unbounded source chain of empty blocks up to tip.
type fakeRPC struct {
	mu  sync.Mutex
	tip uint64
}

func (f *fakeRPC) setTip(h uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tip = h
}

func (f *fakeRPC) BlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tip, nil
}

func (f *fakeRPC) BlockTxHashes(ctx context.Context, height uint64) (common.Hash, []common.Hash, error) {
	return common.BigToHash(new(big.Int).SetUint64(height + 1)), nil, nil
}

func (f *fakeRPC) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, common.Hash, uint32, error) {
	return nil, common.Hash{}, 0, nil
}

func (f *fakeRPC) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return nil, nil
}

var _ chain.SourceRPC = (*fakeRPC)(nil)

// fakeLink implements destination.Link in memory, recording every
// prev_height it was asked to Update with.
type fakeLink struct {
	mu          sync.Mutex
	height      uint64
	roots       map[uint64]*uint256.Int
	prevHeights []uint64
	failStatus0 bool
}

func newFakeLink(height uint64) *fakeLink {
	return &fakeLink{height: height, roots: map[uint64]*uint256.Int{0: uint256.NewInt(0)}}
}

func (f *fakeLink) GetHeight(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height, nil
}

func (f *fakeLink) GetMerkleRoot(ctx context.Context, height uint64) (*uint256.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roots[height]
	if !ok {
		return uint256.NewInt(0), nil
	}
	return r, nil
}

var _ destination.Link = (*fakeLink)(nil)

func (f *fakeLink) Update(ctx context.Context, prevHeight uint64, pairs []*uint256.Int) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prevHeights = append(f.prevHeights, prevHeight)

	if f.failStatus0 {
		return &types.Receipt{Status: 0}, nil
	}

	height := prevHeight
	for i := 0; i+1 < len(pairs); i += 2 {
		height++
		f.roots[height] = pairs[i]
	}
	f.height = height
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func TestRelayColdStartBatchesContiguously(t *testing.T) {
	rpc := &fakeRPC{tip: 0}
	dest := newFakeLink(100)
	rpc.setTip(100 + 2*32 + 3)

	logger := zap.NewNop()
	r := New(rpc, dest, Config{BatchSize: 32, PollInterval: time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		dest.mu.Lock()
		defer dest.mu.Unlock()
		return dest.height == 100+2*32+3
	}, 2*time.Second, time.Millisecond)

	cancel()
	<-done

	dest.mu.Lock()
	defer dest.mu.Unlock()
	require.Equal(t, []uint64{100, 100 + 32, 100 + 2*32}, dest.prevHeights)
}

func TestRelaySubmissionErrorStopsLoop(t *testing.T) {
	rpc := &fakeRPC{tip: 5}
	dest := newFakeLink(0)
	dest.failStatus0 = true

	logger := zap.NewNop()
	r := New(rpc, dest, Config{BatchSize: 32, PollInterval: time.Millisecond}, logger)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, SubmissionError)

	dest.mu.Lock()
	defer dest.mu.Unlock()
	require.Equal(t, uint64(0), dest.height)
}

func TestRelayHeightRaceRecoversWithoutGap(t *testing.T) {
	rpc := &fakeRPC{tip: 10}
	dest := newFakeLink(0)

	logger := zap.NewNop()
	r := New(rpc, dest, Config{BatchSize: 32, PollInterval: time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		// simulate a concurrent external writer advancing the cursor
		// mid-plan, before the relay's own submit runs.
		time.Sleep(time.Millisecond)
		dest.mu.Lock()
		dest.height = 3
		dest.roots[3] = uint256.NewInt(0)
		dest.mu.Unlock()
	}()
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		dest.mu.Lock()
		defer dest.mu.Unlock()
		return dest.height == 10
	}, 2*time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestRelayAlreadyRunning(t *testing.T) {
	rpc := &fakeRPC{tip: 0}
	dest := newFakeLink(0)
	logger := zap.NewNop()
	r := New(rpc, dest, Config{BatchSize: 8, PollInterval: time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)
	require.Eventually(t, func() bool { return r.isRunning() }, time.Second, time.Millisecond)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, AlreadyRunning)
}

func TestRelayStopIsIdempotent(t *testing.T) {
	rpc := &fakeRPC{tip: 0}
	dest := newFakeLink(0)
	logger := zap.NewNop()
	r := New(rpc, dest, Config{BatchSize: 8, PollInterval: time.Millisecond}, logger)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
}
