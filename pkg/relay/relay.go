// Package relay implements the Lithium control loop: it alternates
// plan, fetch, and submit phases to carry blocks from a source chain's
// RPC facade to a destination contract's Update entrypoint, in strictly
// monotonic, contiguous height order, resuming from the destination's
// own cursor on every restart.
package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/block"
	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/destination"
	"github.com/clearmatics/lithium/pkg/metrics"
)

const defaultPollInterval = time.Second

// Config tunes one relay instance. BatchSize is the sole knob for
// controlling submission cost; if Update fails on resource limits, the
// operator lowers it and restarts — the loop does not auto-tune.
type Config struct {
	BatchSize    uint32
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	return c
}

// Relay carries blocks [synced+1, tip] from rpc to dest in batches of
// at most BatchSize, one outstanding submission at a time.
type Relay struct {
	rpc    chain.SourceRPC
	dest   destination.Link
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	metrics *metrics.Metrics
}

// SetMetrics attaches a Metrics set the loop updates on every plan and
// submission. Optional; a nil (default, unset) Metrics is a no-op.
func (r *Relay) SetMetrics(m *metrics.Metrics) {
	r.metrics = m
}

// New builds a relay instance. It holds no state beyond the cooperative
// running flag; all progress is tracked by dest's own cursor.
func New(rpc chain.SourceRPC, dest destination.Link, cfg Config, logger *zap.Logger) *Relay {
	return &Relay{
		rpc:    rpc,
		dest:   dest,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Run alternates plan, fetch, and submit until ctx is cancelled or Stop
// is called. A second concurrent Run fails with AlreadyRunning.
func (r *Relay) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return AlreadyRunning
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	for {
		if !r.isRunning() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		heights, idle, err := r.plan(ctx)
		if err != nil {
			if isTransient(err) {
				r.logger.Sugar().Warnw("plan failed, will retry", "error", err)
				if !r.sleep(ctx) {
					return nil
				}
				continue
			}
			return err
		}
		if idle {
			if !r.sleep(ctx) {
				return nil
			}
			continue
		}

		batch, err := r.fetch(ctx, heights)
		if err != nil {
			if isTransient(err) {
				r.logger.Sugar().Warnw("fetch failed, will retry", "error", err)
				if !r.sleep(ctx) {
					return nil
				}
				continue
			}
			return err
		}

		if err := r.submit(ctx, batch); err != nil {
			if pkgerrors.Is(err, HeightRaceError) {
				r.logger.Sugar().Infow("height race, replanning", "error", err)
				continue
			}
			return err
		}
	}
}

// Stop clears the running flag. The loop observes this between
// iterations and exits cleanly; a second Stop on an already-stopped
// relay is a no-op and returns nil.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	r.running = false
	return nil
}

func (r *Relay) isRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Relay) sleep(ctx context.Context) bool {
	timer := time.NewTimer(r.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return r.isRunning()
	case <-ctx.Done():
		return false
	}
}

// plan computes the next contiguous height range to relay. idle is true
// when the destination is already caught up to the source tip.
func (r *Relay) plan(ctx context.Context) (heights []uint64, idle bool, err error) {
	synced, err := r.dest.GetHeight(ctx)
	if err != nil {
		return nil, false, classify(RpcError, "get destination height", err)
	}
	tip, err := r.rpc.BlockNumber(ctx)
	if err != nil {
		return nil, false, classify(RpcError, "get source tip", err)
	}
	if r.metrics != nil {
		r.metrics.ObservePlan(synced, tip)
	}

	if synced >= tip {
		return nil, true, nil
	}

	to := synced + uint64(r.cfg.BatchSize)
	if to > tip {
		to = tip
	}
	for h := synced + 1; h <= to; h++ {
		heights = append(heights, h)
	}
	return heights, false, nil
}

// fetch processes every height in the range into a Batch, in ascending
// order. A block with no eligible leaves still contributes a (0, hash)
// pair.
func (r *Relay) fetch(ctx context.Context, heights []uint64) (*Batch, error) {
	blocks := make([]*block.Block, 0, len(heights))
	for _, h := range heights {
		b, txCount, logCount, err := block.Process(ctx, r.rpc, h)
		if err != nil {
			return nil, classify(RpcError, fmt.Sprintf("process block %d", h), err)
		}
		r.logger.Sugar().Debugw("processed block", "height", h, "txCount", txCount, "logCount", logCount, "root", b.Root.Hex())
		blocks = append(blocks, b)
	}
	return &Batch{Blocks: blocks}, nil
}

// submit pre-checks the destination cursor, calls Update with the
// batch's flattened (root, hash) pairs, waits for its receipt, and
// post-checks the destination's resulting height and root.
func (r *Relay) submit(ctx context.Context, batch *Batch) error {
	if len(batch.Blocks) == 0 {
		return nil
	}
	first := batch.Blocks[0]
	last := batch.Blocks[len(batch.Blocks)-1]
	batchID := uuid.New().String()

	synced, err := r.dest.GetHeight(ctx)
	if err != nil {
		return classify(RpcError, "get destination height", err)
	}
	if synced != first.Height-1 {
		return pkgerrors.Wrapf(HeightRaceError, "batch %s: destination at %d, expected %d", batchID, synced, first.Height-1)
	}

	pairs := make([]*uint256.Int, 0, len(batch.Blocks)*2)
	for _, b := range batch.Blocks {
		pairs = append(pairs, b.Root, hashToUint256(b.Hash))
	}

	r.logger.Sugar().Infow("submitting batch", "batchID", batchID, "from", first.Height, "to", last.Height)

	receipt, err := r.dest.Update(ctx, first.Height-1, pairs)
	if err != nil {
		if r.metrics != nil {
			r.metrics.SubmissionErrors.Inc()
		}
		return classify(SubmissionError, fmt.Sprintf("batch %s: update", batchID), err)
	}
	if receipt.Status == 0 {
		if r.metrics != nil {
			r.metrics.SubmissionErrors.Inc()
		}
		return pkgerrors.Wrapf(SubmissionError, "batch %s: receipt status 0", batchID)
	}

	newHeight, err := r.dest.GetHeight(ctx)
	if err != nil {
		return classify(RpcError, "get destination height", err)
	}
	if newHeight != last.Height {
		return pkgerrors.Wrapf(ConsistencyError, "batch %s: destination height %d, expected %d", batchID, newHeight, last.Height)
	}
	newRoot, err := r.dest.GetMerkleRoot(ctx, last.Height)
	if err != nil {
		return classify(RpcError, "get destination root", err)
	}
	if newRoot.Cmp(last.Root) != 0 {
		return pkgerrors.Wrapf(ConsistencyError, "batch %s: destination root mismatch at height %d", batchID, last.Height)
	}

	if r.metrics != nil {
		r.metrics.BatchesSubmitted.Inc()
		r.metrics.BlocksProcessed.Add(float64(len(batch.Blocks)))
	}

	r.logger.Sugar().Infow("batch submitted", "batchID", batchID, "from", first.Height, "to", last.Height)
	return nil
}

func isTransient(err error) bool {
	return pkgerrors.Is(err, RpcError)
}

func hashToUint256(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}
