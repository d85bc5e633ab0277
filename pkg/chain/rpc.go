// Package chain implements the source-chain RPC facade that the block
// processor and proof builder consume: eth_blockNumber,
// eth_getBlockByNumber, eth_getTransactionByHash and
// eth_getTransactionReceipt, each rate-limited the way a long-running
// relay process must be to avoid tripping a provider's request caps.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SourceRPC is the RPC surface the block processor and proof builder
// depend on. It is satisfied by *Client, and mocked in relay-loop tests.
type SourceRPC interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockTxHashes(ctx context.Context, height uint64) (blockHash common.Hash, txHashes []common.Hash, err error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, blockHash common.Hash, txIndex uint32, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client wraps an ethclient.Client with a token-bucket rate limiter so a
// relay instance cannot overrun its RPC provider's request budget
// regardless of batch size or poll interval.
type Client struct {
	eth     *ethclient.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Config configures a Client's RPC endpoint and request pacing.
type Config struct {
	// URL is the source chain's JSON-RPC endpoint, e.g. "http://host:port".
	URL string
	// RatePerSecond caps outbound RPC calls; 0 disables the limiter.
	RatePerSecond float64
	// Burst is the limiter's burst allowance; ignored if RatePerSecond is 0.
	Burst int
}

// Dial connects to the source chain's JSON-RPC endpoint.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial source rpc %s", cfg.URL)
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
	}

	return &Client{eth: eth, limiter: limiter, logger: logger}, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// BlockNumber returns the source chain's current tip height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, errors.Wrap(err, "rate limiter")
	}
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "eth_blockNumber")
	}
	return n, nil
}

// BlockTxHashes fetches the block at height and returns its header hash
// plus the ordered list of included transaction hashes. The fetch goes
// through ethclient.BlockByNumber, which requests full transaction
// bodies; it does not use the hashes-only form of eth_getBlockByNumber.
func (c *Client) BlockTxHashes(ctx context.Context, height uint64) (common.Hash, []common.Hash, error) {
	if err := c.wait(ctx); err != nil {
		return common.Hash{}, nil, errors.Wrap(err, "rate limiter")
	}
	block, err := c.eth.BlockByNumber(ctx, new(big.Int).SetUint64(height))
	if err != nil {
		return common.Hash{}, nil, errors.Wrapf(err, "eth_getBlockByNumber(%d)", height)
	}

	txs := block.Transactions()
	hashes := make([]common.Hash, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return block.Hash(), hashes, nil
}

// TransactionByHash fetches a transaction body and the coordinates
// (enclosing block hash, transaction index) needed to build its outer
// leaf. Returns ethereum.NotFound if the transaction is still pending.
func (c *Client) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, common.Hash, uint32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, common.Hash{}, 0, errors.Wrap(err, "rate limiter")
	}
	tx, pending, err := c.eth.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, common.Hash{}, 0, errors.Wrapf(err, "eth_getTransactionByHash(%s)", txHash)
	}
	if pending {
		return nil, common.Hash{}, 0, errors.Wrapf(ethereum.NotFound, "transaction %s is pending", txHash)
	}

	receipt, err := c.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, common.Hash{}, 0, err
	}
	return tx, receipt.BlockHash, uint32(receipt.TransactionIndex), nil
}

// TransactionReceipt fetches a transaction's receipt, which carries its
// block coordinates and emitted logs.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := c.wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	receipt, err := c.eth.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, errors.Wrapf(err, "eth_getTransactionReceipt(%s)", txHash)
	}
	return receipt, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
