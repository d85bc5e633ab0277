package chain

import (
	"context"

	chainPoller "github.com/Layr-Labs/chain-indexer/pkg/chainPollers"
	EVMChainPoller "github.com/Layr-Labs/chain-indexer/pkg/chainPollers/evm"
	"github.com/Layr-Labs/chain-indexer/pkg/chainPollers/persistence/memory"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	chainIndexerConfig "github.com/Layr-Labs/chain-indexer/pkg/config"
	"github.com/Layr-Labs/chain-indexer/pkg/contractStore/inMemoryContractStore"
	"github.com/Layr-Labs/chain-indexer/pkg/transactionLogParser"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// tipHandler adapts chain-indexer's block-notification interface into a
// channel of observed heights, paced by PollerConfig.PollingInterval.
type tipHandler struct {
	heights chan uint64
	logger  *zap.Logger
}

func (h *tipHandler) HandleBlock(ctx context.Context, block *ethereum.EthereumBlock) error {
	select {
	case h.heights <- uint64(block.Number):
	default:
		h.logger.Sugar().Debugw("tip channel full, dropping notification", "height", uint64(block.Number))
	}
	return nil
}

func (h *tipHandler) HandleLog(ctx context.Context, logWithBlock *chainPoller.LogWithBlock) error {
	return nil
}

func (h *tipHandler) HandleReorgBlock(ctx context.Context, blockNumber uint64) {}

// PollerConfig configures the optional chain-indexer-backed tip watcher.
type PollerConfig struct {
	URL             string
	ChainID         uint64
	PollingInterval uint64 // seconds
}

// Poller watches a source chain's head via chain-indexer's EVM poller and
// publishes observed heights on Heights(). It is an optional adjunct:
// Relay.Run does not read Heights(); it plans from SourceRPC.BlockNumber
// and sleeps a fixed interval when caught up.
type Poller struct {
	poller  *EVMChainPoller.EVMChainPoller
	heights chan uint64
}

// NewPoller builds a tip watcher for cfg.URL. It does not parse logs;
// Lithium relays by re-fetching each block through SourceRPC, so the
// poller only needs to notice that a new height exists.
func NewPoller(cfg PollerConfig, logger *zap.Logger) (*Poller, error) {
	ethClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   cfg.URL,
		BlockType: ethereum.BlockType_Latest,
	}, logger)

	cs := inMemoryContractStore.NewInMemoryContractStore(nil, logger)
	logParser := transactionLogParser.NewTransactionLogParser(cs, logger)
	store := memory.NewInMemoryChainPollerPersistence()

	handler := &tipHandler{heights: make(chan uint64, 64), logger: logger}

	p, err := EVMChainPoller.NewEVMChainPoller(
		ethClient,
		logParser,
		&EVMChainPoller.EVMChainPollerConfig{
			ChainId:         chainIndexerConfig.ChainId(cfg.ChainID),
			PollingInterval: cfg.PollingInterval,
		},
		store, handler, logger,
	)
	if err != nil {
		return nil, errors.Wrap(err, "build chain-indexer EVM poller")
	}

	return &Poller{poller: p, heights: handler.heights}, nil
}

// Start begins watching the chain head until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	return p.poller.Start(ctx)
}

// Heights yields each newly observed block height. Buffered and
// best-effort: under backpressure, new heights are dropped since the
// relay's own plan phase re-derives the tip via BlockNumber regardless.
func (p *Poller) Heights() <-chan uint64 {
	return p.heights
}
