package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/config"
	"github.com/clearmatics/lithium/pkg/destination"
	"github.com/clearmatics/lithium/pkg/destination/awssigner"
	"github.com/clearmatics/lithium/pkg/logger"
	"github.com/clearmatics/lithium/pkg/pidfile"
	"github.com/clearmatics/lithium/pkg/relay"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/ethereum/go-ethereum/ethclient"
)

func main() {
	app := &cli.App{
		Name:        "lithium",
		Usage:       "relay transaction and log inclusion proofs from one chain to a LithiumLink contract on another",
		Description: "Lithium alternates plan, fetch, and submit to carry Merkle roots of eligible transactions and logs from a source chain to a destination LithiumLink contract, resuming from the contract's own cursor on restart.",
		Version:     "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rpc-from",
				Usage:    "source chain JSON-RPC endpoint",
				EnvVars:  []string{config.EnvLithiumRPCFrom},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "rpc-to",
				Usage:    "destination chain JSON-RPC endpoint",
				EnvVars:  []string{config.EnvLithiumRPCTo},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "link",
				Usage:    "LithiumLink contract address on the destination chain",
				EnvVars:  []string{config.EnvLithiumLink},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "to-account",
				Usage:   "if set, verified against the signer's derived address before the relay starts",
				EnvVars: []string{config.EnvLithiumToAccount},
			},
			&cli.Uint64Flag{
				Name:    "batch-size",
				Usage:   "maximum number of blocks per Update call",
				Value:   uint64(config.DefaultBatchSize),
				EnvVars: []string{config.EnvLithiumBatchSize},
			},
			&cli.StringFlag{
				Name:    "pid",
				Usage:   "write the process PID to this file",
				EnvVars: []string{config.EnvLithiumPidFile},
			},
			&cli.StringFlag{
				Name:    "private-key",
				Usage:   "hex-encoded ECDSA private key used to sign Update transactions",
				EnvVars: []string{config.EnvLithiumPrivateKey},
			},
			&cli.StringFlag{
				Name:    "kms-key-id",
				Usage:   "AWS KMS key id used to sign Update transactions instead of --private-key",
				EnvVars: []string{config.EnvLithiumKMSKeyID},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: runRelay,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRelay(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pidPath := c.String("pid")
	if err := pidfile.Write(pidPath); err != nil {
		return err
	}
	defer func() { _ = pidfile.Remove(pidPath) }()

	rpc, err := chain.Dial(ctx, chain.Config{URL: c.String("rpc-from"), RatePerSecond: 10, Burst: 20}, l)
	if err != nil {
		return fmt.Errorf("dial source rpc: %w", err)
	}
	defer rpc.Close()

	destClient, err := ethclient.DialContext(ctx, c.String("rpc-to"))
	if err != nil {
		return fmt.Errorf("dial destination rpc: %w", err)
	}

	signer, err := buildSigner(ctx, c, destClient, l)
	if err != nil {
		return err
	}

	if want := c.String("to-account"); want != "" {
		if got := signer.GetFromAddress(); common.HexToAddress(want) != got {
			return fmt.Errorf("--to-account %s does not match signer address %s", want, got.Hex())
		}
	}

	link, err := destination.NewContractLink(common.HexToAddress(c.String("link")), destClient, signer, l)
	if err != nil {
		return fmt.Errorf("build destination link: %w", err)
	}

	r := relay.New(rpc, link, relay.Config{
		BatchSize:    uint32(c.Uint64("batch-size")),
		PollInterval: time.Second,
	}, l)

	l.Sugar().Infow("starting relay", "rpcFrom", c.String("rpc-from"), "rpcTo", c.String("rpc-to"), "link", c.String("link"), "batchSize", c.Uint64("batch-size"))

	if err := r.Run(ctx); err != nil {
		l.Sugar().Errorw("relay stopped", "error", err)
		return err
	}

	l.Sugar().Info("relay stopped cleanly")
	return nil
}

func buildSigner(ctx context.Context, c *cli.Context, destClient *ethclient.Client, l *zap.Logger) (destination.Signer, error) {
	if keyID := c.String("kms-key-id"); keyID != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return awssigner.NewAWSSigner(ctx, awsCfg, keyID, destClient, l)
	}
	if hexKey := c.String("private-key"); hexKey != "" {
		return destination.NewPrivateKeySigner(hexKey, destClient, l)
	}
	return nil, fmt.Errorf("one of --private-key or --kms-key-id is required")
}
