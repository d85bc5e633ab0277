package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/config"
	"github.com/clearmatics/lithium/pkg/httpproof"
	"github.com/clearmatics/lithium/pkg/logger"
	badgerproofcache "github.com/clearmatics/lithium/pkg/proofcache/badger"
	redisproofcache "github.com/clearmatics/lithium/pkg/proofcache/redis"
)

func main() {
	app := &cli.App{
		Name:  "proofserver",
		Usage: "serve transaction and log inclusion proofs over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rpc-from",
				Usage:    "source chain JSON-RPC endpoint",
				EnvVars:  []string{config.EnvLithiumRPCFrom},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address",
				Value: ":8090",
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "badger proof cache directory; ignored if --redis-addr is set",
				EnvVars: []string{config.EnvLithiumCacheDir},
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "redis proof cache address; takes priority over --cache-dir, for proof servers running more than one replica",
				EnvVars: []string{config.EnvLithiumRedisAddr},
			},
			&cli.StringFlag{
				Name:    "jwks-url",
				Usage:   "JWKS URL for bearer-token authentication; empty disables auth",
				EnvVars: []string{config.EnvLithiumJWKSURL},
			},
			&cli.StringFlag{
				Name:  "jwt-issuer",
				Usage: "expected JWT issuer when --jwks-url is set",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rpc, err := chain.Dial(ctx, chain.Config{URL: c.String("rpc-from"), RatePerSecond: 20, Burst: 40}, l)
	if err != nil {
		return fmt.Errorf("dial source rpc: %w", err)
	}
	defer rpc.Close()

	cfg := httpproof.Config{Addr: c.String("addr"), RPC: rpc}

	switch {
	case c.String("redis-addr") != "":
		cache := redisproofcache.New(redisproofcache.Config{Address: c.String("redis-addr"), TTL: time.Hour}, l)
		defer cache.Close()
		cfg.Cache = cache
	case c.String("cache-dir") != "":
		cache, err := badgerproofcache.New(c.String("cache-dir"), l)
		if err != nil {
			return fmt.Errorf("open proof cache: %w", err)
		}
		defer cache.Close()
		cfg.Cache = cache
	}

	if jwksURL := c.String("jwks-url"); jwksURL != "" {
		auth, err := httpproof.NewJWTAuthenticator(ctx, jwksURL, c.String("jwt-issuer"), time.Minute)
		if err != nil {
			return fmt.Errorf("build jwt authenticator: %w", err)
		}
		cfg.Authenticate = auth.Authenticate
	}

	srv := httpproof.New(cfg, l)

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	l.Sugar().Infow("starting proof server", "addr", c.String("addr"))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Sugar().Errorw("proof server error", "error", err)
	}
	return nil
}
