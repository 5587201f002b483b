package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/api/grpcapi"
	"github.com/idilsaglam/tada/internal/api/memory"
	"github.com/idilsaglam/tada/internal/api/trpc"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/tracing"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := config.NewFlagSet()
	group := fs.Bool("group", false, "group ls output by pending/completed")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitOK
		}
		ui.Fail(os.Stderr, "config: "+err.Error())
		return cli.ExitUsage
	}
	ui.SetTheme(cfg.Theme)

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.Fail(os.Stderr, "logger: "+err.Error())
		return cli.ExitError
	}
	defer func() { _ = logger.Sync() }()

	shutdown, err := tracing.Setup(cfg.TraceFile)
	if err != nil {
		ui.Fail(os.Stderr, "tracing: "+err.Error())
		return cli.ExitError
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	tokens, err := auth.NewStore()
	if err != nil {
		logger.Warn("credential store unavailable", zap.Error(err))
	}
	var token string
	if tokens != nil {
		token = tokens.Token()
	}

	svc, closeSvc, err := openService(cfg, token, logger)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return cli.ExitError
	}
	defer closeSvc()
	svc = api.Instrument(svc, logger)

	logger.Info("client starting",
		zap.String("backend", cfg.Backend),
		zap.String("api_url", cfg.APIURL),
		zap.String("grpc_addr", cfg.GRPCAddr),
		zap.Bool("token", token != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &cli.Runner{
		Service: svc,
		Tokens:  tokens,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Group:   *group,
		UI: func(ctx context.Context) error {
			return tui.Run(ctx, svc, tui.Options{
				Timeout:   cfg.RequestTimeout.Std(),
				NoticeTTL: cfg.NoticeTTL.Std(),
				Theme:     cfg.Theme,
			})
		},
	}
	return r.Run(ctx, fs.Args())
}

// openService builds the transport named by cfg.Backend. The returned
// close func is always safe to call.
func openService(cfg *config.Config, token string, logger *zap.Logger) (api.Service, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendGRPC:
		c, err := grpcapi.Dial(cfg.GRPCAddr,
			grpcapi.WithToken(token),
			grpcapi.WithLogger(logger),
		)
		if err != nil {
			return nil, noop, fmt.Errorf("dial %s: %w", cfg.GRPCAddr, err)
		}
		return c, func() {
			if err := c.Close(); err != nil {
				logger.Warn("grpc close", zap.Error(err))
			}
		}, nil

	case config.BackendMemory:
		var seed []model.Todo
		if cfg.SeedFile != "" {
			s, err := memory.LoadSeed(cfg.SeedFile)
			if err != nil {
				return nil, noop, fmt.Errorf("seed %s: %w", cfg.SeedFile, err)
			}
			seed = s
		}
		return memory.New(seed...), noop, nil
	}

	opts := []trpc.Option{
		trpc.WithPathPrefix(cfg.APIPrefix),
		trpc.WithTimeout(cfg.RequestTimeout.Std()),
		trpc.WithToken(token),
	}
	if cfg.Transformer == "superjson" {
		opts = append(opts, trpc.WithSuperJSON())
	}
	return trpc.New(cfg.APIURL, opts...), noop, nil
}
