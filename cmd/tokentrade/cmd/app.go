package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/lugondev/go-tokentrade/internal/common"
	"github.com/lugondev/go-tokentrade/internal/config"
	"github.com/lugondev/go-tokentrade/internal/metrics"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
	"github.com/lugondev/go-tokentrade/internal/trade"
)

// app holds what every network command needs.
type app struct {
	logger   *slog.Logger
	metrics  *metrics.Collection
	client   *chain.Client
	settings trade.Settings
}

func newApp(ctx context.Context, cfg *config.Config, stderr io.Writer) (*app, error) {
	logger := common.NewLogger(stderr, cfg.Log.Level, cfg.Log.Format)

	settings, err := trade.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	mc := metrics.NewCollection(metrics.NewLogMetrics(logger))
	if err := mc.Initialize(ctx); err != nil {
		return nil, err
	}

	commitment := rpc.CommitmentType(cfg.Solana.Commitment)
	opts := []chain.Option{
		chain.WithLogger(logger),
		chain.WithMetrics(mc),
		chain.WithCommitment(commitment),
	}
	if cfg.Output.ShowTx {
		opts = append(opts, chain.WithTransactionTrace(stderr))
	}

	endpoint := cfg.Solana.GetRPCEndpoint()
	switch cfg.Confirm.Mode {
	case config.ConfirmModeWebsocket:
		timeout := time.Duration(cfg.Solana.Timeout) * time.Second
		confirmer, err := chain.DialWebsocketConfirmer(ctx, cfg.Solana.GetWSEndpoint(), commitment, timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chain.WithConfirmer(confirmer))
	default:
		confirmer := chain.NewPollingConfirmer(rpc.New(endpoint), chain.PollingConfig{
			Attempts:   cfg.Confirm.Attempts,
			Interval:   cfg.Confirm.Interval,
			Commitment: commitment,
		})
		confirmer.OnPoll = func(uint) {
			_ = mc.IncrementCounter(context.Background(), metrics.MetricConfirmationPolls, 1)
		}
		opts = append(opts, chain.WithConfirmer(confirmer))
	}

	logger.Debug("configuration loaded",
		"rpc", endpoint,
		"commitment", cfg.Solana.Commitment,
		"confirm", cfg.Confirm.Mode,
		"payer_keypair", cfg.Payer.Keypair,
		"program_keypair", cfg.Program.Keypair,
	)

	return &app{
		logger:   logger,
		metrics:  mc,
		client:   chain.NewClient(endpoint, opts...),
		settings: settings,
	}, nil
}

// Close flushes metrics and releases the client.
func (a *app) Close() {
	ctx := context.Background()
	if err := a.metrics.Flush(ctx); err != nil {
		a.logger.Error("failed to flush metrics", "error", err)
	}
	if err := a.metrics.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown metrics", "error", err)
	}
	if err := a.client.Close(); err != nil {
		a.logger.Error("failed to close client", "error", err)
	}
}
