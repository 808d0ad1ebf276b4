// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dexwatch/solsniper/internal/blockchain/solana/programs/computebudget"
	"github.com/dexwatch/solsniper/internal/blockchain/solbc"
	"github.com/dexwatch/solsniper/internal/config"
	"github.com/dexwatch/solsniper/internal/dex/pumpfun"
	"github.com/dexwatch/solsniper/internal/dex/raydium"
	"github.com/dexwatch/solsniper/internal/engine"
	"github.com/dexwatch/solsniper/internal/monitor"
	"github.com/dexwatch/solsniper/internal/notify"
	"github.com/dexwatch/solsniper/internal/transaction"
	"github.com/dexwatch/solsniper/internal/wallet"
)

// Runner owns the wiring of the trading pipeline.
type Runner struct {
	config *config.Config
	logger *zap.Logger
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{config: cfg, logger: logger}
}

// Run wires every component and blocks until a shutdown signal or a fatal
// pipeline error.
func (r *Runner) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := wallet.NewWallet(r.config.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	r.logger.Info("Wallet loaded", zap.String("pubkey", w.String()))

	client := solbc.NewClient(r.config.RPCURL, r.logger)
	sender := transaction.NewSender(client, r.logger)

	sendOpts := transaction.Options{
		ComputeBudget: computebudget.Config{
			Units:     r.config.UnitLimit,
			UnitPrice: r.config.UnitPrice,
		},
		Simulate:      r.config.Simulate,
		SkipPreflight: r.config.SkipPreflight,
	}

	curve := pumpfun.NewDEX(client, sender, w, r.logger)
	pool := raydium.NewDEX(client, sender, w, r.logger)

	listener := monitor.NewListener(r.config.WebSocketURL, r.config.ChannelSize, r.logger)
	mon := monitor.NewMonitor(listener, r.config.ChannelSize, r.logger)

	eng := engine.New(curve, pool, mon, notify.NewLogNotifier(r.logger), engine.Config{
		BuyLamports:      r.config.BuyLamports(),
		SlippageBps:      r.config.SlippageBps,
		SendOpts:         sendOpts,
		SnipeOnCreate:    r.config.SnipeOnCreate,
		SnipeOnMigration: r.config.SnipeOnMigration,
	}, r.logger)

	r.logger.Info("Pipeline starting",
		zap.Bool("snipe_on_create", r.config.SnipeOnCreate),
		zap.Bool("snipe_on_migration", r.config.SnipeOnMigration),
		zap.Bool("simulate", r.config.Simulate))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Run(ctx) })
	g.Go(func() error { return mon.Run(ctx) })
	g.Go(func() error { return eng.Run(ctx, nil) })

	err = g.Wait()
	if err != nil && ctx.Err() != nil {
		// Cancellation during shutdown is the expected exit path.
		err = nil
	}
	r.logger.Info("Pipeline stopped")
	return err
}
