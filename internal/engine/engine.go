// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dexwatch/solsniper/internal/dex/pumpfun"
	"github.com/dexwatch/solsniper/internal/dex/raydium"
	"github.com/dexwatch/solsniper/internal/monitor"
	"github.com/dexwatch/solsniper/internal/notify"
	"github.com/dexwatch/solsniper/internal/transaction"
)

// curveTrader trades against the bonding curve.
type curveTrader interface {
	Buy(ctx context.Context, params pumpfun.TradeParams) (*transaction.Result, error)
	Sell(ctx context.Context, params pumpfun.TradeParams) (*transaction.Result, error)
}

// poolTrader trades against AMM pools.
type poolTrader interface {
	Swap(ctx context.Context, params raydium.SwapParams) (*transaction.Result, error)
}

// Config are the per-trade execution knobs.
type Config struct {
	// BuyLamports is the lamport budget for each sniped buy.
	BuyLamports uint64
	SlippageBps uint64
	SendOpts    transaction.Options

	// SnipeOnCreate buys every newly launched token.
	SnipeOnCreate bool
	// SnipeOnMigration swaps into every freshly migrated pool.
	SnipeOnMigration bool
}

// Engine is the execution pipeline. Each trade walks
// signal, quote, build, submit as one sequential unit; distinct trades run
// concurrently and a failed trade never stops the pipeline.
type Engine struct {
	curve    curveTrader
	pool     poolTrader
	monitor  *monitor.Monitor
	notifier notify.Notifier
	config   Config
	logger   *zap.Logger
}

// New creates the execution pipeline.
func New(curve curveTrader, pool poolTrader, mon *monitor.Monitor, notifier notify.Notifier, config Config, logger *zap.Logger) *Engine {
	return &Engine{
		curve:    curve,
		pool:     pool,
		monitor:  mon,
		notifier: notifier,
		config:   config,
		logger:   logger.Named("engine"),
	}
}

// Run consumes monitor events and external signals until the context is
// cancelled. Signals may be nil when only chain events drive trading.
func (e *Engine) Run(ctx context.Context, signals <-chan TradeSignal) error {
	g, ctx := errgroup.WithContext(ctx)

	if e.monitor != nil {
		creates, cancelCreates := e.monitor.SubscribeCreates()
		migrations, cancelMigrations := e.monitor.SubscribeMigrations()
		defer cancelCreates()
		defer cancelMigrations()

		g.Go(func() error { return e.consumeCreates(ctx, g, creates) })
		g.Go(func() error { return e.consumeMigrations(ctx, g, migrations) })
	}
	if signals != nil {
		g.Go(func() error { return e.consumeSignals(ctx, g, signals) })
	}

	return g.Wait()
}

func (e *Engine) consumeCreates(ctx context.Context, g *errgroup.Group, creates <-chan *monitor.CreateEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-creates:
			if !ok {
				return nil
			}
			if !e.config.SnipeOnCreate {
				continue
			}
			signal := TradeSignal{Mint: event.Mint, Side: SideBuy}
			g.Go(func() error {
				e.executeTrade(ctx, signal)
				return nil
			})
		}
	}
}

func (e *Engine) consumeMigrations(ctx context.Context, g *errgroup.Group, migrations <-chan *monitor.MigrationEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-migrations:
			if !ok {
				return nil
			}
			if !e.config.SnipeOnMigration {
				continue
			}
			mint := event.CoinMint
			if mint.Equals(solana.WrappedSol) {
				mint = event.PcMint
			}
			signal := TradeSignal{Mint: mint, Side: SideBuy, Pool: event.Liquidity}
			g.Go(func() error {
				e.executeTrade(ctx, signal)
				return nil
			})
		}
	}
}

func (e *Engine) consumeSignals(ctx context.Context, g *errgroup.Group, signals <-chan TradeSignal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal, ok := <-signals:
			if !ok {
				return nil
			}
			g.Go(func() error {
				e.executeTrade(ctx, signal)
				return nil
			})
		}
	}
}

// executeTrade runs one trade to its terminal state. Every failure is
// reported and absorbed here.
func (e *Engine) executeTrade(ctx context.Context, signal TradeSignal) {
	tradeID := uuid.New().String()
	logger := e.logger.With(
		zap.String("trade_id", tradeID),
		zap.String("mint", signal.Mint.String()),
		zap.String("side", string(signal.Side)))
	logger.Info("Trade started")

	result, err := e.dispatch(ctx, signal)

	event := notify.Event{
		TradeID:  tradeID,
		Mint:     signal.Mint.String(),
		Side:     string(signal.Side),
		Lamports: e.config.BuyLamports,
	}
	switch {
	case err != nil:
		logger.Warn("Trade failed", zap.Error(err))
		event.Status = notify.StatusFailed
		event.Detail = err.Error()
	case result.Simulated:
		logger.Info("Trade simulated", zap.Uint64("units_consumed", result.UnitsConsumed))
		event.Status = notify.StatusSimulated
	default:
		logger.Info("Trade confirmed", zap.String("signature", result.Signature.String()))
		event.Status = notify.StatusConfirmed
		event.Signature = result.Signature.String()
	}

	if notifyErr := e.notifier.Notify(ctx, event); notifyErr != nil {
		logger.Warn("Failed to report trade outcome", zap.Error(notifyErr))
	}
}

// dispatch routes the signal to the protocol that serves it.
func (e *Engine) dispatch(ctx context.Context, signal TradeSignal) (*transaction.Result, error) {
	if !signal.Pool.IsZero() {
		params := raydium.SwapParams{
			PoolID:      signal.Pool,
			Amount:      e.config.BuyLamports,
			SlippageBps: e.config.SlippageBps,
			SendOpts:    e.config.SendOpts,
		}
		switch signal.Side {
		case SideBuy:
			params.TokenIn = solana.WrappedSol
			params.TokenOut = signal.Mint
		case SideSell:
			params.TokenIn = signal.Mint
			params.TokenOut = solana.WrappedSol
		default:
			return nil, fmt.Errorf("unknown trade side %q", signal.Side)
		}
		return e.pool.Swap(ctx, params)
	}

	params := pumpfun.TradeParams{
		Mint:        signal.Mint,
		Amount:      e.config.BuyLamports,
		SlippageBps: e.config.SlippageBps,
		SendOpts:    e.config.SendOpts,
	}
	switch signal.Side {
	case SideBuy:
		return e.curve.Buy(ctx, params)
	case SideSell:
		return e.curve.Sell(ctx, params)
	default:
		return nil, fmt.Errorf("unknown trade side %q", signal.Side)
	}
}
