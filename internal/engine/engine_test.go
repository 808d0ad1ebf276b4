package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/dex/pumpfun"
	"github.com/dexwatch/solsniper/internal/dex/raydium"
	"github.com/dexwatch/solsniper/internal/notify"
	"github.com/dexwatch/solsniper/internal/transaction"
)

type fakeCurveTrader struct {
	mu    sync.Mutex
	buys  []pumpfun.TradeParams
	sells []pumpfun.TradeParams
	err   error
}

func (f *fakeCurveTrader) Buy(_ context.Context, params pumpfun.TradeParams) (*transaction.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buys = append(f.buys, params)
	if f.err != nil {
		return nil, f.err
	}
	return &transaction.Result{Signature: solana.Signature{1}}, nil
}

func (f *fakeCurveTrader) Sell(_ context.Context, params pumpfun.TradeParams) (*transaction.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sells = append(f.sells, params)
	if f.err != nil {
		return nil, f.err
	}
	return &transaction.Result{Signature: solana.Signature{2}}, nil
}

type fakePoolTrader struct {
	mu    sync.Mutex
	swaps []raydium.SwapParams
}

func (f *fakePoolTrader) Swap(_ context.Context, params raydium.SwapParams) (*transaction.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swaps = append(f.swaps, params)
	return &transaction.Result{Signature: solana.Signature{3}}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	done   chan struct{}
}

func newRecordingNotifier(expected int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, expected)}
}

func (r *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingNotifier) wait(t *testing.T, n int) []notify.Event {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for trade %d of %d", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func runEngine(t *testing.T, e *Engine, signals chan TradeSignal) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx, signals)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestEngineBuySignal(t *testing.T) {
	curve := &fakeCurveTrader{}
	pool := &fakePoolTrader{}
	notifier := newRecordingNotifier(1)
	config := Config{BuyLamports: 1_000_000, SlippageBps: 100}

	e := New(curve, pool, nil, notifier, config, zap.NewNop())
	signals := make(chan TradeSignal, 1)
	stop := runEngine(t, e, signals)
	defer stop()

	mint := solana.NewWallet().PublicKey()
	signals <- TradeSignal{Mint: mint, Side: SideBuy}

	events := notifier.wait(t, 1)
	require.Len(t, events, 1)
	assert.Equal(t, notify.StatusConfirmed, events[0].Status)
	assert.Equal(t, mint.String(), events[0].Mint)
	assert.Equal(t, "buy", events[0].Side)
	assert.NotEmpty(t, events[0].TradeID)
	assert.NotEmpty(t, events[0].Signature)

	require.Len(t, curve.buys, 1)
	assert.Equal(t, mint, curve.buys[0].Mint)
	assert.Equal(t, uint64(1_000_000), curve.buys[0].Amount)
	assert.Equal(t, uint64(100), curve.buys[0].SlippageBps)
	assert.Empty(t, pool.swaps)
}

func TestEngineSellSignal(t *testing.T) {
	curve := &fakeCurveTrader{}
	notifier := newRecordingNotifier(1)

	e := New(curve, &fakePoolTrader{}, nil, notifier, Config{BuyLamports: 10}, zap.NewNop())
	signals := make(chan TradeSignal, 1)
	stop := runEngine(t, e, signals)
	defer stop()

	signals <- TradeSignal{Mint: solana.NewWallet().PublicKey(), Side: SideSell}

	events := notifier.wait(t, 1)
	assert.Equal(t, notify.StatusConfirmed, events[0].Status)
	assert.Len(t, curve.sells, 1)
	assert.Empty(t, curve.buys)
}

func TestEnginePoolSignalRoutesToSwap(t *testing.T) {
	pool := &fakePoolTrader{}
	notifier := newRecordingNotifier(1)

	e := New(&fakeCurveTrader{}, pool, nil, notifier, Config{BuyLamports: 5_000}, zap.NewNop())
	signals := make(chan TradeSignal, 1)
	stop := runEngine(t, e, signals)
	defer stop()

	mint := solana.NewWallet().PublicKey()
	poolID := solana.NewWallet().PublicKey()
	signals <- TradeSignal{Mint: mint, Side: SideBuy, Pool: poolID}

	notifier.wait(t, 1)
	require.Len(t, pool.swaps, 1)
	assert.Equal(t, poolID, pool.swaps[0].PoolID)
	assert.Equal(t, solana.WrappedSol, pool.swaps[0].TokenIn)
	assert.Equal(t, mint, pool.swaps[0].TokenOut)
}

func TestEngineFailedTradeDoesNotStopPipeline(t *testing.T) {
	curve := &fakeCurveTrader{err: errors.New("rpc error: node unreachable")}
	notifier := newRecordingNotifier(2)

	e := New(curve, &fakePoolTrader{}, nil, notifier, Config{BuyLamports: 10}, zap.NewNop())
	signals := make(chan TradeSignal, 2)
	stop := runEngine(t, e, signals)
	defer stop()

	signals <- TradeSignal{Mint: solana.NewWallet().PublicKey(), Side: SideBuy}
	signals <- TradeSignal{Mint: solana.NewWallet().PublicKey(), Side: SideBuy}

	events := notifier.wait(t, 2)
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, notify.StatusFailed, event.Status)
		assert.Contains(t, event.Detail, "node unreachable")
	}
	assert.Len(t, curve.buys, 2)
}

func TestEngineUnknownSide(t *testing.T) {
	notifier := newRecordingNotifier(1)

	e := New(&fakeCurveTrader{}, &fakePoolTrader{}, nil, notifier, Config{}, zap.NewNop())
	signals := make(chan TradeSignal, 1)
	stop := runEngine(t, e, signals)
	defer stop()

	signals <- TradeSignal{Mint: solana.NewWallet().PublicKey(), Side: "hold"}

	events := notifier.wait(t, 1)
	assert.Equal(t, notify.StatusFailed, events[0].Status)
}
