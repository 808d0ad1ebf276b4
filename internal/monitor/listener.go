// internal/monitor/listener.go
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

// Block is one confirmed block paired with the slot it landed in.
type Block struct {
	Slot  uint64
	Block *rpc.GetBlockResult
}

// Listener subscribes to confirmed blocks over websocket and fans them out
// to scanners through a lossy broadcaster. The subscription is re-established
// with exponential backoff after stream errors; trade submissions are never
// retried, only this read-only stream.
type Listener struct {
	wsURL       string
	broadcaster *Broadcaster[Block]
	logger      *zap.Logger
}

// NewListener creates a block listener. channelSize bounds each subscriber's
// buffer.
func NewListener(wsURL string, channelSize int, logger *zap.Logger) *Listener {
	return &Listener{
		wsURL:       wsURL,
		broadcaster: NewBroadcaster[Block](channelSize, logger),
		logger:      logger.Named("listener"),
	}
}

// Subscribe registers a block consumer.
func (l *Listener) Subscribe() (<-chan Block, func()) {
	return l.broadcaster.Subscribe()
}

// Run streams blocks until the context is cancelled. Each (re)connection
// attempt goes through exponential backoff.
func (l *Listener) Run(ctx context.Context) error {
	defer l.broadcaster.Close()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := l.streamBlocks(ctx); err != nil {
			if ctx.Err() != nil {
				return struct{}{}, backoff.Permanent(ctx.Err())
			}
			l.logger.Warn("Block stream interrupted, reconnecting", zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(newStreamBackOff()),
		backoff.WithMaxElapsedTime(0),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// newStreamBackOff caps reconnect delays at 30 seconds and never gives up on
// its own; only context cancellation stops the stream.
func newStreamBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	return b
}

// streamBlocks opens one websocket subscription and forwards blocks until
// the stream breaks.
func (l *Listener) streamBlocks(ctx context.Context) error {
	client, err := ws.Connect(ctx, l.wsURL)
	if err != nil {
		return fmt.Errorf("failed to connect websocket: %w", err)
	}
	defer client.Close()

	rewards := false
	maxVersion := uint64(0)
	sub, err := client.BlockSubscribe(
		ws.NewBlockSubscribeFilterAll(),
		&ws.BlockSubscribeOpts{
			Commitment:                     rpc.CommitmentConfirmed,
			Encoding:                       solana.EncodingBase64,
			TransactionDetails:             rpc.TransactionDetailsFull,
			Rewards:                        &rewards,
			MaxSupportedTransactionVersion: &maxVersion,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to blocks: %w", err)
	}
	defer sub.Unsubscribe()

	l.logger.Info("Subscribed to confirmed blocks")

	for {
		result, err := sub.Recv(ctx)
		if err != nil {
			return fmt.Errorf("block stream recv: %w", err)
		}
		if result == nil || result.Value.Block == nil {
			continue
		}
		l.broadcaster.Publish(Block{
			Slot:  result.Value.Slot,
			Block: result.Value.Block,
		})
	}
}
