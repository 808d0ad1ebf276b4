// internal/monitor/monitor.go
package monitor

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Monitor consumes confirmed blocks and emits launch and migration events.
// A decode failure in one transaction never stops the scan; the item is
// logged and skipped.
type Monitor struct {
	listener   *Listener
	creates    *Broadcaster[*CreateEvent]
	migrations *Broadcaster[*MigrationEvent]
	logger     *zap.Logger
}

// NewMonitor creates a block scanner on top of the listener. channelSize
// bounds each event subscriber's buffer.
func NewMonitor(listener *Listener, channelSize int, logger *zap.Logger) *Monitor {
	return &Monitor{
		listener:   listener,
		creates:    NewBroadcaster[*CreateEvent](channelSize, logger),
		migrations: NewBroadcaster[*MigrationEvent](channelSize, logger),
		logger:     logger.Named("monitor"),
	}
}

// SubscribeCreates registers a consumer of token launch events.
func (m *Monitor) SubscribeCreates() (<-chan *CreateEvent, func()) {
	return m.creates.Subscribe()
}

// SubscribeMigrations registers a consumer of liquidity migration events.
func (m *Monitor) SubscribeMigrations() (<-chan *MigrationEvent, func()) {
	return m.migrations.Subscribe()
}

// Run scans blocks until the context is cancelled or the block stream closes.
func (m *Monitor) Run(ctx context.Context) error {
	blocks, cancel := m.listener.Subscribe()
	defer cancel()
	defer m.creates.Close()
	defer m.migrations.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case block, ok := <-blocks:
			if !ok {
				return nil
			}
			m.scanBlock(block)
		}
	}
}

func (m *Monitor) scanBlock(block Block) {
	if block.Block == nil {
		return
	}
	for i := range block.Block.Transactions {
		m.scanTransaction(block.Slot, &block.Block.Transactions[i])
	}
}

func (m *Monitor) scanTransaction(slot uint64, txMeta *rpc.TransactionWithMeta) {
	tx, err := txMeta.GetTransaction()
	if err != nil {
		m.logger.Debug("Failed to decode transaction, skipping", zap.Uint64("slot", slot), zap.Error(err))
		return
	}
	if tx == nil {
		return
	}

	for _, event := range ScanTransactionForCreates(tx, m.logger) {
		event.Slot = slot
		m.logger.Info("Token launch detected",
			zap.String("mint", event.Mint.String()),
			zap.String("symbol", event.Symbol),
			zap.Uint64("slot", slot))
		m.creates.Publish(event)
	}

	if txMeta.Meta == nil || !HasMigrationMarker(txMeta.Meta.LogMessages) {
		return
	}
	event := DecodeMigrationTransaction(tx)
	if event == nil {
		m.logger.Debug("Migration marker without expected account layout, skipping", zap.Uint64("slot", slot))
		return
	}
	event.Slot = slot
	m.logger.Info("Liquidity migration detected",
		zap.String("coin_mint", event.CoinMint.String()),
		zap.String("liquidity", event.Liquidity.String()),
		zap.Uint64("slot", slot))
	m.migrations.Publish(event)
}
