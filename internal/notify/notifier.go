// internal/notify/notifier.go
package notify

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Status is the terminal state of a trade.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusSimulated Status = "simulated"
	StatusFailed    Status = "failed"
)

// Event is one trade outcome report.
type Event struct {
	TradeID   string
	Mint      string
	Side      string
	Status    Status
	Signature string
	Lamports  uint64
	Detail    string
}

// Notifier is the outbound sink for trade outcomes. Message transport is the
// implementation's concern.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier reports trade outcomes to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

// lamportsToSol renders a lamport amount as a decimal SOL string.
func lamportsToSol(lamports uint64) string {
	return decimal.New(int64(lamports), -9).String()
}

// Notify logs the event. It never fails.
func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	fields := []zap.Field{
		zap.String("trade_id", event.TradeID),
		zap.String("mint", event.Mint),
		zap.String("side", event.Side),
		zap.String("status", string(event.Status)),
		zap.String("amount_sol", lamportsToSol(event.Lamports)),
	}
	if event.Signature != "" {
		fields = append(fields, zap.String("signature", event.Signature))
	}
	if event.Detail != "" {
		fields = append(fields, zap.String("detail", event.Detail))
	}
	if event.Status == StatusFailed {
		n.logger.Warn("Trade failed", fields...)
	} else {
		n.logger.Info("Trade finished", fields...)
	}
	return nil
}
