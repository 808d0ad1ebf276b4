// internal/transaction/sender.go
package transaction

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/blockchain/solana/programs/computebudget"
	"github.com/dexwatch/solsniper/internal/blockchain/solbc"
	"github.com/dexwatch/solsniper/internal/dex"
	"github.com/dexwatch/solsniper/internal/wallet"
)

// Sender finalizes a built instruction list into a signed transaction and
// either simulates it or submits it for confirmation.
type Sender struct {
	client *solbc.Client
	logger *zap.Logger
}

// Options control how a transaction is finalized.
type Options struct {
	ComputeBudget computebudget.Config

	// Simulate runs the transaction against the node without submitting.
	Simulate bool

	// SkipPreflight bypasses the node's preflight simulation on submit.
	SkipPreflight bool
}

// Result reports what happened to the finalized transaction.
type Result struct {
	Signature     solana.Signature
	Simulated     bool
	Logs          []string
	UnitsConsumed uint64
}

// NewSender creates a sender bound to an RPC client.
func NewSender(client *solbc.Client, logger *zap.Logger) *Sender {
	return &Sender{
		client: client,
		logger: logger.Named("tx-sender"),
	}
}

// Finalize prepends the compute budget instructions, attaches a fresh
// blockhash, signs with the payer and runs the simulate or submit path.
// The blockhash is fetched last so its validity window is not wasted on
// transaction assembly.
func (s *Sender) Finalize(ctx context.Context, instructions []solana.Instruction, payer *wallet.Wallet, opts Options) (*Result, error) {
	budget, err := computebudget.BuildInstructions(opts.ComputeBudget)
	if err != nil {
		return nil, err
	}
	all := make([]solana.Instruction, 0, len(budget)+len(instructions))
	all = append(all, budget...)
	all = append(all, instructions...)

	blockhash, err := s.client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(all, blockhash, solana.TransactionPayer(payer.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := payer.SignTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if opts.Simulate {
		return s.simulate(ctx, tx)
	}
	return s.submit(ctx, tx, opts.SkipPreflight)
}

func (s *Sender) simulate(ctx context.Context, tx *solana.Transaction) (*Result, error) {
	sim, err := s.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, line := range sim.Logs {
		s.logger.Debug("Simulation log", zap.String("line", line))
	}
	if sim.Err != nil {
		return nil, fmt.Errorf("%w: %v", dex.ErrSimulationFailed, sim.Err)
	}
	s.logger.Info("Simulation succeeded", zap.Uint64("units_consumed", sim.UnitsConsumed))
	return &Result{
		Simulated:     true,
		Logs:          sim.Logs,
		UnitsConsumed: sim.UnitsConsumed,
	}, nil
}

func (s *Sender) submit(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (*Result, error) {
	sig, err := s.client.SendTransaction(ctx, tx, skipPreflight)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Transaction submitted", zap.String("signature", sig.String()))
	if err := s.client.WaitForTransactionConfirmation(ctx, sig); err != nil {
		return nil, err
	}
	s.logger.Info("Transaction confirmed", zap.String("signature", sig.String()))
	return &Result{Signature: sig}, nil
}
