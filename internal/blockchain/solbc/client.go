// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/dex"
)

// Client is a thin adapter over the solana-go RPC client. It translates
// transport failures into dex.ErrRPC and missing accounts into
// dex.ErrAccountNotFound so callers never string-match node errors.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// SimulationResult carries the node's verdict for a simulated transaction.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// NewClient creates a new client for the given RPC URL.
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("solbc-client"),
	}
}

// GetAccountData fetches the raw bytes of a single account.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", dex.ErrAccountNotFound, pubkey)
		}
		c.logger.Debug("GetAccountInfo error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: get account info: %v", dex.ErrRPC, err)
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("%w: %s", dex.ErrAccountNotFound, pubkey)
	}
	return result.Value.Data.GetBinary(), nil
}

// AccountExists reports whether an account exists. Non-existence is not an
// error here; it is a signal the caller may react to, e.g. by inserting a
// create-account instruction.
func (c *Client) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	_, err := c.GetAccountData(ctx, pubkey)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, dex.ErrAccountNotFound) {
		return false, nil
	}
	return false, err
}

// GetMultipleAccountData fetches raw bytes for several accounts in one batch
// read. The result slice is positionally aligned with pubkeys; a missing
// account yields a nil entry.
func (c *Client) GetMultipleAccountData(ctx context.Context, pubkeys ...solana.PublicKey) ([][]byte, error) {
	if len(pubkeys) == 0 {
		return nil, nil
	}
	res, err := c.rpc.GetMultipleAccountsWithOpts(ctx, pubkeys, &rpc.GetMultipleAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Error(err))
		return nil, fmt.Errorf("%w: get multiple accounts: %v", dex.ErrRPC, err)
	}
	out := make([][]byte, len(pubkeys))
	for i, acc := range res.Value {
		if acc == nil {
			continue
		}
		out[i] = acc.Data.GetBinary()
	}
	return out, nil
}

// GetRecentBlockhash fetches the latest blockhash at confirmed commitment.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, fmt.Errorf("%w: get latest blockhash: %v", dex.ErrRPC, err)
	}
	return result.Value.Blockhash, nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for an
// account of the given size.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("%w: get rent exemption: %v", dex.ErrRPC, err)
	}
	return lamports, nil
}

// GetTokenAccountBalance returns the raw token balance of a token account.
func (c *Client) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("%w: get token account balance: %v", dex.ErrRPC, err)
	}
	if result == nil || result.Value == nil || result.Value.Amount == "" {
		return 0, fmt.Errorf("%w: token balance of %s", dex.ErrAccountNotFound, account)
	}
	var balance uint64
	if _, err := fmt.Sscan(result.Value.Amount, &balance); err != nil {
		return 0, fmt.Errorf("%w: parse token balance %q", dex.ErrDecode, result.Value.Amount)
	}
	return balance, nil
}

// SimulateTransaction simulates a transaction without mutating chain state.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error) {
	result, err := c.rpc.SimulateTransaction(ctx, tx)
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, fmt.Errorf("%w: simulate transaction: %v", dex.ErrRPC, err)
	}
	units := uint64(0)
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	return &SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: units,
	}, nil
}

// SendTransaction submits a signed transaction with an explicit
// skip-preflight flag and returns its signature.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       skipPreflight,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, fmt.Errorf("%w: send transaction: %v", dex.ErrRPC, err)
	}
	return sig, nil
}

// WaitForTransactionConfirmation polls signature statuses until the
// transaction reaches confirmed commitment or the context expires.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(30 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("%w: confirmation timeout for %s", dex.ErrSubmissionFailed, signature)
		case <-ticker.C:
			statuses, err := c.rpc.GetSignatureStatuses(ctx, false, signature)
			if err != nil {
				c.logger.Warn("Error getting signature statuses", zap.Error(err))
				continue
			}
			if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: transaction %s failed on chain: %v", dex.ErrSubmissionFailed, signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized ||
				status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed {
				return nil
			}
		}
	}
}
