// ==============================
// File: internal/dex/raydium/swap.go
// ==============================
package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/blockchain/solbc"
	"github.com/dexwatch/solsniper/internal/dex"
	"github.com/dexwatch/solsniper/internal/transaction"
	"github.com/dexwatch/solsniper/internal/wallet"
)

// DEX executes swaps against Raydium constant-product pools.
type DEX struct {
	client *solbc.Client
	sender *transaction.Sender
	wallet *wallet.Wallet
	logger *zap.Logger
}

// SwapParams are the caller-supplied knobs for one swap.
type SwapParams struct {
	PoolID      solana.PublicKey
	TokenIn     solana.PublicKey
	TokenOut    solana.PublicKey
	Amount      uint64 // exact input when TokenIn is WSOL, exact output otherwise
	SlippageBps uint64
	SendOpts    transaction.Options
}

// NewDEX creates a Raydium trading facade.
func NewDEX(client *solbc.Client, sender *transaction.Sender, w *wallet.Wallet, logger *zap.Logger) *DEX {
	return &DEX{
		client: client,
		sender: sender,
		wallet: w,
		logger: logger.Named("raydium"),
	}
}

// FetchPoolState reads and validates the pool account.
func (d *DEX) FetchPoolState(ctx context.Context, poolID solana.PublicKey) (*AmmInfo, error) {
	data, err := d.client.GetAccountData(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool %s: %w", poolID, err)
	}
	state, err := DecodeAmmInfo(data)
	if err != nil {
		return nil, err
	}
	if !AmmStatus(state.Status).Valid() {
		return nil, fmt.Errorf("%w: pool %s has invalid status %d", dex.ErrDecode, poolID, state.Status)
	}
	if err := state.Fees.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

// Swap builds and finalizes a full swap transaction. When one side is native
// SOL a seeded WSOL account is created, funded, used as that side's token
// account and closed within the same transaction.
func (d *DEX) Swap(ctx context.Context, params SwapParams) (*transaction.Result, error) {
	owner := d.wallet.PublicKey

	state, err := d.FetchPoolState(ctx, params.PoolID)
	if err != nil {
		return nil, err
	}

	// The input side picks the vault whose balance the planner reads.
	var userInputVault solana.PublicKey
	switch params.TokenIn {
	case state.CoinVaultMint:
		if !params.TokenOut.Equals(state.PcVaultMint) {
			return nil, fmt.Errorf("%w: output mint %s is not the pool's pc side", dex.ErrAssetMismatch, params.TokenOut)
		}
		userInputVault = state.CoinVault
	case state.PcVaultMint:
		if !params.TokenOut.Equals(state.CoinVaultMint) {
			return nil, fmt.Errorf("%w: output mint %s is not the pool's coin side", dex.ErrAssetMismatch, params.TokenOut)
		}
		userInputVault = state.PcVault
	default:
		return nil, fmt.Errorf("%w: input mint %s matches neither pool side", dex.ErrAssetMismatch, params.TokenIn)
	}

	baseIn := params.TokenIn.Equals(solana.WrappedSol)

	swapInfo, err := CalculateSwapInfo(ctx, d.client, state, ProgramID, params.PoolID,
		userInputVault, params.Amount, params.SlippageBps, baseIn)
	if err != nil {
		return nil, err
	}

	inATA, err := d.wallet.GetATA(params.TokenIn)
	if err != nil {
		return nil, err
	}
	outATA, err := d.wallet.GetATA(params.TokenOut)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	// A missing destination token account is created in the same transaction.
	if !params.TokenOut.Equals(solana.WrappedSol) {
		exists, err := d.client.AccountExists(ctx, outATA)
		if err != nil {
			return nil, err
		}
		if !exists {
			instructions = append(instructions,
				d.wallet.CreateAssociatedTokenAccountIdempotentInstruction(owner, owner, params.TokenOut))
		}
	}

	// Ephemeral WSOL account when either side is native SOL.
	var wsolAccount solana.PublicKey
	var hasWSOL bool
	if params.TokenIn.Equals(solana.WrappedSol) || params.TokenOut.Equals(solana.WrappedSol) {
		entropy, err := wallet.NewEphemeral()
		if err != nil {
			return nil, err
		}
		account, seed, err := DeriveSeededWSOLAccount(owner, entropy.PublicKey)
		if err != nil {
			return nil, err
		}
		wsolAccount, hasWSOL = account, true

		rent, err := d.client.GetMinimumBalanceForRentExemption(ctx, splTokenAccountSize)
		if err != nil {
			return nil, err
		}
		lamports := rent
		if params.TokenIn.Equals(solana.WrappedSol) {
			lamports, err = dex.CheckedAdd(rent, params.Amount)
			if err != nil {
				return nil, err
			}
		}

		instructions = append(instructions,
			BuildCreateAccountWithSeedInstruction(owner, wsolAccount, owner, seed, lamports, splTokenAccountSize, solana.TokenProgramID),
			BuildInitializeTokenAccountInstruction(wsolAccount, solana.WrappedSol, owner),
		)
	}

	finalInATA, finalOutATA := inATA, outATA
	if hasWSOL {
		if params.TokenIn.Equals(solana.WrappedSol) {
			finalInATA = wsolAccount
		} else {
			finalOutATA = wsolAccount
		}
	}

	if baseIn {
		instructions = append(instructions,
			BuildSwapBaseInInstruction(swapInfo, finalInATA, finalOutATA, owner, swapInfo.AmountSpecified, swapInfo.OtherAmountThreshold))
	} else {
		instructions = append(instructions,
			BuildSwapBaseOutInstruction(swapInfo, finalInATA, finalOutATA, owner, swapInfo.OtherAmountThreshold, swapInfo.AmountSpecified))
	}

	if hasWSOL {
		instructions = append(instructions,
			BuildCloseTokenAccountInstruction(wsolAccount, owner, owner))
	}

	d.logger.Info("Swapping on pool",
		zap.String("pool", params.PoolID.String()),
		zap.String("direction", swapInfo.Direction.String()),
		zap.Bool("base_in", baseIn),
		zap.Uint64("amount_specified", swapInfo.AmountSpecified),
		zap.Uint64("other_amount_threshold", swapInfo.OtherAmountThreshold))

	return d.sender.Finalize(ctx, instructions, d.wallet, params.SendOpts)
}
