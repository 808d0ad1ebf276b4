// =============================
// File: internal/dex/pumpfun/trade.go
// =============================
package pumpfun

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

// DEX executes buy and sell trades against the pump.fun bonding curve.
type DEX struct {
	client *solbc.Client
	sender *transaction.Sender
	wallet *wallet.Wallet
	logger *zap.Logger
}

// TradeParams are the caller-supplied knobs for one trade.
type TradeParams struct {
	Mint        solana.PublicKey
	Amount      uint64 // lamports in for a buy, tokens in for a sell
	SlippageBps uint64
	SendOpts    transaction.Options
}

// NewDEX creates a pump.fun trading facade.
func NewDEX(client *solbc.Client, sender *transaction.Sender, w *wallet.Wallet, logger *zap.Logger) *DEX {
	return &DEX{
		client: client,
		sender: sender,
		wallet: w,
		logger: logger.Named("pumpfun"),
	}
}

// Buy swaps lamports for tokens on the bonding curve. The token amount is
// quoted from current reserves; the lamport ceiling is the input expanded by
// slippage. A missing user token account gets a create instruction prepended.
func (d *DEX) Buy(ctx context.Context, params TradeParams) (*transaction.Result, error) {
	curve, err := FetchBondingCurveAccount(ctx, d.client, params.Mint)
	if err != nil {
		return nil, err
	}
	tokenAmount, err := curve.BuyQuote(params.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to quote buy: %w", err)
	}
	maxSolCost, err := dex.AmountWithSlippage(params.Amount, params.SlippageBps, true)
	if err != nil {
		return nil, err
	}

	global, err := FetchGlobalAccount(ctx, d.client)
	if err != nil {
		return nil, err
	}
	accounts, err := DeriveInstructionAccounts(params.Mint, d.wallet.PublicKey, global)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction
	exists, err := d.client.AccountExists(ctx, accounts.UserTokenAccount)
	if err != nil {
		return nil, err
	}
	if !exists {
		instructions = append(instructions,
			d.wallet.CreateAssociatedTokenAccountIdempotentInstruction(d.wallet.PublicKey, d.wallet.PublicKey, params.Mint))
	}
	instructions = append(instructions, BuildBuyInstruction(accounts, tokenAmount, maxSolCost))

	d.logger.Info("Buying on bonding curve",
		zap.String("mint", params.Mint.String()),
		zap.Uint64("lamports_in", params.Amount),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("max_sol_cost", maxSolCost))

	return d.sender.Finalize(ctx, instructions, d.wallet, params.SendOpts)
}

// Sell swaps tokens back to lamports. The wallet's token balance is checked
// first; the lamport floor is the fee-adjusted quote shrunk by slippage.
func (d *DEX) Sell(ctx context.Context, params TradeParams) (*transaction.Result, error) {
	userATA, err := d.wallet.GetATA(params.Mint)
	if err != nil {
		return nil, err
	}
	balance, err := d.client.GetTokenAccountBalance(ctx, userATA)
	if err != nil {
		return nil, err
	}
	if balance < params.Amount {
		return nil, fmt.Errorf("insufficient token balance: have %d, want %d", balance, params.Amount)
	}

	curve, err := FetchBondingCurveAccount(ctx, d.client, params.Mint)
	if err != nil {
		return nil, err
	}
	global, err := FetchGlobalAccount(ctx, d.client)
	if err != nil {
		return nil, err
	}
	solOutput, err := curve.SellQuote(params.Amount, global.FeeBasisPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to quote sell: %w", err)
	}
	minSolOutput, err := dex.AmountWithSlippage(solOutput, params.SlippageBps, false)
	if err != nil {
		return nil, err
	}

	accounts, err := DeriveInstructionAccounts(params.Mint, d.wallet.PublicKey, global)
	if err != nil {
		return nil, err
	}
	instructions := []solana.Instruction{
		BuildSellInstruction(accounts, params.Amount, minSolOutput),
	}

	d.logger.Info("Selling on bonding curve",
		zap.String("mint", params.Mint.String()),
		zap.Uint64("token_amount", params.Amount),
		zap.Uint64("sol_output", solOutput),
		zap.Uint64("min_sol_output", minSolOutput))

	return d.sender.Finalize(ctx, instructions, d.wallet, params.SendOpts)
}
