// ==============================
// File: internal/dex/raydium/swap_info.go
// ==============================
package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexwatch/solsniper/internal/dex"
)

// AmmKeys is the pool's resolved account set.
type AmmKeys struct {
	AmmPool       solana.PublicKey
	AmmCoinMint   solana.PublicKey
	AmmPcMint     solana.PublicKey
	AmmAuthority  solana.PublicKey
	AmmTarget     solana.PublicKey
	AmmCoinVault  solana.PublicKey
	AmmPcVault    solana.PublicKey
	AmmLpMint     solana.PublicKey
	AmmOpenOrder  solana.PublicKey
	MarketProgram solana.PublicKey
	Market        solana.PublicKey
	Nonce         uint8
}

// SwapInfoResult is the per-request swap plan: the full account set for the
// swap instruction plus the computed threshold. Never persisted.
type SwapInfoResult struct {
	PoolID            solana.PublicKey
	AmmAuthority      solana.PublicKey
	AmmOpenOrders     solana.PublicKey
	AmmCoinVault      solana.PublicKey
	AmmPcVault        solana.PublicKey
	InputMint         solana.PublicKey
	OutputMint        solana.PublicKey
	MarketProgram     solana.PublicKey
	Market            solana.PublicKey
	MarketCoinVault   solana.PublicKey
	MarketPcVault     solana.PublicKey
	MarketVaultSigner solana.PublicKey
	MarketEventQueue  solana.PublicKey
	MarketBids        solana.PublicKey
	MarketAsks        solana.PublicKey

	Direction            SwapDirection
	AmountSpecified      uint64
	OtherAmountThreshold uint64
}

// LoadAmmKeys derives the pool's account set from its decoded state.
func LoadAmmKeys(state *AmmInfo, program, poolID solana.PublicKey) (*AmmKeys, error) {
	authority, err := AuthorityID(program, uint8(state.Nonce))
	if err != nil {
		return nil, err
	}
	return &AmmKeys{
		AmmPool:       poolID,
		AmmTarget:     state.TargetOrders,
		AmmCoinVault:  state.CoinVault,
		AmmPcVault:    state.PcVault,
		AmmLpMint:     state.LpMint,
		AmmOpenOrder:  state.OpenOrders,
		AmmCoinMint:   state.CoinVaultMint,
		AmmPcMint:     state.PcVaultMint,
		AmmAuthority:  authority,
		Market:        state.Market,
		MarketProgram: state.MarketProgram,
		Nonce:         uint8(state.Nonce),
	}, nil
}

// batchReader is the slice of the RPC client the planner needs.
type batchReader interface {
	GetMultipleAccountData(ctx context.Context, pubkeys ...solana.PublicKey) ([][]byte, error)
}

// CalculateSwapInfo builds the swap plan: it batch-reads the vaults and the
// user's input token account, rejects orderbook pools, prices the swap on
// PNL-adjusted vault balances and fills the market slots with padding
// accounts. Pools without an active orderbook ignore the market accounts,
// so known-good readonly and writable addresses stand in for them.
func CalculateSwapInfo(
	ctx context.Context,
	client batchReader,
	state *AmmInfo,
	program, poolID solana.PublicKey,
	userInputToken solana.PublicKey,
	amountSpecified uint64,
	slippageBps uint64,
	baseIn bool,
) (*SwapInfoResult, error) {
	keys, err := LoadAmmKeys(state, program, poolID)
	if err != nil {
		return nil, err
	}

	if AmmStatus(state.Status).OrderbookPermission() {
		return nil, fmt.Errorf("%w: pool %s trades through an orderbook", dex.ErrProtocolClosed, poolID)
	}

	datas, err := client.GetMultipleAccountData(ctx, poolID, keys.AmmPcVault, keys.AmmCoinVault, userInputToken)
	if err != nil {
		return nil, err
	}
	for i, data := range datas {
		if data == nil {
			return nil, fmt.Errorf("%w: swap account %d missing", dex.ErrAccountNotFound, i)
		}
	}
	pcVault, err := DecodeTokenAccount(datas[1])
	if err != nil {
		return nil, fmt.Errorf("pc vault: %w", err)
	}
	coinVault, err := DecodeTokenAccount(datas[2])
	if err != nil {
		return nil, fmt.Errorf("coin vault: %w", err)
	}
	userToken, err := DecodeTokenAccount(datas[3])
	if err != nil {
		return nil, fmt.Errorf("user input token: %w", err)
	}

	totalPc, totalCoin, err := TotalsWithoutTakePnl(pcVault.Amount, coinVault.Amount, state)
	if err != nil {
		return nil, err
	}

	var direction SwapDirection
	var inputMint, outputMint solana.PublicKey
	switch userToken.Mint {
	case keys.AmmCoinMint:
		direction, inputMint, outputMint = DirectionBuy, keys.AmmCoinMint, keys.AmmPcMint
	case keys.AmmPcMint:
		direction, inputMint, outputMint = DirectionSell, keys.AmmPcMint, keys.AmmCoinMint
	default:
		return nil, fmt.Errorf("%w: input mint %s matches neither pool side", dex.ErrAssetMismatch, userToken.Mint)
	}

	threshold, err := SwapWithSlippage(
		totalPc, totalCoin,
		state.Fees.SwapFeeNumerator, state.Fees.SwapFeeDenominator,
		direction, amountSpecified, baseIn, slippageBps,
	)
	if err != nil {
		return nil, err
	}

	return &SwapInfoResult{
		PoolID:        poolID,
		AmmAuthority:  keys.AmmAuthority,
		AmmOpenOrders: keys.AmmOpenOrder,
		AmmCoinVault:  keys.AmmCoinVault,
		AmmPcVault:    keys.AmmPcVault,
		InputMint:     inputMint,
		OutputMint:    outputMint,
		// Market slots are padding: readonly slots reuse the authority,
		// writable slots reuse the open orders account.
		MarketProgram:     keys.AmmAuthority,
		Market:            keys.AmmOpenOrder,
		MarketCoinVault:   keys.AmmOpenOrder,
		MarketPcVault:     keys.AmmOpenOrder,
		MarketVaultSigner: keys.AmmAuthority,
		MarketEventQueue:  keys.AmmOpenOrder,
		MarketBids:        keys.AmmOpenOrder,
		MarketAsks:        keys.AmmOpenOrder,

		Direction:            direction,
		AmountSpecified:      amountSpecified,
		OtherAmountThreshold: threshold,
	}, nil
}
