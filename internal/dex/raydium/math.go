// ==============================
// File: internal/dex/raydium/math.go
// ==============================
package raydium

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexwatch/solsniper/internal/dex"
)

// SwapDirection identifies which side of the pool the input token is on.
type SwapDirection int

const (
	// DirectionBuy swaps coin into pc.
	DirectionBuy SwapDirection = iota
	// DirectionSell swaps pc into coin.
	DirectionSell
)

func (d SwapDirection) String() string {
	if d == DirectionBuy {
		return "buy"
	}
	return "sell"
}

// AuthorityID recomputes the pool authority from the stored nonce. The pool
// account commits to its nonce, so this must be create_program_address, not
// a fresh bump search.
func AuthorityID(program solana.PublicKey, nonce uint8) (solana.PublicKey, error) {
	pda, err := solana.CreateProgramAddress(
		[][]byte{authoritySeed, {nonce}},
		program,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: invalid authority nonce %d: %v", dex.ErrDecode, nonce, err)
	}
	return pda, nil
}

// TotalsWithoutTakePnl subtracts the pending protocol PNL from each vault
// balance. A vault holding less than its pending PNL is corrupt state.
func TotalsWithoutTakePnl(pcAmount, coinAmount uint64, state *AmmInfo) (pc, coin uint64, err error) {
	pc, err = dex.CheckedSub(pcAmount, state.StateData.NeedTakePnlPc)
	if err != nil {
		return 0, 0, fmt.Errorf("pc vault below pending pnl: %w", err)
	}
	coin, err = dex.CheckedSub(coinAmount, state.StateData.NeedTakePnlCoin)
	if err != nil {
		return 0, 0, fmt.Errorf("coin vault below pending pnl: %w", err)
	}
	return pc, coin, nil
}

// swapAmountBaseIn applies the constant product to a fee-free input amount.
// Buy: out = pc*in/(coin+in). Sell: out = coin*in/(pc+in).
func swapAmountBaseIn(amountIn, totalPc, totalCoin uint64, direction SwapDirection) (uint64, error) {
	switch direction {
	case DirectionBuy:
		denom, err := dex.CheckedAdd(totalCoin, amountIn)
		if err != nil {
			return 0, err
		}
		return dex.MulDiv(totalPc, amountIn, denom)
	default:
		denom, err := dex.CheckedAdd(totalPc, amountIn)
		if err != nil {
			return 0, err
		}
		return dex.MulDiv(totalCoin, amountIn, denom)
	}
}

// swapAmountBaseOut inverts the constant product for a desired output.
// Buy: in = coin*out/(pc-out). Sell: in = pc*out/(coin-out).
func swapAmountBaseOut(amountOut, totalPc, totalCoin uint64, direction SwapDirection) (uint64, error) {
	switch direction {
	case DirectionBuy:
		denom, err := dex.CheckedSub(totalPc, amountOut)
		if err != nil {
			return 0, fmt.Errorf("requested output exceeds pc reserves: %w", err)
		}
		return dex.MulDiv(totalCoin, amountOut, denom)
	default:
		denom, err := dex.CheckedSub(totalCoin, amountOut)
		if err != nil {
			return 0, fmt.Errorf("requested output exceeds coin reserves: %w", err)
		}
		return dex.MulDiv(totalPc, amountOut, denom)
	}
}

// SwapExactAmount computes the counterpart amount for a swap.
//
// baseIn=true: amountSpecified is the input; the swap fee is deducted first,
// then the constant product yields the output. baseIn=false: amountSpecified
// is the desired output; the inverse relation yields the fee-free input,
// which is then grossed up by fee_den/(fee_den-fee_num). Truncation is
// floor at every division.
func SwapExactAmount(
	pcVaultAmount, coinVaultAmount uint64,
	feeNumerator, feeDenominator uint64,
	direction SwapDirection,
	amountSpecified uint64,
	baseIn bool,
) (uint64, error) {
	if err := dex.ValidateFraction(feeNumerator, feeDenominator); err != nil {
		return 0, err
	}

	if baseIn {
		fee, err := dex.MulDiv(amountSpecified, feeNumerator, feeDenominator)
		if err != nil {
			return 0, err
		}
		inAfterFee, err := dex.CheckedSub(amountSpecified, fee)
		if err != nil {
			return 0, err
		}
		return swapAmountBaseIn(inAfterFee, pcVaultAmount, coinVaultAmount, direction)
	}

	inBeforeFee, err := swapAmountBaseOut(amountSpecified, pcVaultAmount, coinVaultAmount, direction)
	if err != nil {
		return 0, err
	}
	feeFreeDenom, err := dex.CheckedSub(feeDenominator, feeNumerator)
	if err != nil {
		return 0, err
	}
	return dex.MulDiv(inBeforeFee, feeDenominator, feeFreeDenom)
}

// SwapWithSlippage computes the other-amount threshold for the swap
// instruction: the minimum acceptable output for exact-in, or the maximum
// acceptable input for exact-out.
func SwapWithSlippage(
	pcVaultAmount, coinVaultAmount uint64,
	feeNumerator, feeDenominator uint64,
	direction SwapDirection,
	amountSpecified uint64,
	baseIn bool,
	slippageBps uint64,
) (uint64, error) {
	exact, err := SwapExactAmount(pcVaultAmount, coinVaultAmount, feeNumerator, feeDenominator, direction, amountSpecified, baseIn)
	if err != nil {
		return 0, err
	}
	if baseIn {
		return dex.AmountWithSlippage(exact, slippageBps, false)
	}
	return dex.AmountWithSlippage(exact, slippageBps, true)
}
