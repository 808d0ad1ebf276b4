// =============================
// File: internal/dex/pumpfun/math.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/dexwatch/solsniper/internal/dex"
)

// BuyQuote returns the token amount received for solIn lamports, priced on
// the virtual reserves: floor(vToken*solIn/(vSol+solIn)). A completed curve
// no longer trades.
func (b *BondingCurveAccount) BuyQuote(solIn uint64) (uint64, error) {
	if b.Complete {
		return 0, fmt.Errorf("%w: bonding curve migrated", dex.ErrProtocolClosed)
	}
	if solIn == 0 {
		return 0, nil
	}
	denom, err := dex.CheckedAdd(b.VirtualSolReserves, solIn)
	if err != nil {
		return 0, err
	}
	return dex.MulDiv(b.VirtualTokenReserves, solIn, denom)
}

// SellQuote returns the lamports received for tokenIn tokens after the
// protocol fee: raw = floor(vSol*tokenIn/(vToken+tokenIn)), minus
// floor(raw*feeBps/10000).
func (b *BondingCurveAccount) SellQuote(tokenIn, feeBasisPoints uint64) (uint64, error) {
	if b.Complete {
		return 0, fmt.Errorf("%w: bonding curve migrated", dex.ErrProtocolClosed)
	}
	if tokenIn == 0 {
		return 0, nil
	}
	denom, err := dex.CheckedAdd(b.VirtualTokenReserves, tokenIn)
	if err != nil {
		return 0, err
	}
	raw, err := dex.MulDiv(b.VirtualSolReserves, tokenIn, denom)
	if err != nil {
		return 0, err
	}
	fee, err := dex.MulDiv(raw, feeBasisPoints, 10_000)
	if err != nil {
		return 0, err
	}
	return dex.CheckedSub(raw, fee)
}
