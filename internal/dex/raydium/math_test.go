package raydium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexwatch/solsniper/internal/dex"
)

func TestSwapExactAmountBaseIn(t *testing.T) {
	// pc=1_000_000, coin=2_000_000, fee 25/10000.
	tests := []struct {
		name      string
		direction SwapDirection
		amountIn  uint64
		expected  uint64
	}{
		// fee = 25, in after fee = 9975
		// sell: floor(2_000_000*9975/1_009_975) = 19_753
		{name: "Sell pc for coin", direction: DirectionSell, amountIn: 10_000, expected: 19_753},
		// buy: floor(1_000_000*9975/2_009_975) = 4_962
		{name: "Buy pc with coin", direction: DirectionBuy, amountIn: 10_000, expected: 4_962},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SwapExactAmount(1_000_000, 2_000_000, 25, 10_000, tt.direction, tt.amountIn, true)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSwapExactAmountBaseOut(t *testing.T) {
	// Inverse of the sell vector: asking for 19_753 coin out must cost at
	// most the 10_000 pc that produced it.
	got, err := SwapExactAmount(1_000_000, 2_000_000, 25, 10_000, DirectionSell, 19_753, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), got)
}

func TestSwapExactAmountBaseOutExceedsReserves(t *testing.T) {
	_, err := SwapExactAmount(1_000_000, 2_000_000, 25, 10_000, DirectionBuy, 1_000_001, false)
	assert.ErrorIs(t, err, dex.ErrArithmetic)
}

func TestSwapExactAmountInvalidFee(t *testing.T) {
	_, err := SwapExactAmount(1_000_000, 2_000_000, 10_000, 10_000, DirectionSell, 10_000, true)
	assert.ErrorIs(t, err, dex.ErrArithmetic)

	_, err = SwapExactAmount(1_000_000, 2_000_000, 25, 0, DirectionSell, 10_000, true)
	assert.ErrorIs(t, err, dex.ErrArithmetic)
}

func TestSwapWithSlippage(t *testing.T) {
	// Exact-in shrinks the threshold: floor(19_753*9900/10000) = 19_555.
	got, err := SwapWithSlippage(1_000_000, 2_000_000, 25, 10_000, DirectionSell, 10_000, true, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(19_555), got)

	// Exact-out grows it: floor(10_000*10100/10000) = 10_100.
	got, err = SwapWithSlippage(1_000_000, 2_000_000, 25, 10_000, DirectionSell, 19_753, false, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_100), got)

	// Zero slippage is the exact amount.
	got, err = SwapWithSlippage(1_000_000, 2_000_000, 25, 10_000, DirectionSell, 10_000, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(19_753), got)
}

func TestTotalsWithoutTakePnl(t *testing.T) {
	state := &AmmInfo{}
	state.StateData.NeedTakePnlPc = 1_000
	state.StateData.NeedTakePnlCoin = 2_000

	pc, coin, err := TotalsWithoutTakePnl(10_000, 20_000, state)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000), pc)
	assert.Equal(t, uint64(18_000), coin)

	// Vault below pending pnl is corrupt state, not a wrap.
	_, _, err = TotalsWithoutTakePnl(500, 20_000, state)
	assert.ErrorIs(t, err, dex.ErrArithmetic)
}

func TestAuthorityID(t *testing.T) {
	// Only a valid off-curve nonce derives an authority.
	var valid bool
	for nonce := uint8(0); nonce < 255; nonce++ {
		if pda, err := AuthorityID(ProgramID, nonce); err == nil {
			assert.False(t, pda.IsZero())
			valid = true
			break
		}
	}
	assert.True(t, valid, "no valid authority nonce found")
}
