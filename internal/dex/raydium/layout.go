// ==============================
// File: internal/dex/raydium/layout.go
// ==============================
package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexwatch/solsniper/internal/dex"
)

// Fees are the pool's fee fractions, eight little-endian u64 values.
type Fees struct {
	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64
}

// Validate rejects any fee fraction with a zero denominator or a numerator
// at or above it.
func (f *Fees) Validate() error {
	if err := dex.ValidateFraction(f.MinSeparateNumerator, f.MinSeparateDenominator); err != nil {
		return fmt.Errorf("min separate fee: %w", err)
	}
	if err := dex.ValidateFraction(f.TradeFeeNumerator, f.TradeFeeDenominator); err != nil {
		return fmt.Errorf("trade fee: %w", err)
	}
	if err := dex.ValidateFraction(f.PnlNumerator, f.PnlDenominator); err != nil {
		return fmt.Errorf("pnl fee: %w", err)
	}
	if err := dex.ValidateFraction(f.SwapFeeNumerator, f.SwapFeeDenominator); err != nil {
		return fmt.Errorf("swap fee: %w", err)
	}
	return nil
}

// Uint128 holds a little-endian 128-bit statistic field.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// StateData is the pool's running statistics block.
type StateData struct {
	NeedTakePnlCoin     uint64
	NeedTakePnlPc       uint64
	TotalPnlPc          uint64
	TotalPnlCoin        uint64
	PoolOpenTime        uint64
	OrderbookToInitTime uint64
	SwapCoinInAmount    Uint128
	SwapPcOutAmount     Uint128
	SwapAccPcFee        uint64
	SwapPcInAmount      Uint128
	SwapCoinOutAmount   Uint128
	SwapAccCoinFee      uint64
}

// AmmInfo is the deserialized pool state account.
type AmmInfo struct {
	Status             uint64
	Nonce              uint64
	OrderNum           uint64
	Depth              uint64
	CoinDecimals       uint64
	PcDecimals         uint64
	State              uint64
	ResetFlag          uint64
	MinSize            uint64
	VolMaxCutRatio     uint64
	AmountWave         uint64
	CoinLotSize        uint64
	PcLotSize          uint64
	MinPriceMultiplier uint64
	MaxPriceMultiplier uint64
	SysDecimalValue    uint64
	Fees               Fees
	StateData          StateData
	CoinVault          solana.PublicKey
	PcVault            solana.PublicKey
	CoinVaultMint      solana.PublicKey
	PcVaultMint        solana.PublicKey
	LpMint             solana.PublicKey
	OpenOrders         solana.PublicKey
	Market             solana.PublicKey
	MarketProgram      solana.PublicKey
	TargetOrders       solana.PublicKey
	AmmOwner           solana.PublicKey
	LpAmount           uint64
	ClientOrderID      uint64
	RecentEpoch        uint64
}

func readU128(data []byte) Uint128 {
	return Uint128{
		Lo: binary.LittleEndian.Uint64(data),
		Hi: binary.LittleEndian.Uint64(data[8:]),
	}
}

// DecodeAmmInfo parses a 752-byte pool state account. Every field sits at a
// fixed offset; the layout is part of the external protocol.
func DecodeAmmInfo(data []byte) (*AmmInfo, error) {
	if len(data) != AmmInfoSize {
		return nil, fmt.Errorf("%w: amm info must be %d bytes, got %d", dex.ErrDecode, AmmInfoSize, len(data))
	}

	info := &AmmInfo{}

	header := []*uint64{
		&info.Status, &info.Nonce, &info.OrderNum, &info.Depth,
		&info.CoinDecimals, &info.PcDecimals, &info.State, &info.ResetFlag,
		&info.MinSize, &info.VolMaxCutRatio, &info.AmountWave, &info.CoinLotSize,
		&info.PcLotSize, &info.MinPriceMultiplier, &info.MaxPriceMultiplier, &info.SysDecimalValue,
	}
	for i, field := range header {
		*field = binary.LittleEndian.Uint64(data[i*8:])
	}

	fees := []*uint64{
		&info.Fees.MinSeparateNumerator, &info.Fees.MinSeparateDenominator,
		&info.Fees.TradeFeeNumerator, &info.Fees.TradeFeeDenominator,
		&info.Fees.PnlNumerator, &info.Fees.PnlDenominator,
		&info.Fees.SwapFeeNumerator, &info.Fees.SwapFeeDenominator,
	}
	for i, field := range fees {
		*field = binary.LittleEndian.Uint64(data[128+i*8:])
	}

	info.StateData.NeedTakePnlCoin = binary.LittleEndian.Uint64(data[192:])
	info.StateData.NeedTakePnlPc = binary.LittleEndian.Uint64(data[200:])
	info.StateData.TotalPnlPc = binary.LittleEndian.Uint64(data[208:])
	info.StateData.TotalPnlCoin = binary.LittleEndian.Uint64(data[216:])
	info.StateData.PoolOpenTime = binary.LittleEndian.Uint64(data[224:])
	// 16 bytes of padding at 232
	info.StateData.OrderbookToInitTime = binary.LittleEndian.Uint64(data[248:])
	info.StateData.SwapCoinInAmount = readU128(data[256:])
	info.StateData.SwapPcOutAmount = readU128(data[272:])
	info.StateData.SwapAccPcFee = binary.LittleEndian.Uint64(data[288:])
	info.StateData.SwapPcInAmount = readU128(data[296:])
	info.StateData.SwapCoinOutAmount = readU128(data[312:])
	info.StateData.SwapAccCoinFee = binary.LittleEndian.Uint64(data[328:])

	info.CoinVault = solana.PublicKeyFromBytes(data[336:368])
	info.PcVault = solana.PublicKeyFromBytes(data[368:400])
	info.CoinVaultMint = solana.PublicKeyFromBytes(data[400:432])
	info.PcVaultMint = solana.PublicKeyFromBytes(data[432:464])
	info.LpMint = solana.PublicKeyFromBytes(data[464:496])
	info.OpenOrders = solana.PublicKeyFromBytes(data[496:528])
	info.Market = solana.PublicKeyFromBytes(data[528:560])
	info.MarketProgram = solana.PublicKeyFromBytes(data[560:592])
	info.TargetOrders = solana.PublicKeyFromBytes(data[592:624])
	// 64 bytes of padding at 624
	info.AmmOwner = solana.PublicKeyFromBytes(data[688:720])
	info.LpAmount = binary.LittleEndian.Uint64(data[720:])
	info.ClientOrderID = binary.LittleEndian.Uint64(data[728:])
	info.RecentEpoch = binary.LittleEndian.Uint64(data[736:])
	// 8 bytes of padding at 744

	return info, nil
}

// TokenAccount is the subset of an SPL token account the swap path reads.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// DecodeTokenAccount parses mint, owner and amount from raw SPL token
// account data.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < splTokenAccountSize {
		return nil, fmt.Errorf("%w: token account must be %d bytes, got %d", dex.ErrDecode, splTokenAccountSize, len(data))
	}
	return &TokenAccount{
		Mint:   solana.PublicKeyFromBytes(data[0:32]),
		Owner:  solana.PublicKeyFromBytes(data[32:64]),
		Amount: binary.LittleEndian.Uint64(data[64:72]),
	}, nil
}

// AmmStatus is the pool lifecycle state machine.
type AmmStatus uint64

const (
	StatusUninitialized AmmStatus = iota
	StatusInitialized
	StatusDisabled
	StatusWithdrawOnly
	StatusLiquidityOnly
	StatusOrderBookOnly
	StatusSwapOnly
	StatusWaitingTrade
)

// Valid reports whether the raw status is a known non-uninitialized state.
func (s AmmStatus) Valid() bool {
	return s >= StatusInitialized && s <= StatusWaitingTrade
}

// DepositPermission reports whether liquidity may be added.
func (s AmmStatus) DepositPermission() bool {
	switch s {
	case StatusInitialized, StatusLiquidityOnly, StatusOrderBookOnly, StatusSwapOnly, StatusWaitingTrade:
		return true
	default:
		return false
	}
}

// WithdrawPermission reports whether liquidity may be removed.
func (s AmmStatus) WithdrawPermission() bool {
	switch s {
	case StatusInitialized, StatusWithdrawOnly, StatusLiquidityOnly, StatusOrderBookOnly, StatusSwapOnly, StatusWaitingTrade:
		return true
	default:
		return false
	}
}

// SwapPermission reports whether swapping is allowed.
func (s AmmStatus) SwapPermission() bool {
	switch s {
	case StatusInitialized, StatusSwapOnly, StatusWaitingTrade:
		return true
	default:
		return false
	}
}

// OrderbookPermission reports whether the pool places Serum orders. Pools
// with an active orderbook cannot be priced from vault balances alone.
func (s AmmStatus) OrderbookPermission() bool {
	switch s {
	case StatusInitialized, StatusOrderBookOnly:
		return true
	default:
		return false
	}
}
