package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexwatch/solsniper/internal/dex"
)

func encodeBondingCurve(t *testing.T, acc BondingCurveAccount) []byte {
	t.Helper()
	data := make([]byte, bondingCurveAccountSize)
	binary.LittleEndian.PutUint64(data[8:], acc.VirtualTokenReserves)
	binary.LittleEndian.PutUint64(data[16:], acc.VirtualSolReserves)
	binary.LittleEndian.PutUint64(data[24:], acc.RealTokenReserves)
	binary.LittleEndian.PutUint64(data[32:], acc.RealSolReserves)
	binary.LittleEndian.PutUint64(data[40:], acc.TokenTotalSupply)
	if acc.Complete {
		data[48] = 1
	}
	return data
}

func TestDecodeBondingCurveAccount(t *testing.T) {
	want := BondingCurveAccount{
		VirtualTokenReserves: 1_073_000_000_000_000,
		VirtualSolReserves:   30_000_000_000,
		RealTokenReserves:    793_100_000_000_000,
		RealSolReserves:      0,
		TokenTotalSupply:     1_000_000_000_000_000,
		Complete:             false,
	}
	got, err := DecodeBondingCurveAccount(encodeBondingCurve(t, want))
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestDecodeBondingCurveAccountCompleteFlag(t *testing.T) {
	want := BondingCurveAccount{Complete: true}
	got, err := DecodeBondingCurveAccount(encodeBondingCurve(t, want))
	require.NoError(t, err)
	assert.True(t, got.Complete)
}

func TestDecodeBondingCurveAccountTooShort(t *testing.T) {
	_, err := DecodeBondingCurveAccount(make([]byte, bondingCurveAccountSize-1))
	assert.ErrorIs(t, err, dex.ErrDecode)
}

func TestDecodeGlobalAccount(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	feeRecipient := solana.NewWallet().PublicKey()

	data := make([]byte, globalAccountSize)
	data[8] = 1
	copy(data[9:41], authority.Bytes())
	copy(data[41:73], feeRecipient.Bytes())
	binary.LittleEndian.PutUint64(data[73:], 1_073_000_000_000_000)
	binary.LittleEndian.PutUint64(data[81:], 30_000_000_000)
	binary.LittleEndian.PutUint64(data[89:], 793_100_000_000_000)
	binary.LittleEndian.PutUint64(data[97:], 1_000_000_000_000_000)
	binary.LittleEndian.PutUint64(data[105:], 100)

	got, err := DecodeGlobalAccount(data)
	require.NoError(t, err)
	assert.True(t, got.Initialized)
	assert.Equal(t, authority, got.Authority)
	assert.Equal(t, feeRecipient, got.FeeRecipient)
	assert.Equal(t, uint64(1_073_000_000_000_000), got.InitialVirtualTokenReserves)
	assert.Equal(t, uint64(30_000_000_000), got.InitialVirtualSolReserves)
	assert.Equal(t, uint64(793_100_000_000_000), got.InitialRealTokenReserves)
	assert.Equal(t, uint64(1_000_000_000_000_000), got.TokenTotalSupply)
	assert.Equal(t, uint64(100), got.FeeBasisPoints)
}

func TestDecodeGlobalAccountTooShort(t *testing.T) {
	_, err := DecodeGlobalAccount(make([]byte, globalAccountSize-1))
	assert.ErrorIs(t, err, dex.ErrDecode)
}

func TestDeriveBondingCurveDeterministic(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("8vbjWGXKhrKfVMCXpLrUGyUUHKNfmvRiuT2Dn2h1pump")

	a, err := DeriveBondingCurve(mint)
	require.NoError(t, err)
	b, err := DeriveBondingCurve(mint)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())

	other, err := DeriveBondingCurve(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestDeriveGlobal(t *testing.T) {
	pda, err := DeriveGlobal()
	require.NoError(t, err)
	assert.False(t, pda.IsZero())
}
