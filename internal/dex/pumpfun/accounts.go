// =============================
// File: internal/dex/pumpfun/accounts.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexwatch/solsniper/internal/dex"
)

// BondingCurveAccount is the on-chain state of a token's bonding curve.
// Layout: 8-byte discriminator, five little-endian u64 reserves and one
// trailing completion flag byte.
type BondingCurveAccount struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// GlobalAccount is the program's global configuration account.
// Layout: 8-byte discriminator, initialized flag, authority and fee
// recipient pubkeys, then five little-endian u64 parameters.
type GlobalAccount struct {
	Initialized               bool
	Authority                 solana.PublicKey
	FeeRecipient              solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
}

// DeriveBondingCurve computes the bonding curve PDA for a mint.
func DeriveBondingCurve(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{bondingCurveSeed, mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	return pda, nil
}

// DeriveGlobal computes the program's global configuration PDA.
func DeriveGlobal() (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{globalSeed},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive global account: %w", err)
	}
	return pda, nil
}

// DecodeBondingCurveAccount parses raw bonding curve account data.
func DecodeBondingCurveAccount(data []byte) (*BondingCurveAccount, error) {
	if len(data) < bondingCurveAccountSize {
		return nil, fmt.Errorf("%w: bonding curve account too short: %d bytes", dex.ErrDecode, len(data))
	}
	offset := 8 // discriminator
	acc := &BondingCurveAccount{}
	acc.VirtualTokenReserves = binary.LittleEndian.Uint64(data[offset:])
	acc.VirtualSolReserves = binary.LittleEndian.Uint64(data[offset+8:])
	acc.RealTokenReserves = binary.LittleEndian.Uint64(data[offset+16:])
	acc.RealSolReserves = binary.LittleEndian.Uint64(data[offset+24:])
	acc.TokenTotalSupply = binary.LittleEndian.Uint64(data[offset+32:])
	acc.Complete = data[offset+40] != 0
	return acc, nil
}

// DecodeGlobalAccount parses raw global configuration account data.
func DecodeGlobalAccount(data []byte) (*GlobalAccount, error) {
	if len(data) < globalAccountSize {
		return nil, fmt.Errorf("%w: global account too short: %d bytes", dex.ErrDecode, len(data))
	}
	offset := 8 // discriminator
	acc := &GlobalAccount{}
	acc.Initialized = data[offset] != 0
	offset++
	acc.Authority = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	acc.FeeRecipient = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32
	acc.InitialVirtualTokenReserves = binary.LittleEndian.Uint64(data[offset:])
	acc.InitialVirtualSolReserves = binary.LittleEndian.Uint64(data[offset+8:])
	acc.InitialRealTokenReserves = binary.LittleEndian.Uint64(data[offset+16:])
	acc.TokenTotalSupply = binary.LittleEndian.Uint64(data[offset+24:])
	acc.FeeBasisPoints = binary.LittleEndian.Uint64(data[offset+32:])
	return acc, nil
}

// accountReader is the slice of the RPC client the fetchers need.
type accountReader interface {
	GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
}

// FetchBondingCurveAccount reads and decodes the bonding curve state for a mint.
func FetchBondingCurveAccount(ctx context.Context, client accountReader, mint solana.PublicKey) (*BondingCurveAccount, error) {
	pda, err := DeriveBondingCurve(mint)
	if err != nil {
		return nil, err
	}
	data, err := client.GetAccountData(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonding curve %s: %w", pda, err)
	}
	return DecodeBondingCurveAccount(data)
}

// FetchGlobalAccount reads and decodes the program's global configuration.
func FetchGlobalAccount(ctx context.Context, client accountReader) (*GlobalAccount, error) {
	pda, err := DeriveGlobal()
	if err != nil {
		return nil, err
	}
	data, err := client.GetAccountData(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch global account %s: %w", pda, err)
	}
	return DecodeGlobalAccount(data)
}
