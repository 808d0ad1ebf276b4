// ==============================================
// File: internal/dex/pumpfun/instructions.go
// ==============================================
package pumpfun

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// InstructionAccounts collects every address a buy or sell instruction
// references. Derive once per trade, reuse for both directions.
type InstructionAccounts struct {
	Global                 solana.PublicKey
	FeeRecipient           solana.PublicKey
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	UserTokenAccount       solana.PublicKey
	User                   solana.PublicKey
}

// DeriveInstructionAccounts resolves the full account set for trading mint
// as user. FeeRecipient comes from the global account when available.
func DeriveInstructionAccounts(mint, user solana.PublicKey, global *GlobalAccount) (InstructionAccounts, error) {
	globalPDA, err := DeriveGlobal()
	if err != nil {
		return InstructionAccounts{}, err
	}
	bondingCurve, err := DeriveBondingCurve(mint)
	if err != nil {
		return InstructionAccounts{}, err
	}
	curveATA, _, err := solana.FindAssociatedTokenAddress(bondingCurve, mint)
	if err != nil {
		return InstructionAccounts{}, fmt.Errorf("failed to derive curve token account: %w", err)
	}
	userATA, _, err := solana.FindAssociatedTokenAddress(user, mint)
	if err != nil {
		return InstructionAccounts{}, fmt.Errorf("failed to derive user token account: %w", err)
	}
	feeRecipient := FeeRecipient
	if global != nil && !global.FeeRecipient.IsZero() {
		feeRecipient = global.FeeRecipient
	}
	return InstructionAccounts{
		Global:                 globalPDA,
		FeeRecipient:           feeRecipient,
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: curveATA,
		UserTokenAccount:       userATA,
		User:                   user,
	}, nil
}

// encodeTradeData packs opcode, amount and threshold little-endian.
func encodeTradeData(opcode byte, amount, threshold uint64) []byte {
	data := make([]byte, 17)
	data[0] = opcode
	binary.LittleEndian.PutUint64(data[1:9], amount)
	binary.LittleEndian.PutUint64(data[9:17], threshold)
	return data
}

// tradeAccountMetas builds the account list shared by buy and sell. The
// program requires this exact order.
func tradeAccountMetas(accounts InstructionAccounts) []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: accounts.Global, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.FeeRecipient, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Mint, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.BondingCurve, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.AssociatedBondingCurve, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.UserTokenAccount, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.User, IsWritable: true, IsSigner: true},
		{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		{PublicKey: EventAuthority, IsWritable: false, IsSigner: false},
		{PublicKey: ProgramID, IsWritable: false, IsSigner: false},
	}
}

// BuildBuyInstruction builds a buy: amount is the token amount to receive,
// maxSolCost the slippage-expanded lamport ceiling.
func BuildBuyInstruction(accounts InstructionAccounts, amount, maxSolCost uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		tradeAccountMetas(accounts),
		encodeTradeData(buyOpcode, amount, maxSolCost),
	)
}

// BuildSellInstruction builds a sell: amount is the token amount to sell,
// minSolOutput the slippage-shrunk lamport floor.
func BuildSellInstruction(accounts InstructionAccounts, amount, minSolOutput uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		tradeAccountMetas(accounts),
		encodeTradeData(sellOpcode, amount, minSolOutput),
	)
}
