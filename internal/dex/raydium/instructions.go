// ==============================
// File: internal/dex/raydium/instructions.go
// ==============================
package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// encodeSwapData packs the instruction tag and the two little-endian u64
// arguments. Exact-in carries (amount_in, min_amount_out); exact-out carries
// (max_amount_in, amount_out).
func encodeSwapData(tag byte, first, second uint64) []byte {
	data := make([]byte, 17)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:9], first)
	binary.LittleEndian.PutUint64(data[9:17], second)
	return data
}

// swapAccountMetas builds the 17-account list shared by both swap variants.
// The order is part of the external protocol.
func swapAccountMetas(info *SwapInfoResult, userSource, userDestination, userOwner solana.PublicKey) []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: info.PoolID, IsWritable: true, IsSigner: false},
		{PublicKey: info.AmmAuthority, IsWritable: false, IsSigner: false},
		{PublicKey: info.AmmOpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: info.AmmCoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: info.AmmPcVault, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketProgram, IsWritable: false, IsSigner: false},
		{PublicKey: info.Market, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketBids, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketAsks, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketEventQueue, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketCoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketPcVault, IsWritable: true, IsSigner: false},
		{PublicKey: info.MarketVaultSigner, IsWritable: false, IsSigner: false},
		{PublicKey: userSource, IsWritable: true, IsSigner: false},
		{PublicKey: userDestination, IsWritable: true, IsSigner: false},
		{PublicKey: userOwner, IsWritable: false, IsSigner: true},
	}
}

// BuildSwapBaseInInstruction builds an exact-in swap: spend amountIn, accept
// no less than minAmountOut.
func BuildSwapBaseInInstruction(info *SwapInfoResult, userSource, userDestination, userOwner solana.PublicKey, amountIn, minAmountOut uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		swapAccountMetas(info, userSource, userDestination, userOwner),
		encodeSwapData(swapBaseInTag, amountIn, minAmountOut),
	)
}

// BuildSwapBaseOutInstruction builds an exact-out swap: receive amountOut,
// spend no more than maxAmountIn.
func BuildSwapBaseOutInstruction(info *SwapInfoResult, userSource, userDestination, userOwner solana.PublicKey, maxAmountIn, amountOut uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		swapAccountMetas(info, userSource, userDestination, userOwner),
		encodeSwapData(swapBaseOutTag, maxAmountIn, amountOut),
	)
}

// DeriveSeededWSOLAccount derives a throwaway WSOL account address from the
// owner and a fresh entropy pubkey. The seed is the first 32 characters of
// the entropy key's base58 form.
func DeriveSeededWSOLAccount(owner, entropy solana.PublicKey) (account solana.PublicKey, seed string, err error) {
	seed = entropy.String()[:32]
	account, err = solana.CreateWithSeed(owner, seed, solana.TokenProgramID)
	if err != nil {
		return solana.PublicKey{}, "", fmt.Errorf("failed to derive seeded account: %w", err)
	}
	return account, seed, nil
}

// BuildCreateAccountWithSeedInstruction builds the system program's
// create_account_with_seed. Data is bincode: u32 tag 3, base pubkey,
// u64-length-prefixed seed, lamports, space, owner program.
func BuildCreateAccountWithSeedInstruction(funder, newAccount, base solana.PublicKey, seed string, lamports, space uint64, owner solana.PublicKey) solana.Instruction {
	data := make([]byte, 0, 4+32+8+len(seed)+8+8+32)
	var u32buf [4]byte
	binary.LittleEndian.PutUint32(u32buf[:], 3)
	data = append(data, u32buf[:]...)
	data = append(data, base.Bytes()...)
	var u64buf [8]byte
	binary.LittleEndian.PutUint64(u64buf[:], uint64(len(seed)))
	data = append(data, u64buf[:]...)
	data = append(data, []byte(seed)...)
	binary.LittleEndian.PutUint64(u64buf[:], lamports)
	data = append(data, u64buf[:]...)
	binary.LittleEndian.PutUint64(u64buf[:], space)
	data = append(data, u64buf[:]...)
	data = append(data, owner.Bytes()...)

	metas := []*solana.AccountMeta{
		{PublicKey: funder, IsWritable: true, IsSigner: true},
		{PublicKey: newAccount, IsWritable: true, IsSigner: false},
	}
	if !base.Equals(funder) {
		metas = append(metas, &solana.AccountMeta{PublicKey: base, IsWritable: false, IsSigner: true})
	}
	return solana.NewInstruction(solana.SystemProgramID, metas, data)
}

// BuildInitializeTokenAccountInstruction builds the SPL token program's
// initialize_account (tag 1).
func BuildInitializeTokenAccountInstruction(account, mint, owner solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: account, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		[]byte{1},
	)
}

// BuildCloseTokenAccountInstruction builds the SPL token program's
// close_account (tag 9), returning the lamports to dest.
func BuildCloseTokenAccountInstruction(account, dest, owner solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: account, IsWritable: true, IsSigner: false},
			{PublicKey: dest, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: true},
		},
		[]byte{9},
	)
}
