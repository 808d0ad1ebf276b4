package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstructionAccounts(t *testing.T) InstructionAccounts {
	t.Helper()
	mint := solana.MustPublicKeyFromBase58("8vbjWGXKhrKfVMCXpLrUGyUUHKNfmvRiuT2Dn2h1pump")
	user := solana.NewWallet().PublicKey()
	accounts, err := DeriveInstructionAccounts(mint, user, nil)
	require.NoError(t, err)
	return accounts
}

func TestBuildBuyInstructionData(t *testing.T) {
	accounts := testInstructionAccounts(t)
	ix := BuildBuyInstruction(accounts, 19_801, 10_100)

	assert.Equal(t, ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, buyOpcode, data[0])
	assert.Equal(t, uint64(19_801), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(10_100), binary.LittleEndian.Uint64(data[9:17]))
}

func TestBuildSellInstructionData(t *testing.T) {
	accounts := testInstructionAccounts(t)
	ix := BuildSellInstruction(accounts, 5_000, 4_900)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, sellOpcode, data[0])
	assert.Equal(t, uint64(5_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(4_900), binary.LittleEndian.Uint64(data[9:17]))
}

func TestTradeInstructionAccountOrder(t *testing.T) {
	accounts := testInstructionAccounts(t)
	ix := BuildBuyInstruction(accounts, 1, 1)

	metas := ix.Accounts()
	require.Len(t, metas, 12)

	assert.Equal(t, accounts.Global, metas[0].PublicKey)
	assert.Equal(t, accounts.FeeRecipient, metas[1].PublicKey)
	assert.Equal(t, accounts.Mint, metas[2].PublicKey)
	assert.Equal(t, accounts.BondingCurve, metas[3].PublicKey)
	assert.Equal(t, accounts.AssociatedBondingCurve, metas[4].PublicKey)
	assert.Equal(t, accounts.UserTokenAccount, metas[5].PublicKey)
	assert.Equal(t, accounts.User, metas[6].PublicKey)
	assert.Equal(t, solana.SystemProgramID, metas[7].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[8].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, metas[9].PublicKey)
	assert.Equal(t, EventAuthority, metas[10].PublicKey)
	assert.Equal(t, ProgramID, metas[11].PublicKey)

	// Mutability and signer flags the program checks.
	assert.True(t, metas[1].IsWritable)
	assert.True(t, metas[3].IsWritable)
	assert.True(t, metas[4].IsWritable)
	assert.True(t, metas[5].IsWritable)
	assert.True(t, metas[6].IsWritable)
	assert.True(t, metas[6].IsSigner)
	assert.False(t, metas[0].IsSigner)
}

func TestDeriveInstructionAccountsFeeRecipientOverride(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("8vbjWGXKhrKfVMCXpLrUGyUUHKNfmvRiuT2Dn2h1pump")
	user := solana.NewWallet().PublicKey()

	// Default comes from the hardcoded recipient.
	accounts, err := DeriveInstructionAccounts(mint, user, nil)
	require.NoError(t, err)
	assert.Equal(t, FeeRecipient, accounts.FeeRecipient)

	// A populated global account wins.
	custom := solana.NewWallet().PublicKey()
	accounts, err = DeriveInstructionAccounts(mint, user, &GlobalAccount{FeeRecipient: custom})
	require.NoError(t, err)
	assert.Equal(t, custom, accounts.FeeRecipient)
}
