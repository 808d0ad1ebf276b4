// =============================
// File: internal/dex/pumpfun/constants.go
// =============================
package pumpfun

import "github.com/gagliardetto/solana-go"

// Well-known pump.fun program addresses.
var (
	// ProgramID is the pump.fun bonding curve program.
	ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// FeeRecipient receives the protocol fee on every trade.
	FeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	// EventAuthority is the program's event CPI authority.
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHGTTaQQLN6ZXY3z9j8f8kR")

	// MigrationAuthority signs the migration of a completed curve to Raydium.
	MigrationAuthority = solana.MustPublicKeyFromBase58("39azUYFWPz3VHgKCf3VChUwbpURdCHRxjWVowf5jUJjg")
)

// PDA seeds.
var (
	globalSeed       = []byte("global")
	bondingCurveSeed = []byte("bonding-curve")
)

// Instruction opcodes. The program dispatches buy and sell on a single
// leading byte.
const (
	buyOpcode  byte = 102
	sellOpcode byte = 51
)

// CreateDiscriminator is the 8-byte discriminator of the create instruction,
// read as little-endian u64 from instruction data.
const CreateDiscriminator uint64 = 0x77071C0528C81E18

// Minimum account data sizes accepted by the decoders.
const (
	bondingCurveAccountSize = 49
	globalAccountSize       = 113
)
