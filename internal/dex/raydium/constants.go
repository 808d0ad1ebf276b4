// ==============================
// File: internal/dex/raydium/constants.go
// ==============================
package raydium

import "github.com/gagliardetto/solana-go"

// ProgramID is the Raydium constant-product AMM v4 program.
var ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

// authoritySeed derives the pool authority PDA together with the pool's nonce.
var authoritySeed = []byte("amm authority")

// Swap instruction tags of the AMM program.
const (
	swapBaseInTag  byte = 9
	swapBaseOutTag byte = 11
)

// AmmInfoSize is the exact serialized size of the pool state account.
const AmmInfoSize = 752

// splTokenAccountSize is the serialized size of an SPL token account.
const splTokenAccountSize = 165
