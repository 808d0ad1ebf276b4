// internal/monitor/events.go
package monitor

import "github.com/gagliardetto/solana-go"

// CreateEvent is emitted when a new token launches on the bonding curve.
type CreateEvent struct {
	Slot      uint64
	Signature solana.Signature

	Name   string
	Symbol string
	URI    string

	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	Creator                solana.PublicKey
}

// MigrationEvent is emitted when a completed bonding curve migrates its
// liquidity into an AMM pool.
type MigrationEvent struct {
	Slot      uint64
	Signature solana.Signature

	CoinMint  solana.PublicKey
	PcMint    solana.PublicKey
	Liquidity solana.PublicKey
}
