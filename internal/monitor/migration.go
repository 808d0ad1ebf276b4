// internal/monitor/migration.go
package monitor

import (
	"strings"

	"github.com/gagliardetto/solana-go"
)

// migrationLogMarker appears in the log output of the AMM's pool
// initialization instruction.
const migrationLogMarker = "Program log: initialize2: InitializeInstruction2"

// Static account positions of the initialize2 instruction.
const (
	migrationLiquidityIndex = 2
	migrationCoinMintIndex  = 18
	migrationPcMintIndex    = 19
	migrationMinAccounts    = 20
)

// HasMigrationMarker reports whether any log line carries the pool
// initialization marker. The match is exact substring; the marker text is
// part of the external protocol surface.
func HasMigrationMarker(logs []string) bool {
	for _, line := range logs {
		if strings.Contains(line, migrationLogMarker) {
			return true
		}
	}
	return false
}

// DecodeMigrationTransaction pulls the migrated mints and the new liquidity
// account from fixed account positions. Transactions with too few accounts
// yield nothing.
func DecodeMigrationTransaction(tx *solana.Transaction) *MigrationEvent {
	keys := tx.Message.AccountKeys
	if len(keys) < migrationMinAccounts {
		return nil
	}
	event := &MigrationEvent{
		CoinMint:  keys[migrationCoinMintIndex],
		PcMint:    keys[migrationPcMintIndex],
		Liquidity: keys[migrationLiquidityIndex],
	}
	if len(tx.Signatures) > 0 {
		event.Signature = tx.Signatures[0]
	}
	return event
}
