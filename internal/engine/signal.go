// internal/engine/signal.go
package engine

import (
	"regexp"

	"github.com/gagliardetto/solana-go"
)

// Side is the direction of a trade signal.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeSignal asks the pipeline for one trade. Consumed at most once; there
// is no redelivery.
type TradeSignal struct {
	Mint solana.PublicKey
	Side Side

	// Pool routes the trade through an AMM pool instead of the bonding
	// curve when set.
	Pool solana.PublicKey
}

// base58Candidate matches base58 runs of plausible address length.
var base58Candidate = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

// ExtractMint finds the first parseable address in free-form text. Candidate
// runs that fail base58 decoding are skipped rather than reported.
func ExtractMint(text string) (solana.PublicKey, bool) {
	for _, candidate := range base58Candidate.FindAllString(text, -1) {
		pk, err := solana.PublicKeyFromBase58(candidate)
		if err != nil {
			continue
		}
		return pk, true
	}
	return solana.PublicKey{}, false
}
