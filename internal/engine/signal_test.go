package engine

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMint(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	pk, ok := ExtractMint("snipe " + mint.String() + " now")
	require.True(t, ok)
	assert.Equal(t, mint, pk)
}

func TestExtractMintFirstWins(t *testing.T) {
	first := solana.NewWallet().PublicKey()
	second := solana.NewWallet().PublicKey()

	pk, ok := ExtractMint(first.String() + " " + second.String())
	require.True(t, ok)
	assert.Equal(t, first, pk)
}

func TestExtractMintNoCandidate(t *testing.T) {
	for _, text := range []string{
		"",
		"gm everyone",
		"0x52908400098527886E0F7030069857D2E4169EE7", // hex, not base58
		"short1short1short1",                         // under minimum length
	} {
		_, ok := ExtractMint(text)
		assert.False(t, ok, "text %q", text)
	}
}
