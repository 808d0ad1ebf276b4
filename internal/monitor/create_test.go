package monitor

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/dex"
	"github.com/dexwatch/solsniper/internal/dex/pumpfun"
)

func appendString(data []byte, s string) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	data = append(data, lenBuf[:]...)
	return append(data, []byte(s)...)
}

func createInstructionData(name, symbol, uri string) []byte {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, pumpfun.CreateDiscriminator)
	data = appendString(data, name)
	data = appendString(data, symbol)
	data = appendString(data, uri)
	return data
}

// createTx builds a transaction whose single instruction targets the given
// program with the given data and eight instruction accounts.
func createTx(t *testing.T, program solana.PublicKey, data []byte) (*solana.Transaction, []solana.PublicKey) {
	t.Helper()

	keys := []solana.PublicKey{program}
	accountIndexes := make([]uint16, 8)
	for i := 0; i < 8; i++ {
		keys = append(keys, solana.NewWallet().PublicKey())
		accountIndexes[i] = uint16(i + 1)
	}

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1, 2, 3}},
		Message: solana.Message{
			AccountKeys: keys,
			Instructions: []solana.CompiledInstruction{
				{
					ProgramIDIndex: 0,
					Accounts:       accountIndexes,
					Data:           solana.Base58(data),
				},
			},
		},
	}
	return tx, keys[1:]
}

func TestScanTransactionForCreates(t *testing.T) {
	data := createInstructionData("Moon Token", "MOON", "https://example.com/moon.json")
	tx, accounts := createTx(t, pumpfun.ProgramID, data)

	events := ScanTransactionForCreates(tx, zap.NewNop())
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "Moon Token", event.Name)
	assert.Equal(t, "MOON", event.Symbol)
	assert.Equal(t, "https://example.com/moon.json", event.URI)
	assert.Equal(t, accounts[0], event.Mint)
	assert.Equal(t, accounts[2], event.BondingCurve)
	assert.Equal(t, accounts[3], event.AssociatedBondingCurve)
	assert.Equal(t, accounts[7], event.Creator)
	assert.Equal(t, tx.Signatures[0], event.Signature)
}

func TestScanTransactionWrongProgram(t *testing.T) {
	data := createInstructionData("Moon Token", "MOON", "uri")
	tx, _ := createTx(t, solana.NewWallet().PublicKey(), data)

	assert.Empty(t, ScanTransactionForCreates(tx, zap.NewNop()))
}

func TestScanTransactionWrongDiscriminator(t *testing.T) {
	data := createInstructionData("Moon Token", "MOON", "uri")
	binary.LittleEndian.PutUint64(data[:8], pumpfun.CreateDiscriminator+1)
	tx, _ := createTx(t, pumpfun.ProgramID, data)

	assert.Empty(t, ScanTransactionForCreates(tx, zap.NewNop()))
}

func TestScanTransactionTruncatedData(t *testing.T) {
	data := createInstructionData("Moon Token", "MOON", "uri")
	tx, _ := createTx(t, pumpfun.ProgramID, data[:12])

	// Decode failure skips the instruction; it never aborts the scan.
	assert.Empty(t, ScanTransactionForCreates(tx, zap.NewNop()))
}

func TestScanTransactionShortDiscriminator(t *testing.T) {
	tx, _ := createTx(t, pumpfun.ProgramID, []byte{1, 2, 3})
	assert.Empty(t, ScanTransactionForCreates(tx, zap.NewNop()))
}

func TestDecodeCreateInstructionTooFewAccounts(t *testing.T) {
	data := createInstructionData("n", "s", "u")
	accounts := []solana.PublicKey{solana.NewWallet().PublicKey()}

	_, err := decodeCreateInstruction(data, accounts)
	assert.ErrorIs(t, err, dex.ErrDecode)
}

func TestReadPrefixedString(t *testing.T) {
	data := appendString(nil, "hello")
	got, offset, err := readPrefixedString(data, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, len(data), offset)

	// Length prefix pointing past the buffer is a decode error.
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 100)
	_, _, err = readPrefixedString(lenBuf[:], 0)
	assert.ErrorIs(t, err, dex.ErrDecode)

	// Invalid UTF-8 is rejected.
	bad := appendString(nil, "")
	bad = append(bad[:4], 0xff, 0xfe)
	binary.LittleEndian.PutUint32(bad[:4], 2)
	_, _, err = readPrefixedString(bad, 0)
	assert.ErrorIs(t, err, dex.ErrDecode)
}
