// internal/monitor/create.go
package monitor

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/dex"
	"github.com/dexwatch/solsniper/internal/dex/pumpfun"
)

// Instruction account positions of the create instruction.
const (
	createMintIndex         = 0
	createBondingCurveIndex = 2
	createCurveATAIndex     = 3
	createUserIndex         = 7
	createMinAccounts       = 8
)

// readPrefixedString decodes a u32-length-prefixed UTF-8 string and returns
// the advanced offset.
func readPrefixedString(data []byte, offset int) (string, int, error) {
	if offset+4 > len(data) {
		return "", 0, fmt.Errorf("%w: string length prefix out of bounds", dex.ErrDecode)
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if offset+length > len(data) {
		return "", 0, fmt.Errorf("%w: string body out of bounds", dex.ErrDecode)
	}
	raw := data[offset : offset+length]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%w: string is not valid utf-8", dex.ErrDecode)
	}
	return string(raw), offset + length, nil
}

// decodeCreateInstruction parses the create instruction's argument record
// (name, symbol, uri) and pulls the event accounts from fixed positions.
func decodeCreateInstruction(data []byte, accounts []solana.PublicKey) (*CreateEvent, error) {
	if len(accounts) < createMinAccounts {
		return nil, fmt.Errorf("%w: create instruction has %d accounts, want at least %d", dex.ErrDecode, len(accounts), createMinAccounts)
	}

	event := &CreateEvent{}
	offset := 8 // discriminator
	var err error
	if event.Name, offset, err = readPrefixedString(data, offset); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if event.Symbol, offset, err = readPrefixedString(data, offset); err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	if event.URI, _, err = readPrefixedString(data, offset); err != nil {
		return nil, fmt.Errorf("uri: %w", err)
	}

	event.Mint = accounts[createMintIndex]
	event.BondingCurve = accounts[createBondingCurveIndex]
	event.AssociatedBondingCurve = accounts[createCurveATAIndex]
	event.Creator = accounts[createUserIndex]
	return event, nil
}

// ScanTransactionForCreates walks a transaction's top-level instructions and
// decodes every bonding curve launch it carries.
func ScanTransactionForCreates(tx *solana.Transaction, logger *zap.Logger) []*CreateEvent {
	var events []*CreateEvent
	keys := tx.Message.AccountKeys

	for _, instruction := range tx.Message.Instructions {
		if int(instruction.ProgramIDIndex) >= len(keys) {
			continue
		}
		if !keys[instruction.ProgramIDIndex].Equals(pumpfun.ProgramID) {
			continue
		}
		data := []byte(instruction.Data)
		if len(data) < 8 {
			continue
		}
		if binary.LittleEndian.Uint64(data[:8]) != pumpfun.CreateDiscriminator {
			continue
		}

		accounts := make([]solana.PublicKey, 0, len(instruction.Accounts))
		valid := true
		for _, idx := range instruction.Accounts {
			if int(idx) >= len(keys) {
				valid = false
				break
			}
			accounts = append(accounts, keys[idx])
		}
		if !valid {
			logger.Debug("Create instruction references out-of-range account, skipping")
			continue
		}

		event, err := decodeCreateInstruction(data, accounts)
		if err != nil {
			logger.Debug("Failed to decode create instruction", zap.Error(err))
			continue
		}
		if len(tx.Signatures) > 0 {
			event.Signature = tx.Signatures[0]
		}
		events = append(events, event)
	}
	return events
}
