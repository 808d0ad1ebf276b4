// internal/blockchain/solana/programs/computebudget/computebudget.go
package computebudget

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// Instruction tags of the compute budget program.
const (
	RequestUnitsDeprecated uint8 = 0
	RequestHeapFrame       uint8 = 1
	SetComputeUnitLimit    uint8 = 2
	SetComputeUnitPrice    uint8 = 3
)

// SetComputeUnitLimitInstruction caps the compute units a transaction may use.
type SetComputeUnitLimitInstruction struct {
	Units uint32
}

// SetComputeUnitPriceInstruction sets the priority fee in micro-lamports per
// compute unit.
type SetComputeUnitPriceInstruction struct {
	MicroLamports uint64
}

// DefaultUnits matches the runtime default per-instruction budget.
const DefaultUnits uint32 = 200_000

// Config carries the per-trade compute budget settings.
type Config struct {
	Units     uint32
	UnitPrice uint64
}

// BuildInstructions returns the budget instructions to prepend to a
// transaction: the unit limit followed by the unit price. Both are always
// emitted so the priority fee is explicit even at a zero price.
func BuildInstructions(config Config) ([]solana.Instruction, error) {
	if config.Units == 0 {
		config.Units = DefaultUnits
	}

	limitInstruction, err := (&SetComputeUnitLimitInstruction{Units: config.Units}).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
	}

	priceInstruction, err := (&SetComputeUnitPriceInstruction{MicroLamports: config.UnitPrice}).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
	}

	return []solana.Instruction{limitInstruction, priceInstruction}, nil
}

// Build encodes the unit limit instruction: tag byte then u32 little-endian.
func (instr *SetComputeUnitLimitInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitLimit); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.Units); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes()), nil
}

// Build encodes the unit price instruction: tag byte then u64 little-endian.
func (instr *SetComputeUnitPriceInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitPrice); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.MicroLamports); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes()), nil
}
