// ==========================
// File: internal/dex/errors.go
// ==========================
package dex

import "errors"

// Error taxonomy shared by the state readers, pricing math and transaction
// builders. Callers classify with errors.Is; every layer wraps with %w so the
// sentinel survives the trip up the stack.
var (
	// ErrDecode indicates a malformed or unexpected binary layout.
	ErrDecode = errors.New("decode error")

	// ErrAccountNotFound indicates the requested account does not exist on chain.
	ErrAccountNotFound = errors.New("account not found")

	// ErrProgramMismatch indicates an opcode or program-id mismatch.
	ErrProgramMismatch = errors.New("program mismatch")

	// ErrProtocolClosed indicates the bonding curve has migrated and is
	// permanently closed to trading.
	ErrProtocolClosed = errors.New("protocol closed")

	// ErrAssetMismatch indicates the input asset matches neither pool mint.
	ErrAssetMismatch = errors.New("asset mismatch")

	// ErrArithmetic indicates checked overflow, underflow, division by zero or
	// an invalid fee fraction.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrRPC indicates a transport or node failure.
	ErrRPC = errors.New("rpc error")

	// ErrSimulationFailed indicates the simulated transaction errored.
	ErrSimulationFailed = errors.New("simulation failed")

	// ErrSubmissionFailed indicates the submitted transaction failed or was
	// never confirmed.
	ErrSubmissionFailed = errors.New("submission failed")
)
