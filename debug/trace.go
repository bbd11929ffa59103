// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package debug holds the per-instruction execution snapshots recorded while
// a transaction runs. The values here are produced by the execution layer and
// consumed read-only by the trace converters.
package debug

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/doytsujin/besu/besu"
)

// Transaction carries the transaction-level inputs of a trace.
// A nil To marks a contract-creation transaction, in which case Data holds
// the creation code instead of the call payload.
type Transaction struct {
	Sender besu.Address
	To     *besu.Address
	Nonce  uint64
	Value  *big.Int
	Data   []byte
	Gas    uint64
}

// IsCreation returns whether the transaction deploys a contract.
func (t *Transaction) IsCreation() bool {
	return t.To == nil
}

// TraceFrame is the snapshot taken for one executed instruction.
//
// Stack is the operand stack before the instruction executed, bottom first,
// deep enough to resolve call and refund target addresses. Input carries the
// calldata of the frame entered by a call-family instruction, Output the
// return data of a return-family instruction, and Code the code about to be
// deployed by a creation frame. Refunds maps self-destruct beneficiaries to
// the balance transferred to them. HaltReasons is empty on the normal path.
type TraceFrame struct {
	Op           string
	GasCost      uint64
	GasRemaining uint64
	Stack        []uint256.Int
	Input        []byte
	Output       []byte
	Code         []byte
	Recipient    *besu.Address
	Refunds      map[besu.Address]*big.Int
	HaltReasons  []string
}

// ExecutionResult is the final outcome of the whole transaction.
type ExecutionResult struct {
	Output       []byte
	GasRemaining uint64
}

// TransactionTrace aggregates a fully executed transaction with its ordered
// frame list and final result. Frames are in exact execution order; a
// call-family or create-family frame is always followed by at least one frame
// for the entered context.
type TransactionTrace struct {
	Transaction *Transaction
	Frames      []TraceFrame
	Result      ExecutionResult
}
