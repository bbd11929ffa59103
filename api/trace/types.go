// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trace

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/doytsujin/besu/besu"
	"github.com/doytsujin/besu/debug"
)

// Transaction is the wire form of the traced transaction.
type Transaction struct {
	Sender besu.Address          `json:"sender"`
	To     *besu.Address         `json:"to"`
	Nonce  math.HexOrDecimal64   `json:"nonce"`
	Value  *math.HexOrDecimal256 `json:"value"`
	Data   hexutil.Bytes         `json:"data"`
	Gas    math.HexOrDecimal64   `json:"gas"`
}

// Frame is the wire form of one instruction snapshot.
type Frame struct {
	Op           string                                 `json:"op"`
	GasCost      math.HexOrDecimal64                    `json:"gasCost"`
	GasRemaining math.HexOrDecimal64                    `json:"gasRemaining"`
	Stack        []uint256.Int                          `json:"stack,omitempty"`
	Input        hexutil.Bytes                          `json:"input,omitempty"`
	Output       hexutil.Bytes                          `json:"output,omitempty"`
	Code         hexutil.Bytes                          `json:"code,omitempty"`
	Recipient    *besu.Address                          `json:"recipient,omitempty"`
	Refunds      map[besu.Address]*math.HexOrDecimal256 `json:"refunds,omitempty"`
	HaltReasons  []string                               `json:"haltReasons,omitempty"`
}

// ExecutionResult is the wire form of the final outcome.
type ExecutionResult struct {
	Output       hexutil.Bytes       `json:"output"`
	GasRemaining math.HexOrDecimal64 `json:"gasRemaining"`
}

// TransactionTrace is the request body of the flat trace endpoint.
type TransactionTrace struct {
	Transaction *Transaction    `json:"transaction"`
	Frames      []Frame         `json:"frames"`
	Result      ExecutionResult `json:"result"`
}

func (t *TransactionTrace) toTrace() (*debug.TransactionTrace, error) {
	if t.Transaction == nil {
		return nil, errors.New("transaction: missing")
	}

	tx := &debug.Transaction{
		Sender: t.Transaction.Sender,
		To:     t.Transaction.To,
		Nonce:  uint64(t.Transaction.Nonce),
		Data:   t.Transaction.Data,
		Gas:    uint64(t.Transaction.Gas),
	}
	if t.Transaction.Value != nil {
		tx.Value = (*big.Int)(t.Transaction.Value)
	}

	frames := make([]debug.TraceFrame, 0, len(t.Frames))
	for i, f := range t.Frames {
		if f.Op == "" {
			return nil, errors.Errorf("frames[%d]: missing op", i)
		}
		frame := debug.TraceFrame{
			Op:           f.Op,
			GasCost:      uint64(f.GasCost),
			GasRemaining: uint64(f.GasRemaining),
			Stack:        f.Stack,
			Input:        f.Input,
			Output:       f.Output,
			Code:         f.Code,
			Recipient:    f.Recipient,
			HaltReasons:  f.HaltReasons,
		}
		if len(f.Refunds) > 0 {
			frame.Refunds = make(map[besu.Address]*big.Int, len(f.Refunds))
			for addr, amount := range f.Refunds {
				frame.Refunds[addr] = (*big.Int)(amount)
			}
		}
		frames = append(frames, frame)
	}

	return &debug.TransactionTrace{
		Transaction: tx,
		Frames:      frames,
		Result: debug.ExecutionResult{
			Output:       t.Result.Output,
			GasRemaining: uint64(t.Result.GasRemaining),
		},
	}, nil
}
