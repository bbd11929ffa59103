// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package flat rebuilds the hierarchical call tree of one executed
// transaction from its linear instruction trace, reporting it as the ordered
// list of flat records used by the trace APIs.
package flat

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/doytsujin/besu/besu"
	"github.com/doytsujin/besu/debug"
)

// gas charged per byte of code deposited by a successful contract creation
const depositGasPerByte = 200

// Generate converts the frame list of a fully executed transaction into flat
// trace records, in the order the corresponding calls were entered. The frame
// list must honor the contract of debug.TransactionTrace; a call or create
// frame without a successor, or a frame whose stack is too shallow to resolve
// an operand address, aborts the conversion with an error since recovering
// would corrupt the tree positions and gas accounting of later records.
func Generate(txTrace *debug.TransactionTrace) ([]FlatTrace, error) {
	g := &generator{txTrace: txTrace}
	return g.run()
}

// generator owns the context stack and the emitted record buffer for the
// duration of one conversion. It is single use.
type generator struct {
	txTrace  *debug.TransactionTrace
	contexts contextStack
	traces   []*FlatTrace

	// running total of gas charged by all frames walked so far. Never reset:
	// each context captures the total at entry (negated) and adds the total
	// at exit, which nets out to the gas spent strictly inside that context
	// regardless of sibling contexts opening and closing in between.
	cumulativeGas int64

	// address of the contract deployed by a creation transaction
	createdAddress *besu.Address
}

func (g *generator) run() ([]FlatTrace, error) {
	tx := g.txTrace.Transaction

	root := &FlatTrace{
		Type:         TypeCall,
		TraceAddress: []int{},
		Result:       &Result{},
		Action: Action{
			From:  addressPtr(tx.Sender),
			Value: valueOrZero(tx.Value),
		},
	}
	if len(g.txTrace.Frames) > 0 {
		root.Action.Gas = gasPtr(g.txTrace.Frames[0].GasRemaining)
	} else {
		root.Action.Gas = gasPtr(tx.Gas)
	}

	if tx.IsCreation() {
		root.Type = TypeCreate
		root.Action.Init = bytesOrEmpty(tx.Data)
		created := besu.CreateContractAddress(tx.Sender, tx.Nonce)
		g.createdAddress = &created
		root.Result.Address = &created
		root.Result.Code = bytesOrEmpty(g.txTrace.Result.Output)
	} else {
		root.Action.To = tx.To
		root.Action.CallType = CallTypeCall
		root.Action.Input = bytesOrEmpty(tx.Data)
	}

	g.contexts.push(newContext(root))
	g.traces = append(g.traces, root)

	for i := range g.txTrace.Frames {
		frame := &g.txTrace.Frames[i]
		g.cumulativeGas += int64(frame.GasCost)

		var err error
		switch op := frame.Op; op {
		case "CALL", "CALLCODE", "DELEGATECALL", "STATICCALL":
			err = g.handleCall(i, strings.ToLower(op))
		case "RETURN", "STOP":
			if current := g.contexts.peek(); current != nil {
				current.gasUsed += g.cumulativeGas
				g.handleReturn(frame, current)
			}
		case "SELFDESTRUCT":
			err = g.handleSelfDestruct(frame)
		case "CREATE", "CREATE2":
			err = g.handleCreate(i)
		case "REVERT":
			if current := g.contexts.peek(); current != nil {
				current.trace.Error = "Reverted"
			}
		default:
			if len(frame.HaltReasons) > 0 {
				if current := g.contexts.peek(); current != nil {
					current.trace.Error = strings.Join(frame.HaltReasons, ", ")
				}
			}
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "frame %d", i)
		}
	}

	out := make([]FlatTrace, 0, len(g.traces))
	for _, t := range g.traces {
		// errored records report no result
		if t.Error != "" {
			t.Result = nil
		}
		out = append(out, *t)
	}
	return out, nil
}

// handleCall opens a context for a call-family instruction, unless the target
// lies in the reserved precompile range, in which case the call stays
// invisible in the report.
func (g *generator) handleCall(frameIndex int, callType string) error {
	frame := &g.txTrace.Frames[frameIndex]
	next, err := g.successor(frameIndex)
	if err != nil {
		return err
	}
	if len(frame.Stack) < 2 {
		return errors.Errorf("%s: stack too shallow to resolve call target", frame.Op)
	}
	callAddress := wordToAddress(&frame.Stack[len(frame.Stack)-2])
	if isPrecompile(callAddress) {
		return nil
	}

	from := g.callerAddress()
	trace := &FlatTrace{
		Type:         TypeCall,
		TraceAddress: g.contexts.traceAddress(),
		Result:       &Result{},
		Action: Action{
			From:     &from,
			To:       &callAddress,
			CallType: callType,
			Input:    bytesPtr(next.Input),
			Gas:      gasPtr(next.GasRemaining),
			Value:    valueOrZero(g.txTrace.Transaction.Value),
		},
	}

	g.openContext(newContext(trace))
	return nil
}

// handleCreate opens a context for a nested CREATE/CREATE2. The deployed code
// and address are filled in by the matching return frame.
func (g *generator) handleCreate(frameIndex int) error {
	next, err := g.successor(frameIndex)
	if err != nil {
		return err
	}

	from := g.callerAddress()
	trace := &FlatTrace{
		Type:         TypeCreate,
		TraceAddress: g.contexts.traceAddress(),
		Result:       &Result{},
		Action: Action{
			From:  &from,
			Gas:   gasPtr(next.GasRemaining),
			Value: valueOrZero(g.txTrace.Transaction.Value),
		},
	}

	ctx := newContext(trace)
	ctx.createOp = true
	g.openContext(ctx)
	return nil
}

// handleReturn closes the innermost context on RETURN/STOP. The caller has
// already folded the cumulative gas total into the context.
func (g *generator) handleReturn(frame *debug.TraceFrame, current *context) {
	if len(g.contexts) == 1 {
		// the frame-level accounting can under-report the transaction total
		// (end-of-transaction refunds); trust the gas-remaining difference
		// when it is larger
		current.gasUsed = g.transactionGasUsed(current.gasUsed)
	}
	trace := current.trace
	if trace.Result.Code == nil {
		trace.Result.Output = bytesOrEmpty(frame.Output)
	}
	// creation frames carry the code being deployed; this covers creation
	// transactions as well as CREATE/CREATE2
	if trace.Action.CallType == "" && frame.Code != nil {
		trace.Action.Init = bytesOrEmpty(frame.Code)
		trace.Result.Code = bytesOrEmpty(frame.Output)
		if frame.Recipient != nil {
			trace.Result.Address = frame.Recipient
		}
		if current.createOp {
			current.gasUsed += int64(len(frame.Output)) * depositGasPerByte
		}
	}
	current.close()
	g.contexts.pop()
	if parent := g.contexts.peek(); parent != nil {
		parent.trace.Subtraces++
	}
}

// handleSelfDestruct emits an already-final suicide record as a child of the
// terminating context, then closes that context.
func (g *generator) handleSelfDestruct(frame *debug.TraceFrame) error {
	current := g.contexts.peek()
	if current == nil {
		return errors.Errorf("%s: no open call context", frame.Op)
	}
	if len(frame.Stack) < 1 {
		return errors.Errorf("%s: stack too shallow to resolve refund target", frame.Op)
	}
	current.gasUsed += g.cumulativeGas

	refundAddress := wordToAddress(&frame.Stack[0])
	balance := big.NewInt(0)
	if refund, ok := frame.Refunds[refundAddress]; ok && refund != nil {
		balance.Set(refund)
	}

	// the self-destructing account is resolved from the terminating context's
	// own call type: plain calls execute at 'to', delegate-style calls at 'from'
	action := &current.trace.Action
	var selfAddress besu.Address
	if action.CallType == CallTypeCall {
		selfAddress = *action.To
	} else if action.From != nil {
		selfAddress = *action.From
	}

	g.traces = append(g.traces, &FlatTrace{
		Type: TypeSuicide,
		// includes the terminating context's own count: the suicide is
		// logically its last child
		TraceAddress: g.contexts.traceAddress(),
		Action: Action{
			Address:       &selfAddress,
			RefundAddress: &refundAddress,
			Balance:       (*hexutil.Big)(balance),
		},
	})

	closing := g.contexts.pop()
	closing.close()
	closing.trace.Subtraces++
	if parent := g.contexts.peek(); parent != nil {
		parent.trace.Subtraces++
	}
	return nil
}

// openContext records the entry snapshot of the gas counter and emits the
// in-progress record.
func (g *generator) openContext(ctx *context) {
	ctx.gasUsed -= g.cumulativeGas
	g.contexts.push(ctx)
	g.traces = append(g.traces, ctx.trace)
}

// callerAddress resolves the 'from' of a new sub-call. A creation transaction
// in progress keeps attributing sub-calls to the deployed address; otherwise
// the caller identity follows the innermost context's call type, since
// delegate and code calls execute with the caller's own identity.
func (g *generator) callerAddress() besu.Address {
	if g.createdAddress != nil {
		return *g.createdAddress
	}
	last := g.contexts.peek()
	if last == nil {
		return besu.Address{}
	}
	action := &last.trace.Action
	switch action.CallType {
	case CallTypeCall, CallTypeStaticCall:
		return *action.To
	case CallTypeDelegateCall, CallTypeCallCode:
		return *action.From
	default:
		return besu.Address{}
	}
}

// successor returns the frame entered by the call/create at frameIndex.
func (g *generator) successor(frameIndex int) (*debug.TraceFrame, error) {
	if frameIndex+1 >= len(g.txTrace.Frames) {
		return nil, errors.Errorf("%s not followed by an entered frame", g.txTrace.Frames[frameIndex].Op)
	}
	return &g.txTrace.Frames[frameIndex+1], nil
}

// transactionGasUsed computes the authoritative transaction-level gas usage
// from the gas remaining before the first instruction and after the final
// result, falling back to the accumulated delta when the difference is not
// positive.
func (g *generator) transactionGasUsed(fallback int64) int64 {
	first := int64(g.txTrace.Frames[0].GasRemaining)
	after := int64(g.txTrace.Result.GasRemaining)
	if first > after {
		return first - after
	}
	return fallback
}

// isPrecompile reports whether addr lies in the reserved precompiled-contract
// range, i.e. its numeric value fits in the single trailing byte.
func isPrecompile(addr besu.Address) bool {
	for _, b := range addr[:besu.AddressLength-1] {
		if b != 0 {
			return false
		}
	}
	return true
}

func wordToAddress(word *uint256.Int) besu.Address {
	return besu.Address(word.Bytes20())
}

func addressPtr(addr besu.Address) *besu.Address {
	return &addr
}

func gasPtr(gas uint64) *hexutil.Uint64 {
	g := hexutil.Uint64(gas)
	return &g
}

// bytesPtr preserves absence: a nil slice stays absent in the record.
func bytesPtr(b []byte) *hexutil.Bytes {
	if b == nil {
		return nil
	}
	h := hexutil.Bytes(b)
	return &h
}

// bytesOrEmpty always yields a value, rendering empty payloads as "0x".
func bytesOrEmpty(b []byte) *hexutil.Bytes {
	h := hexutil.Bytes(b)
	return &h
}

func valueOrZero(v *big.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(new(big.Int))
	}
	return (*hexutil.Big)(v)
}
