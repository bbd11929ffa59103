// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package flat

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/doytsujin/besu/besu"
)

// trace record types
const (
	TypeCall    = "call"
	TypeCreate  = "create"
	TypeSuicide = "suicide"
)

// call types of call-family records
const (
	CallTypeCall         = "call"
	CallTypeCallCode     = "callcode"
	CallTypeDelegateCall = "delegatecall"
	CallTypeStaticCall   = "staticcall"
)

// Action describes what a call-tree node did. The populated fields depend on
// the record type: calls carry callType/to/input, creations carry init, and
// self-destructs carry address/refundAddress/balance.
type Action struct {
	CallType      string          `json:"callType,omitempty"`
	From          *besu.Address   `json:"from,omitempty"`
	To            *besu.Address   `json:"to,omitempty"`
	Gas           *hexutil.Uint64 `json:"gas,omitempty"`
	Value         *hexutil.Big    `json:"value,omitempty"`
	Input         *hexutil.Bytes  `json:"input,omitempty"`
	Init          *hexutil.Bytes  `json:"init,omitempty"`
	Address       *besu.Address   `json:"address,omitempty"`
	RefundAddress *besu.Address   `json:"refundAddress,omitempty"`
	Balance       *hexutil.Big    `json:"balance,omitempty"`
}

// Result describes the outcome of a normally completed call-tree node.
// It is absent from records that ended in an error.
type Result struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Output  *hexutil.Bytes `json:"output,omitempty"`
	Code    *hexutil.Bytes `json:"code,omitempty"`
	Address *besu.Address  `json:"address,omitempty"`
}

// FlatTrace is one record of the flattened call-tree report. TraceAddress
// locates the record in the tree as the path of child indexes from the root
// (empty for the root itself), and Subtraces counts its direct children.
type FlatTrace struct {
	Action       Action  `json:"action"`
	Error        string  `json:"error,omitempty"`
	Result       *Result `json:"result,omitempty"`
	Subtraces    int     `json:"subtraces"`
	TraceAddress []int   `json:"traceAddress"`
	Type         string  `json:"type"`
}

// context tracks one still-open call or creation while its frames are walked.
// gasUsed accumulates entry/exit deltas of the shared cumulative gas counter,
// so it is negative between open and close.
type context struct {
	trace    *FlatTrace
	gasUsed  int64
	createOp bool
}

func newContext(trace *FlatTrace) *context {
	return &context{trace: trace}
}

// close writes the accumulated gas into the record's result, if it has one.
func (c *context) close() {
	if c.trace.Result != nil {
		c.trace.Result.GasUsed = hexutil.Uint64(c.gasUsed)
	}
}

// contextStack mirrors the VM's live call stack. The bottom entry is the
// root transaction context, the top entry the innermost open call.
type contextStack []*context

func (s *contextStack) push(c *context) {
	*s = append(*s, c)
}

func (s *contextStack) pop() *context {
	old := *s
	if len(old) == 0 {
		return nil
	}
	c := old[len(old)-1]
	*s = old[:len(old)-1]
	return c
}

// peek returns the innermost open context without removing it, or nil.
func (s contextStack) peek() *context {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// traceAddress snapshots the current subtrace counts root-to-innermost.
// Evaluated before pushing a new context, this is exactly the tree path of
// the record being opened; evaluated as-is, it is the path of a self-destruct
// child of the innermost context.
func (s contextStack) traceAddress() []int {
	addr := make([]int, 0, len(s))
	for _, c := range s {
		addr = append(addr, c.trace.Subtraces)
	}
	return addr
}
