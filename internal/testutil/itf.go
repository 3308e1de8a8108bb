package testutil

import (
	"fmt"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
	"github.com/roach88/bankcheck/internal/trace"
)

// State builds a bank state from alternating owner, balance arguments.
//
//	State("alice", 100, "bob", 5)
func State(kv ...any) *bank.State {
	s := bank.NewState()
	for i := 0; i+1 < len(kv); i += 2 {
		s.Balances[kv[i].(string)] = toInt64(kv[i+1])
	}
	return s
}

// WithInvestment returns a copy of s holding investment id and NextID
// advanced past it when needed.
func WithInvestment(s *bank.State, id int64, owner string, amount int64) *bank.State {
	c := s.Clone()
	c.Investments[id] = bank.Investment{Owner: owner, Amount: amount}
	if c.NextID <= id {
		c.NextID = id + 1
	}
	return c
}

// Picks are step arguments. Strings become ITF strings and integers become
// bigints, each wrapped in a Some option.
type Picks map[string]any

// TraceBuilder assembles an ITF trace step by step.
type TraceBuilder struct {
	steps []trace.Step
}

// NewTrace starts a trace whose init step expects initial.
func NewTrace(initial *bank.State) *TraceBuilder {
	b := &TraceBuilder{}
	return b.Step(bank.ActionInit.Tag(), nil, initial, "")
}

// Step appends a step with its expected state and expected error.
func (b *TraceBuilder) Step(action string, picks Picks, expected *bank.State, errMsg string) *TraceBuilder {
	rec := itf.Record{}
	for name, v := range picks {
		rec[name] = trace.Some(pickValue(v))
	}
	errVal := trace.None()
	if errMsg != "" {
		errVal = trace.Some(itf.String(errMsg))
	}
	b.steps = append(b.steps, trace.Step{
		Index:  len(b.steps),
		Action: action,
		Picks:  rec,
		State:  trace.EncodeState(expected),
		Error:  errVal,
	})
	return b
}

// RawStep appends a step with hand-built values, for malformed traces.
func (b *TraceBuilder) RawStep(action string, picks itf.Record, state, errVal itf.Value) *TraceBuilder {
	b.steps = append(b.steps, trace.Step{
		Index:  len(b.steps),
		Action: action,
		Picks:  picks,
		State:  state,
		Error:  errVal,
	})
	return b
}

// Trace returns the built trace.
func (b *TraceBuilder) Trace(id string) *trace.Trace {
	steps := make([]trace.Step, len(b.steps))
	copy(steps, b.steps)
	return &trace.Trace{ID: id, Steps: steps}
}

// JSON returns the trace as a canonical ITF document.
func (b *TraceBuilder) JSON() []byte {
	data, err := itf.MarshalCanonical(b.Trace("").Encode())
	if err != nil {
		panic(fmt.Sprintf("testutil: encode trace: %v", err))
	}
	return data
}

// Source returns the trace as an in-memory source.
func (b *TraceBuilder) Source(id string) trace.Source {
	return trace.StaticSource{Trace: b.Trace(id)}
}

func pickValue(v any) itf.Value {
	switch x := v.(type) {
	case string:
		return itf.String(x)
	case itf.Value:
		return x
	default:
		return itf.NewInt(toInt64(v))
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	default:
		panic(fmt.Sprintf("testutil: unsupported integer %T", v))
	}
}
