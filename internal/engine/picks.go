package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/bankcheck/internal/itf"
	"github.com/roach88/bankcheck/internal/trace"
)

// Picks are the nondeterministic arguments of a step, keyed by name. Each
// value is a record carrying the argument under "value", either bare
// ({"value": v}) or as a Quint option ({"tag": "Some", "value": v}).
type Picks itf.Record

// Value unwraps the named pick. A missing or None pick is a decode error:
// the trace is malformed for the action that needs it.
func (p Picks) Value(name string) (itf.Value, error) {
	raw, ok := p[name]
	if !ok {
		return nil, &trace.DecodeError{Path: name, Err: errors.New("missing pick")}
	}
	v, err := unwrapPick(raw)
	if err != nil {
		return nil, trace.WithPath(name, err)
	}
	if v == nil {
		return nil, &trace.DecodeError{Path: name, Err: errors.New("pick is None")}
	}
	return v, nil
}

// unwrapPick returns the argument of a pick record, or nil for a None
// option. Records without a tag carry the argument directly.
func unwrapPick(raw itf.Value) (itf.Value, error) {
	rec, err := itf.AsRecord(raw)
	if err != nil {
		return nil, &trace.DecodeError{Err: err}
	}
	if _, tagged := rec["tag"]; tagged {
		return trace.DecodeOption(rec)
	}
	v, err := rec.Field("value")
	if err != nil {
		return nil, &trace.DecodeError{Err: err}
	}
	return v, nil
}

// AsString returns the named pick as a string.
func (p Picks) AsString(name string) (string, error) {
	v, err := p.Value(name)
	if err != nil {
		return "", err
	}
	s, err := itf.AsString(v)
	if err != nil {
		return "", &trace.DecodeError{Path: name + ".value", Err: err}
	}
	return s, nil
}

// AsInt64 returns the named pick as an int64.
func (p Picks) AsInt64(name string) (int64, error) {
	v, err := p.Value(name)
	if err != nil {
		return 0, err
	}
	n, err := itf.AsInt64(v)
	if err != nil {
		return 0, &trace.DecodeError{Path: name + ".value", Err: err}
	}
	return n, nil
}

// Names of the picks each action reads.
const (
	PickDepositor  = "depositor"
	PickWithdrawer = "withdrawer"
	PickSender     = "sender"
	PickReceiver   = "receiver"
	PickBuyer      = "buyer"
	PickSeller     = "seller"
	PickAmount     = "amount"
	PickID         = "id"
)

// ownerAmount reads the (owner, amount) pair shared by most actions.
func (p Picks) ownerAmount(owner string) (string, int64, error) {
	who, err := p.AsString(owner)
	if err != nil {
		return "", 0, err
	}
	amount, err := p.AsInt64(PickAmount)
	if err != nil {
		return "", 0, err
	}
	return who, amount, nil
}

func (p Picks) describe(names ...string) []any {
	attrs := make([]any, 0, len(names)*2)
	for _, name := range names {
		v, ok := p[name]
		if !ok {
			continue
		}
		if inner, err := unwrapPick(v); err == nil && inner != nil {
			v = inner
		}
		attrs = append(attrs, name, fmt.Sprint(describeValue(v)))
	}
	return attrs
}

func describeValue(v itf.Value) any {
	switch x := v.(type) {
	case itf.String:
		return string(x)
	case itf.Int:
		return x.String()
	default:
		return itf.Kind(v)
	}
}
