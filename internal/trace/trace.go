package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
)

// Keys of an ITF trace document produced by the model checker.
const (
	KeyStates      = "states"
	KeyBankState   = "bank_state"
	KeyActionTaken = "mbt::actionTaken"
	KeyNondetPicks = "mbt::nondetPicks"
	KeyError       = "error"
)

// Quint option tags.
const (
	TagSome = "Some"
	TagNone = "None"
)

// Trace is an ordered list of steps. Step 0 carries the initial state.
type Trace struct {
	ID    string
	Steps []Step
}

// Step is one transition of a trace. State and Error are kept as raw values
// and decoded by ExpectedState and ExpectedError.
type Step struct {
	Index  int
	Action string
	Picks  itf.Record
	State  itf.Value
	Error  itf.Value
}

// Path is the JSON path of the step within its document.
func (s Step) Path() string {
	return indexPath(KeyStates, s.Index)
}

// ExpectedState decodes the state the step should produce.
func (s Step) ExpectedState() (*bank.State, error) {
	st, err := DecodeState(s.State)
	if err != nil {
		return nil, WithPath(joinPath(s.Path(), KeyBankState), err)
	}
	return st, nil
}

// ExpectedError decodes the step's error option. None gives "".
func (s Step) ExpectedError() (string, error) {
	msg, err := DecodeOption(s.Error)
	if err != nil {
		return "", WithPath(joinPath(s.Path(), KeyError), err)
	}
	if msg == nil {
		return "", nil
	}
	text, err := itf.AsString(msg)
	if err != nil {
		return "", decodeErr(joinPath(s.Path(), KeyError+".value"), err)
	}
	return text, nil
}

// DecodeOption unwraps a Quint option record. It returns nil for None.
func DecodeOption(v itf.Value) (itf.Value, error) {
	rec, err := itf.AsRecord(v)
	if err != nil {
		return nil, decodeErr("", err)
	}
	tagVal, err := rec.Field("tag")
	if err != nil {
		return nil, decodeErr("", err)
	}
	tag, err := itf.AsString(tagVal)
	if err != nil {
		return nil, decodeErr("tag", err)
	}
	switch tag {
	case TagNone:
		return nil, nil
	case TagSome:
		value, err := rec.Field("value")
		if err != nil {
			return nil, decodeErr("", err)
		}
		return value, nil
	default:
		return nil, decodeErr("tag", fmt.Errorf("unknown option tag %q", tag))
	}
}

// Some builds the Quint option carrying v.
func Some(v itf.Value) itf.Record {
	return itf.Record{"tag": itf.String(TagSome), "value": v}
}

// None builds the empty Quint option.
func None() itf.Record {
	return itf.Record{"tag": itf.String(TagNone), "value": itf.Tuple{}}
}

// Parse decodes an ITF document. Only the document shape is checked here:
// a non-empty states list whose entries carry an action string, a picks
// record, a bank state and an error option.
func Parse(id string, data []byte) (*Trace, error) {
	doc, err := itf.Decode(data)
	if err != nil {
		return nil, decodeErr("", err)
	}
	return FromValue(id, doc)
}

// ParseReader is Parse over a stream.
func ParseReader(id string, r io.Reader) (*Trace, error) {
	doc, err := itf.DecodeReader(r)
	if err != nil {
		return nil, decodeErr("", err)
	}
	return FromValue(id, doc)
}

// FromValue builds a Trace from an already decoded ITF document.
func FromValue(id string, doc itf.Value) (*Trace, error) {
	rec, err := itf.AsRecord(doc)
	if err != nil {
		return nil, decodeErr("", err)
	}
	statesVal, err := rec.Field(KeyStates)
	if err != nil {
		return nil, decodeErr("", err)
	}
	states, err := itf.AsList(statesVal)
	if err != nil {
		return nil, decodeErr(KeyStates, err)
	}
	if len(states) == 0 {
		return nil, decodeErr(KeyStates, errors.New("trace has no states"))
	}

	t := &Trace{ID: id, Steps: make([]Step, len(states))}
	for i, sv := range states {
		step, err := parseStep(i, sv)
		if err != nil {
			return nil, err
		}
		t.Steps[i] = step
	}
	return t, nil
}

func parseStep(i int, v itf.Value) (Step, error) {
	path := indexPath(KeyStates, i)
	rec, err := itf.AsRecord(v)
	if err != nil {
		return Step{}, decodeErr(path, err)
	}

	get := func(key string) (itf.Value, error) {
		fv, err := rec.Field(key)
		if err != nil {
			return nil, decodeErr(path, err)
		}
		return fv, nil
	}

	actionVal, err := get(KeyActionTaken)
	if err != nil {
		return Step{}, err
	}
	action, err := itf.AsString(actionVal)
	if err != nil {
		return Step{}, decodeErr(joinPath(path, KeyActionTaken), err)
	}

	picksVal, err := get(KeyNondetPicks)
	if err != nil {
		return Step{}, err
	}
	picks, err := itf.AsRecord(picksVal)
	if err != nil {
		return Step{}, decodeErr(joinPath(path, KeyNondetPicks), err)
	}

	state, err := get(KeyBankState)
	if err != nil {
		return Step{}, err
	}
	errVal, err := get(KeyError)
	if err != nil {
		return Step{}, err
	}

	return Step{
		Index:  i,
		Action: action,
		Picks:  picks,
		State:  state,
		Error:  errVal,
	}, nil
}

// Encode renders t back into an ITF document value.
func (t *Trace) Encode() itf.Value {
	states := make(itf.List, len(t.Steps))
	for i, s := range t.Steps {
		picks := s.Picks
		if picks == nil {
			picks = itf.Record{}
		}
		errVal := s.Error
		if errVal == nil {
			errVal = None()
		}
		states[i] = itf.Record{
			KeyActionTaken: itf.String(s.Action),
			KeyNondetPicks: picks,
			KeyBankState:   s.State,
			KeyError:       errVal,
		}
	}
	return itf.Record{KeyStates: states}
}
