package store

import (
	"fmt"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
	"github.com/roach88/bankcheck/internal/trace"
)

// marshalState encodes a state as canonical ITF JSON and returns it with
// its digest. Equal states always produce equal text and digests, so
// mismatches can be found with a plain column comparison.
func marshalState(s *bank.State) (string, string, error) {
	if s == nil {
		return "", "", fmt.Errorf("marshal state: nil state")
	}
	text, err := trace.CanonicalState(s)
	if err != nil {
		return "", "", fmt.Errorf("marshal state: %w", err)
	}
	return text, itf.DigestBytes(itf.DomainState, []byte(text)), nil
}

// unmarshalState decodes a stored state.
func unmarshalState(text string) (*bank.State, error) {
	v, err := itf.Decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	s, err := trace.DecodeState(v)
	if err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
