package trace

import (
	"errors"
	"fmt"
	"strings"
)

// DecodeError reports a trace value that is absent or has the wrong shape.
// It is never a business outcome.
type DecodeError struct {
	// Path locates the value, e.g. "states[3].bank_state.next_id".
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WithPath prefixes the path of err. A DecodeError keeps its cause and gains
// the prefix; any other error becomes a DecodeError at prefix.
func WithPath(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Path: joinPath(prefix, de.Path), Err: de.Err}
	}
	return &DecodeError{Path: prefix, Err: err}
}

func decodeErr(path string, err error) *DecodeError {
	return &DecodeError{Path: path, Err: err}
}

func joinPath(prefix, sub string) string {
	switch {
	case prefix == "":
		return sub
	case sub == "":
		return prefix
	case strings.HasPrefix(sub, "["):
		return prefix + sub
	default:
		return prefix + "." + sub
	}
}

func indexPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
