package itf

import (
	"fmt"
)

// AsInt64 returns v as an int64. v must be an Int within int64 range.
func AsInt64(v Value) (int64, error) {
	n, ok := v.(Int)
	if !ok {
		return 0, fmt.Errorf("expected bigint, got %s", Kind(v))
	}
	if n.V == nil {
		return 0, nil
	}
	if !n.V.IsInt64() {
		return 0, fmt.Errorf("bigint %s does not fit in 64 bits", n.V)
	}
	return n.V.Int64(), nil
}

// AsString returns v as a string.
func AsString(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", fmt.Errorf("expected string, got %s", Kind(v))
	}
	return string(s), nil
}

// AsRecord returns v as a Record.
func AsRecord(v Value) (Record, error) {
	r, ok := v.(Record)
	if !ok {
		return nil, fmt.Errorf("expected record, got %s", Kind(v))
	}
	return r, nil
}

// AsMap returns the pairs of a #map value in source order.
func AsMap(v Value) (Map, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", Kind(v))
	}
	return m, nil
}

// AsList returns the elements of an untagged array.
func AsList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %s", Kind(v))
	}
	return l, nil
}

// Field returns the named field of a record, failing if it is absent.
func (r Record) Field(name string) (Value, error) {
	v, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("missing field %q", name)
	}
	return v, nil
}
