package itf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Decode parses one JSON document into a Value.
// Numbers are kept exact: integral literals become Int, floats are rejected
// since no ITF producer emits them. null is rejected for the same reason.
func Decode(data []byte) (Value, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode over a stream. Trailing data after the first
// document is an error.
func DecodeReader(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse json: unexpected data after document")
	}
	return FromJSON(raw)
}

// UnmarshalJSON lets a Record be embedded in structs decoded with
// encoding/json.
func (r *Record) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	rec, ok := v.(Record)
	if !ok {
		return fmt.Errorf("expected record, got %s", Kind(v))
	}
	*r = rec
	return nil
}

// FromJSON converts a value produced by encoding/json (decoded with
// UseNumber) into a Value.
func FromJSON(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("null is not an ITF value")
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		s := string(v)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are not ITF values: %s", s)
		}
		return ParseInt(s)
	case []any:
		list, err := fromJSONList(v)
		if err != nil {
			return nil, err
		}
		return List(list), nil
	case map[string]any:
		return fromJSONObject(v)
	default:
		return nil, fmt.Errorf("unsupported json type %T", raw)
	}
}

func fromJSONList(raw []any) ([]Value, error) {
	out := make([]Value, len(raw))
	for i, elem := range raw {
		v, err := FromJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func fromJSONObject(obj map[string]any) (Value, error) {
	if len(obj) == 1 {
		for key, payload := range obj {
			switch key {
			case TagBigInt:
				s, ok := payload.(string)
				if !ok {
					return nil, fmt.Errorf("%s: payload must be a string, got %T", TagBigInt, payload)
				}
				n, err := ParseInt(s)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", TagBigInt, err)
				}
				return n, nil
			case TagMap:
				return fromJSONMap(payload)
			case TagSet, TagTuple:
				arr, ok := payload.([]any)
				if !ok {
					return nil, fmt.Errorf("%s: payload must be an array, got %T", key, payload)
				}
				elems, err := fromJSONList(arr)
				if err != nil {
					return nil, fmt.Errorf("%s%w", key, err)
				}
				if key == TagSet {
					return Set(elems), nil
				}
				return Tuple(elems), nil
			case TagUnserializable:
				s, ok := payload.(string)
				if !ok {
					return nil, fmt.Errorf("%s: payload must be a string, got %T", key, payload)
				}
				return Unserializable(s), nil
			}
		}
	}

	rec := make(Record, len(obj))
	for k, elem := range obj {
		v, err := FromJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		rec[k] = v
	}
	return rec, nil
}

func fromJSONMap(payload any) (Value, error) {
	arr, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: payload must be an array of pairs, got %T", TagMap, payload)
	}
	m := make(Map, 0, len(arr))
	for i, entry := range arr {
		kv, ok := entry.([]any)
		if !ok || len(kv) != 2 {
			return nil, fmt.Errorf("%s[%d]: entry must be a [key, value] pair", TagMap, i)
		}
		key, err := FromJSON(kv[0])
		if err != nil {
			return nil, fmt.Errorf("%s[%d][0]: %w", TagMap, i, err)
		}
		val, err := FromJSON(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s[%d][1]: %w", TagMap, i, err)
		}
		m = append(m, Pair{Key: key, Value: val})
	}
	return m, nil
}
