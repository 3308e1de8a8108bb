package itf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical writes v as canonical ITF JSON.
//
// Records get RFC 8785 key order, strings are NFC normalized and written
// without HTML escaping, integers are always tagged with #bigint. Map, set
// and tuple elements keep the order they have in v; callers that need a
// stable encoding of a map must build it with sorted pairs.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is not an ITF value")
	case String:
		return writeCanonicalString(buf, string(val))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Int:
		buf.WriteString(`{"` + TagBigInt + `":"`)
		buf.WriteString(val.String())
		buf.WriteString(`"}`)
		return nil
	case List:
		return writeCanonicalArray(buf, val)
	case Tuple:
		buf.WriteString(`{"` + TagTuple + `":`)
		if err := writeCanonicalArray(buf, val); err != nil {
			return fmt.Errorf("%s%w", TagTuple, err)
		}
		buf.WriteByte('}')
		return nil
	case Set:
		buf.WriteString(`{"` + TagSet + `":`)
		if err := writeCanonicalArray(buf, val); err != nil {
			return fmt.Errorf("%s%w", TagSet, err)
		}
		buf.WriteByte('}')
		return nil
	case Map:
		buf.WriteString(`{"` + TagMap + `":[`)
		for i, p := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('[')
			if err := writeCanonical(buf, p.Key); err != nil {
				return fmt.Errorf("%s[%d][0]: %w", TagMap, i, err)
			}
			buf.WriteByte(',')
			if err := writeCanonical(buf, p.Value); err != nil {
				return fmt.Errorf("%s[%d][1]: %w", TagMap, i, err)
			}
			buf.WriteByte(']')
		}
		buf.WriteString("]}")
		return nil
	case Record:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case Unserializable:
		buf.WriteString(`{"` + TagUnserializable + `":`)
		if err := writeCanonicalString(buf, string(val)); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

func writeCanonicalArray(buf *bytes.Buffer, elems []Value) error {
	buf.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, elem); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeCanonicalString escapes only what RFC 8785 requires: control
// characters, backslash and quote. U+2028 and U+2029 stay literal.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. An escape preceded by an odd
// number of backslashes is literal text and is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && string(data[i+1:i+5]) == "u202" &&
			(data[i+5] == '8' || data[i+5] == '9') && precedingBackslashes(out)%2 == 0 {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i])
	}
	return out
}

func precedingBackslashes(b []byte) int {
	n := 0
	for j := len(b) - 1; j >= 0 && b[j] == '\\'; j-- {
		n++
	}
	return n
}
