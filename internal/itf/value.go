package itf

import (
	"fmt"
	"math/big"
	"slices"
	"unicode/utf16"
)

// Reserved keys of the tagged encodings.
const (
	TagBigInt         = "#bigint"
	TagMap            = "#map"
	TagSet            = "#set"
	TagTuple          = "#tup"
	TagUnserializable = "#unserializable"
	TagMeta           = "#meta"
)

// Value is a sealed interface over the ITF value kinds.
// Only the types in this file implement it.
type Value interface {
	itfValue()
}

// String is a JSON string.
type String string

func (String) itfValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) itfValue() {}

// Int is an arbitrary precision integer, from {"#bigint": "..."} or from a
// bare integral JSON number.
type Int struct {
	V *big.Int
}

func (Int) itfValue() {}

// List is a JSON array without a tag.
type List []Value

func (List) itfValue() {}

// Tuple is {"#tup": [...]}.
type Tuple []Value

func (Tuple) itfValue() {}

// Set is {"#set": [...]}. Element order is kept as found.
type Set []Value

func (Set) itfValue() {}

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

// Map is {"#map": [[k, v], ...]}. Pairs keep source order and may repeat a
// key; consumers building a native map let the last pair win.
type Map []Pair

func (Map) itfValue() {}

// Record is an untagged JSON object.
type Record map[string]Value

func (Record) itfValue() {}

// Unserializable is {"#unserializable": "..."}.
type Unserializable string

func (Unserializable) itfValue() {}

// NewInt creates an Int from an int64.
func NewInt(n int64) Int {
	return Int{V: big.NewInt(n)}
}

// ParseInt parses a decimal integer literal as carried by #bigint.
// Only an optional leading '-' followed by digits is accepted.
func ParseInt(s string) (Int, error) {
	if !isIntLiteral(s) {
		return Int{}, fmt.Errorf("invalid integer literal %q", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("invalid integer literal %q", s)
	}
	return Int{V: n}, nil
}

func isIntLiteral(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the integer in base 10.
func (i Int) String() string {
	if i.V == nil {
		return "0"
	}
	return i.V.String()
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which differs outside the BMP.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Kind names the variant of v for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "bigint"
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case Set:
		return "set"
	case Map:
		return "map"
	case Record:
		return "record"
	case Unserializable:
		return "unserializable"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
