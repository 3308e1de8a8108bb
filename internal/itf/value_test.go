package itf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = String("a")
	var _ Value = Bool(true)
	var _ Value = NewInt(1)
	var _ Value = List{}
	var _ Value = Tuple{}
	var _ Value = Set{}
	var _ Value = Map{}
	var _ Value = Record{}
	var _ Value = Unserializable("x")
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0", want: "0"},
		{in: "42", want: "42"},
		{in: "-17", want: "-17"},
		{in: "123456789012345678901234567890", want: "123456789012345678901234567890"},
		{in: "", wantErr: true},
		{in: "-", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "12a", wantErr: true},
		{in: " 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestRecordSortedKeys(t *testing.T) {
	r := Record{
		"next_id":     NewInt(0),
		"balances":    Map{},
		"investments": Map{},
	}
	assert.Equal(t, []string{"balances", "investments", "next_id"}, r.SortedKeys())
}

func TestRecordSortedKeysUTF16Order(t *testing.T) {
	// U+1F600 is a surrogate pair in UTF-16 (0xD83D...) and sorts before
	// U+FF61, although its UTF-8 encoding sorts after.
	r := Record{"\U0001F600": Bool(true), "\uFF61": Bool(false)}
	assert.Equal(t, []string{"\U0001F600", "\uFF61"}, r.SortedKeys())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "bigint", Kind(NewInt(3)))
	assert.Equal(t, "map", Kind(Map{}))
	assert.Equal(t, "record", Kind(Record{}))
	assert.Equal(t, "null", Kind(nil))
}
