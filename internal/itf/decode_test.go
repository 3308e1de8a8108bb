package itf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_BigInt(t *testing.T) {
	v, err := Decode([]byte(`{"#bigint": "-250"}`))
	require.NoError(t, err)

	n, err := AsInt64(v)
	require.NoError(t, err)
	assert.Equal(t, int64(-250), n)
}

func TestDecode_BigIntRejectsBadLiteral(t *testing.T) {
	for _, doc := range []string{
		`{"#bigint": "ten"}`,
		`{"#bigint": ""}`,
		`{"#bigint": 10}`,
		`{"#bigint": "1e3"}`,
	} {
		_, err := Decode([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestDecode_BigIntBeyondInt64(t *testing.T) {
	v, err := Decode([]byte(`{"#bigint": "99999999999999999999"}`))
	require.NoError(t, err)

	want, _ := new(big.Int).SetString("99999999999999999999", 10)
	assert.Equal(t, 0, want.Cmp(v.(Int).V))

	_, err = AsInt64(v)
	assert.ErrorContains(t, err, "does not fit")
}

func TestDecode_MapKeepsPairOrderAndDuplicates(t *testing.T) {
	v, err := Decode([]byte(`{"#map": [["bob", {"#bigint": "1"}], ["alice", {"#bigint": "2"}], ["bob", {"#bigint": "3"}]]}`))
	require.NoError(t, err)

	m, err := AsMap(v)
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.Equal(t, String("bob"), m[0].Key)
	assert.Equal(t, String("alice"), m[1].Key)
	assert.Equal(t, "3", m[2].Value.(Int).String())
}

func TestDecode_MapRejectsMalformedPairs(t *testing.T) {
	for _, doc := range []string{
		`{"#map": {}}`,
		`{"#map": [["only-key"]]}`,
		`{"#map": [["k", "v", "extra"]]}`,
		`{"#map": ["k"]}`,
	} {
		_, err := Decode([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestDecode_TaggedCollections(t *testing.T) {
	v, err := Decode([]byte(`{"#tup": [{"#bigint": "1"}, "a"]}`))
	require.NoError(t, err)
	tup, ok := v.(Tuple)
	require.True(t, ok)
	assert.Len(t, tup, 2)

	v, err = Decode([]byte(`{"#set": []}`))
	require.NoError(t, err)
	assert.IsType(t, Set{}, v)

	v, err = Decode([]byte(`{"#unserializable": "<lambda>"}`))
	require.NoError(t, err)
	assert.Equal(t, Unserializable("<lambda>"), v)
}

func TestDecode_RecordWithReservedLookingKeys(t *testing.T) {
	// A tag only counts when it is the sole key.
	v, err := Decode([]byte(`{"#bigint": "1", "other": true}`))
	require.NoError(t, err)
	rec, err := AsRecord(v)
	require.NoError(t, err)
	assert.Equal(t, String("1"), rec["#bigint"])
	assert.Equal(t, Bool(true), rec["other"])
}

func TestDecode_PlainNumbers(t *testing.T) {
	v, err := Decode([]byte(`7`))
	require.NoError(t, err)
	n, err := AsInt64(v)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = Decode([]byte(`7.5`))
	assert.ErrorContains(t, err, "floats")
}

func TestDecode_RejectsNullAndTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"a": null}`))
	assert.ErrorContains(t, err, "null")

	_, err = Decode([]byte(`{} {}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestRecordField(t *testing.T) {
	rec := Record{"owner": String("alice")}

	v, err := rec.Field("owner")
	require.NoError(t, err)
	s, err := AsString(v)
	require.NoError(t, err)
	assert.Equal(t, "alice", s)

	_, err = rec.Field("amount")
	assert.ErrorContains(t, err, `missing field "amount"`)
}

func TestAccessorsRejectWrongKinds(t *testing.T) {
	_, err := AsInt64(String("5"))
	assert.ErrorContains(t, err, "expected bigint, got string")

	_, err = AsString(NewInt(5))
	assert.ErrorContains(t, err, "expected string, got bigint")

	_, err = AsMap(Record{})
	assert.ErrorContains(t, err, "expected map, got record")

	_, err = AsRecord(List{})
	assert.ErrorContains(t, err, "expected record, got list")
}
