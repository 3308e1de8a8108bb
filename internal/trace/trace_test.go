package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bankcheck/internal/itf"
)

const sampleTrace = `{
  "#meta": {"format": "ITF", "source": "bank.qnt"},
  "vars": ["bank_state", "error"],
  "states": [
    {
      "#meta": {"index": 0},
      "bank_state": {"balances": {"#map": [["alice", {"#bigint": "100"}]]}, "investments": {"#map": []}, "next_id": {"#bigint": "0"}},
      "error": {"tag": "None", "value": {"#tup": []}},
      "mbt::actionTaken": "init",
      "mbt::nondetPicks": {}
    },
    {
      "#meta": {"index": 1},
      "bank_state": {"balances": {"#map": [["alice", {"#bigint": "100"}]]}, "investments": {"#map": []}, "next_id": {"#bigint": "0"}},
      "error": {"tag": "Some", "value": "Balance is too low"},
      "mbt::actionTaken": "withdraw_action",
      "mbt::nondetPicks": {
        "withdrawer": {"tag": "Some", "value": "alice"},
        "amount": {"tag": "Some", "value": {"#bigint": "9999"}}
      }
    }
  ]
}`

func TestParse(t *testing.T) {
	tr, err := Parse("out0", []byte(sampleTrace))
	require.NoError(t, err)

	assert.Equal(t, "out0", tr.ID)
	require.Len(t, tr.Steps, 2)

	assert.Equal(t, "init", tr.Steps[0].Action)
	assert.Empty(t, tr.Steps[0].Picks)
	msg, err := tr.Steps[0].ExpectedError()
	require.NoError(t, err)
	assert.Equal(t, "", msg)

	s := tr.Steps[1]
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, "withdraw_action", s.Action)
	assert.Contains(t, s.Picks, "withdrawer")
	msg, err = s.ExpectedError()
	require.NoError(t, err)
	assert.Equal(t, "Balance is too low", msg)

	st, err := s.ExpectedState()
	require.NoError(t, err)
	assert.Equal(t, int64(100), st.Balances["alice"])
}

func TestParse_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{name: "not json", doc: `{`, path: ""},
		{name: "no states", doc: `{"vars": []}`, path: ""},
		{name: "states not a list", doc: `{"states": {}}`, path: "states"},
		{name: "empty states", doc: `{"states": []}`, path: "states"},
		{name: "state not a record", doc: `{"states": ["x"]}`, path: "states[0]"},
		{
			name: "missing action",
			doc:  `{"states": [{"bank_state": {}, "error": {}, "mbt::nondetPicks": {}}]}`,
			path: "states[0]",
		},
		{
			name: "action not a string",
			doc:  `{"states": [{"bank_state": {}, "error": {}, "mbt::actionTaken": 1, "mbt::nondetPicks": {}}]}`,
			path: "states[0].mbt::actionTaken",
		},
		{
			name: "picks not a record",
			doc:  `{"states": [{"bank_state": {}, "error": {}, "mbt::actionTaken": "init", "mbt::nondetPicks": []}]}`,
			path: "states[0].mbt::nondetPicks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("t", []byte(tt.doc))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestStep_LazyDecodeErrors(t *testing.T) {
	doc := `{"states": [
	  {"bank_state": {"balances": {"#map": []}, "investments": {"#map": []}, "next_id": {"#bigint": "0"}},
	   "error": {"tag": "None", "value": {"#tup": []}}, "mbt::actionTaken": "init", "mbt::nondetPicks": {}},
	  {"bank_state": {"balances": {"#map": []}, "investments": {"#map": []}},
	   "error": {"tag": "Maybe"}, "mbt::actionTaken": "init", "mbt::nondetPicks": {}}
	]}`

	tr, err := Parse("t", []byte(doc))
	require.NoError(t, err, "shape is valid, contents are checked per step")

	_, err = tr.Steps[0].ExpectedState()
	require.NoError(t, err)

	var de *DecodeError
	_, err = tr.Steps[1].ExpectedState()
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "states[1].bank_state", de.Path)

	_, err = tr.Steps[1].ExpectedError()
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "states[1].error.tag", de.Path)
}

func TestExpectedError_SomeNotString(t *testing.T) {
	s := Step{Index: 4, Error: Some(itf.NewInt(1))}
	_, err := s.ExpectedError()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "states[4].error.value", de.Path)
}

func TestDecodeOption(t *testing.T) {
	v, err := DecodeOption(None())
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = DecodeOption(Some(itf.String("x")))
	require.NoError(t, err)
	assert.Equal(t, itf.String("x"), v)

	_, err = DecodeOption(itf.Record{"value": itf.String("x")})
	assert.ErrorContains(t, err, `missing field "tag"`)

	_, err = DecodeOption(itf.Record{"tag": itf.String(TagSome)})
	assert.ErrorContains(t, err, `missing field "value"`)
}

func TestTraceEncode_RoundTrip(t *testing.T) {
	tr, err := Parse("out0", []byte(sampleTrace))
	require.NoError(t, err)

	data, err := itf.MarshalCanonical(tr.Encode())
	require.NoError(t, err)

	again, err := Parse("out0", data)
	require.NoError(t, err)
	require.Len(t, again.Steps, len(tr.Steps))
	for i := range tr.Steps {
		assert.Equal(t, tr.Steps[i].Action, again.Steps[i].Action)

		want, err := tr.Steps[i].ExpectedState()
		require.NoError(t, err)
		got, err := again.Steps[i].ExpectedState()
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	}
}
