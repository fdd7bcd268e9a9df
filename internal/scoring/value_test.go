package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{`null`, Null()},
		{`"B"`, String("B")},
		{`""`, String("")},
		{`["A","B"]`, Strings("A", "B")},
		{`[]`, Strings()},
		{`7`, Number(7)},
		{`7.5`, Number(7.5)},
		{`true`, Bool(true)},
		{`false`, Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestValue_UnmarshalJSONRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{`{"a":1}`, `[1,2]`, `["a",true]`} {
		var v Value
		assert.Error(t, json.Unmarshal([]byte(raw), &v), raw)
	}
}

func TestValue_MissingFieldIsNull(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`{"questionId":"q1"}`), &a))

	assert.Equal(t, "q1", a.QuestionID)
	assert.Equal(t, KindNull, a.Answer.Kind())
	assert.True(t, a.Answer.IsBlank())
}

func TestValue_MarshalJSON(t *testing.T) {
	answers := []Answer{
		{QuestionID: "a", Answer: Strings("x", "y")},
		{QuestionID: "b", Answer: Number(3)},
		{QuestionID: "c", Answer: Null()},
	}

	out, err := json.Marshal(answers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"questionId":"a","answer":["x","y"]},{"questionId":"b","answer":3},{"questionId":"c","answer":null}]`, string(out))
}

func TestValue_IsBlank(t *testing.T) {
	assert.True(t, Null().IsBlank())
	assert.True(t, String("").IsBlank())
	assert.False(t, String(" ").IsBlank())
	assert.False(t, Strings().IsBlank())
	assert.False(t, Number(0).IsBlank())
	assert.False(t, Bool(false).IsBlank())
}
