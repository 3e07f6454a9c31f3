package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	raw := json.RawMessage(`{"username":"u1","age":34,"joined_products":[{"fin_prdt_nm":"A"},{"fin_prdt_nm":"B"}]}`)

	v, err := Query(raw, "$.age")
	require.NoError(t, err)
	assert.Equal(t, 34.0, v)

	v, err = Query(raw, "$.joined_products[*].fin_prdt_nm")
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "B"}, v)

	_, err = Query(raw, "$.missing")
	assert.Error(t, err)

	_, err = Query(json.RawMessage(`nope`), "$.x")
	assert.Error(t, err)
}

func TestQueryString(t *testing.T) {
	raw := json.RawMessage(`{"a":"x","n":1,"list":["first","second"],"empty":""}`)

	s, ok := QueryString(raw, "$.a")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	s, ok = QueryString(raw, "$.list[*]")
	assert.True(t, ok)
	assert.Equal(t, "first", s)

	_, ok = QueryString(raw, "$.n")
	assert.False(t, ok)
	_, ok = QueryString(raw, "$.empty")
	assert.False(t, ok)
}

func TestRecommendationText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"recommendation", `{"recommendation":"r","message":"m"}`, "r"},
		{"message", `{"message":"m","result":"x"}`, "m"},
		{"result", `{"result":"x"}`, "x"},
		{"answer", `{"answer":"a"}`, "a"},
		{"non-string skipped", `{"recommendation":{"items":[]},"answer":"a"}`, "a"},
		{"none", `{"products":[]}`, ""},
		{"array body", `[1,2]`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommendation{Raw: json.RawMessage(tt.raw)}.Text())
		})
	}
}
