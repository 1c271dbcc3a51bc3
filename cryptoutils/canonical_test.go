package cryptoutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSON_OrderIndependent(t *testing.T) {
	first := map[string]any{
		"query_text":  "When to sow rice?",
		"answer_text": "Sow after first monsoon rain.",
		"lang":        "ml",
	}
	second := map[string]any{
		"lang":        "ml",
		"answer_text": "Sow after first monsoon rain.",
		"query_text":  "When to sow rice?",
	}

	a, err := CanonicalJSON(first)
	require.NoError(t, err)
	b, err := CanonicalJSON(second)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCanonicalJSON_SortedKeys(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{
		"query_text":  "When to sow rice?",
		"lang":        "ml",
		"answer_text": "Sow after first monsoon rain.",
	})
	require.NoError(t, err)

	assert.Equal(t,
		`{"answer_text":"Sow after first monsoon rain.","lang":"ml","query_text":"When to sow rice?"}`,
		string(out))
}

func TestCanonicalJSON_NestedObjectsSorted(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{
		"b": map[string]any{"z": "1", "a": "2"},
		"a": []any{map[string]any{"title": "Rice", "id": "adv-1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"a":[{"id":"adv-1","title":"Rice"}],"b":{"a":"2","z":"1"}}`, string(out))
}

func TestCanonicalJSON_Idempotent(t *testing.T) {
	out, err := CanonicalJSON(map[string]any{
		"query_text": "When to sow rice?",
		"count":      json.Number("3"),
		"nested":     map[string]any{"b": "x", "a": "y"},
	})
	require.NoError(t, err)

	// Parse the canonical bytes back and re-serialize; the result must be
	// byte-identical.
	var parsed any
	require.NoError(t, json.Unmarshal(out, &parsed))

	again, err := CanonicalJSON(parsed)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestCanonicalJSON_StructMatchesMap(t *testing.T) {
	type payload struct {
		QueryText  string `json:"query_text"`
		AnswerText string `json:"answer_text"`
	}

	fromStruct, err := CanonicalJSON(payload{
		QueryText:  "When to sow rice?",
		AnswerText: "Sow after first monsoon rain.",
	})
	require.NoError(t, err)

	fromMap, err := CanonicalJSON(map[string]string{
		"answer_text": "Sow after first monsoon rain.",
		"query_text":  "When to sow rice?",
	})
	require.NoError(t, err)

	assert.Equal(t, fromStruct, fromMap)
}

func TestCanonicalJSON_NoHTMLEscaping(t *testing.T) {
	out, err := CanonicalJSON(map[string]string{"answer_text": "use <2kg urea & water"})
	require.NoError(t, err)

	assert.Equal(t, `{"answer_text":"use <2kg urea & water"}`, string(out))
}
