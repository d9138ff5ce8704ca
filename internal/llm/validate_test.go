package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-answer",
		Description: "a single answer object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":  map[string]any{"type": "string"},
				"score": map[string]any{"type": "integer", "minimum": 0},
			},
			"required":             []any{"text", "score"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponseAccepts(t *testing.T) {
	err := validateResponse(testSchema(), json.RawMessage(`{"text":"ok","score":3}`))
	assert.NoError(t, err)
}

func TestValidateResponseRejectsInvalidJSON(t *testing.T) {
	err := validateResponse(testSchema(), json.RawMessage(`{"text":`))
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
}

func TestValidateResponseRejectsMissingField(t *testing.T) {
	err := validateResponse(testSchema(), json.RawMessage(`{"text":"ok"}`))
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
}

func TestValidateResponseRejectsWrongType(t *testing.T) {
	err := validateResponse(testSchema(), json.RawMessage(`{"text":"ok","score":"three"}`))
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
}

func TestValidateResponseNoSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not even json`)))
}
