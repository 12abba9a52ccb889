package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalDirect(t *testing.T) {
	var out map[string]interface{}
	err := Unmarshal(`{"intentType": "create"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "create", out["intentType"])
}

func TestUnmarshalFenced(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"distance\": 5}\n```\nDone."
	var out map[string]interface{}
	err := Unmarshal(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, float64(5), out["distance"])
}

func TestUnmarshalFencedMultiline(t *testing.T) {
	raw := "```json\n{\n  \"intentType\": \"update\",\n  \"extractedFields\": {\"workoutIdentifier\": \"1\"}\n}\n```"
	var out map[string]interface{}
	err := Unmarshal(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, "update", out["intentType"])
}

func TestUnmarshalGarbage(t *testing.T) {
	var out map[string]interface{}
	err := Unmarshal("I could not produce JSON for this request.", &out)
	assert.Error(t, err)
}

func TestUnmarshalBrokenFence(t *testing.T) {
	var out map[string]interface{}
	err := Unmarshal("```json\n{not valid json}\n```", &out)
	assert.Error(t, err)
}
