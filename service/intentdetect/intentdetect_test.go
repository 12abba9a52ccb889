package intentdetect

import (
	"context"
	"errors"
	"testing"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCreate(t *testing.T) {
	gen := &testutil.FakeGenerator{
		Default: `{"intentType": "create", "extractedFields": {"type": "Running", "distance": 5, "startDate": "tomorrow at 6pm"}}`,
	}
	svc := NewService(gen)

	intentType, fields, err := svc.Detect(context.Background(), "I want to run 5km tomorrow at 6pm")
	require.NoError(t, err)
	assert.Equal(t, constant.IntentTypeCreate, intentType)
	assert.Equal(t, "Running", *fields.Type)
	assert.Equal(t, 5.0, *fields.Distance)
	require.NotNil(t, fields.StartDate)
}

func TestDetectFencedResponse(t *testing.T) {
	gen := &testutil.FakeGenerator{
		Default: "```json\n{\"intentType\": \"update\", \"extractedFields\": {\"workoutIdentifier\": \"last workout\", \"endDate\": \"now\"}}\n```",
	}
	svc := NewService(gen)

	intentType, fields, err := svc.Detect(context.Background(), "finish my last workout now")
	require.NoError(t, err)
	assert.Equal(t, constant.IntentTypeUpdate, intentType)
	assert.Equal(t, "last workout", *fields.WorkoutIdentifier)
	require.NotNil(t, fields.EndDate)
	assert.True(t, fields.Completed)
}

func TestDetectUnparseableFallsToUnknown(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: "sorry, I can't help with that"}
	svc := NewService(gen)

	intentType, fields, err := svc.Detect(context.Background(), "blah")
	require.NoError(t, err)
	assert.Equal(t, constant.IntentTypeUnknown, intentType)
	assert.False(t, fields.Has(constant.FieldType))
}

func TestDetectInvalidIntentTypeNormalized(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: `{"intentType": "banana", "extractedFields": {}}`}
	svc := NewService(gen)

	intentType, _, err := svc.Detect(context.Background(), "do something")
	require.NoError(t, err)
	assert.Equal(t, constant.IntentTypeUnknown, intentType)
}

func TestDetectGeneratorError(t *testing.T) {
	gen := &testutil.FakeGenerator{Err: errors.New("model down")}
	svc := NewService(gen)

	_, _, err := svc.Detect(context.Background(), "log a swim")
	assert.Error(t, err)
}
