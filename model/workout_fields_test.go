package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMergeMonotonic(t *testing.T) {
	distance := 5.0
	base := &WorkoutFields{Type: strPtr("Running"), Distance: &distance, Completed: true}

	newType := "Cycling"
	base.Merge(&WorkoutFields{Type: &newType})

	// 覆盖有值的字段，保留未提供的字段，布尔不会被清掉
	assert.Equal(t, "Cycling", *base.Type)
	assert.Equal(t, 5.0, *base.Distance)
	assert.True(t, base.Completed)

	base.Merge(&WorkoutFields{})
	assert.True(t, base.Completed)
	assert.Equal(t, "Cycling", *base.Type)
}

func TestIsZero(t *testing.T) {
	assert.True(t, (&WorkoutFields{}).IsZero())
	assert.False(t, (&WorkoutFields{Type: strPtr("Running")}).IsZero())
	assert.False(t, (&WorkoutFields{Completed: true}).IsZero())
}

func TestHasPresence(t *testing.T) {
	zero := 0.0
	fields := &WorkoutFields{Distance: &zero}

	// 显式零值也算已提供
	assert.True(t, fields.Has("distance"))
	assert.False(t, fields.Has("type"))
	assert.False(t, fields.Has("startDate"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	duration := 30
	fields := &WorkoutFields{Type: strPtr("Yoga"), IdealDuration: &duration, StartDate: &start, AskedOptional: true}

	raw, err := fields.Encode()
	require.NoError(t, err)

	decoded, err := DecodeWorkoutFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", *decoded.Type)
	assert.Equal(t, 30, *decoded.IdealDuration)
	assert.True(t, decoded.StartDate.Equal(start))
	assert.True(t, decoded.AskedOptional)
}

func TestDecodeEmptyMetadata(t *testing.T) {
	fields, err := DecodeWorkoutFields("")
	require.NoError(t, err)
	assert.False(t, fields.Has("type"))
}

func TestFlexTypesTolerateStrings(t *testing.T) {
	var extracted ExtractedFields
	err := json.Unmarshal([]byte(`{"distance": "5", "idealDuration": 30.0}`), &extracted)
	require.NoError(t, err)
	assert.Equal(t, FlexFloat(5), *extracted.Distance)
	assert.Equal(t, FlexInt(30), *extracted.IdealDuration)
}

func TestResolveDates(t *testing.T) {
	base := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	extracted := &ExtractedFields{
		Type:      strPtr("Running"),
		StartDate: strPtr("tomorrow at 6pm"),
	}

	fields := extracted.Resolve("run tomorrow at 6pm", base)
	require.NotNil(t, fields.StartDate)
	assert.Equal(t, 19, fields.StartDate.Day())
	assert.False(t, fields.Completed)
	assert.Nil(t, fields.ActualDuration)
}

func TestResolveDerivesCompletion(t *testing.T) {
	base := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	extracted := &ExtractedFields{
		StartDate: strPtr("today at 10am"),
		EndDate:   strPtr("today at 11am"),
	}

	fields := extracted.Resolve("", base)
	require.NotNil(t, fields.StartDate)
	require.NotNil(t, fields.EndDate)
	require.NotNil(t, fields.ActualDuration)
	assert.Equal(t, 60, *fields.ActualDuration)
	assert.True(t, fields.Completed)
}

func TestDeriveCompletionEndDateOnly(t *testing.T) {
	end := time.Date(2025, 8, 18, 16, 0, 0, 0, time.UTC)
	fields := &WorkoutFields{EndDate: &end}
	fields.DeriveCompletion()
	assert.True(t, fields.Completed)
	assert.Nil(t, fields.ActualDuration)
}

func TestStringListCodec(t *testing.T) {
	raw, err := EncodeStringList([]string{"type", "startDate"})
	require.NoError(t, err)

	list, err := DecodeStringList(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "startDate"}, list)

	empty, err := DecodeStringList("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
