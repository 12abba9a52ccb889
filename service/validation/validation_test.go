package validation

import (
	"testing"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/model"

	"github.com/stretchr/testify/assert"
)

func TestFindMissingFieldsCreateEmpty(t *testing.T) {
	missing, optional := FindMissingFields(constant.IntentTypeCreate, &model.WorkoutFields{})
	assert.Equal(t, []string{"type", "startDate"}, missing)
	assert.Equal(t, []string{"distance", "idealDuration", "endDate"}, optional)
}

func TestFindMissingFieldsCreateComplete(t *testing.T) {
	typ := "Running"
	start := time.Now()
	distance := 5.0
	missing, optional := FindMissingFields(constant.IntentTypeCreate, &model.WorkoutFields{
		Type:      &typ,
		StartDate: &start,
		Distance:  &distance,
	})
	assert.Empty(t, missing)
	assert.Equal(t, []string{"idealDuration", "endDate"}, optional)
}

func TestFindMissingFieldsUpdate(t *testing.T) {
	missing, optional := FindMissingFields(constant.IntentTypeUpdate, &model.WorkoutFields{})
	assert.Equal(t, []string{"workoutIdentifier"}, missing)
	assert.Len(t, optional, 5)

	id := "1"
	missing, _ = FindMissingFields(constant.IntentTypeUpdate, &model.WorkoutFields{WorkoutIdentifier: &id})
	assert.Empty(t, missing)
}

func TestFindMissingFieldsUnknownUsesCreateSchema(t *testing.T) {
	missing, _ := FindMissingFields(constant.IntentTypeRetrieve, &model.WorkoutFields{})
	assert.Equal(t, []string{"type", "startDate"}, missing)
}

func TestFindMissingFieldsEmptyStringNotProvided(t *testing.T) {
	empty := ""
	missing, _ := FindMissingFields(constant.IntentTypeCreate, &model.WorkoutFields{Type: &empty})
	assert.Contains(t, missing, "type")
}

func TestFieldPrompt(t *testing.T) {
	assert.Equal(t, "workout type (Running, Cycling, Swimming, Yoga, Walking)", FieldPrompt("type"))
	assert.Equal(t, "distance (e.g., 5 km)", FieldPrompt("distance"))
	// 未登记的字段原样返回
	assert.Equal(t, "whatever", FieldPrompt("whatever"))
}
