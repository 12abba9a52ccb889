package handler

import (
	"context"
	"testing"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/testutil"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(f *testutil.FakeFactory) *Factory {
	workouts := workoututil.NewService(f, &testutil.FakeGenerator{}, &testutil.FakeEmbedder{}, 10)
	return NewFactory(f, workouts)
}

func seedIntent(t *testing.T, f *testutil.FakeFactory, intent *entity.ChatIntent) *entity.ChatIntent {
	t.Helper()
	repo, err := f.NewChatIntentRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(intent))
	return intent
}

func TestFactoryDispatch(t *testing.T) {
	factory := newTestFactory(testutil.NewFakeFactory())

	h, err := factory.Handler(constant.IntentTypeCreate)
	require.NoError(t, err)
	assert.IsType(t, &CreateHandler{}, h)

	h, err = factory.Handler(constant.IntentTypeUpdate)
	require.NoError(t, err)
	assert.IsType(t, &UpdateHandler{}, h)

	_, err = factory.Handler(constant.IntentTypeDelete)
	assert.Error(t, err)
}

func TestCreateHandlerSchedules(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)
	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "create"})

	typ := "Running"
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	distance := 5.0
	fields := &model.WorkoutFields{Type: &typ, StartDate: &start, Distance: &distance}

	h, err := factory.Handler(constant.IntentTypeCreate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "✅ Workout scheduled successfully!")
	assert.Contains(t, reply, "• Type: Running")
	assert.Contains(t, reply, "• Start: 2025-08-19 18:00")
	assert.Contains(t, reply, "• Distance: 5 km")

	require.Len(t, f.Workouts, 1)
	created := f.Workouts[0]
	assert.NotEmpty(t, created.WorkoutID)
	assert.Equal(t, "u1", created.UserID)
	assert.False(t, created.Completed)

	// 意图终结并记录生成的向量
	assert.True(t, f.Intents[0].Fulfilled)
	assert.Equal(t, created.WorkoutID, f.Intents[0].WorkoutID)
	require.Len(t, f.EmbeddingUpserts, 1)
	assert.Equal(t, created.WorkoutID, f.EmbeddingUpserts[0].WorkoutID)
}

func TestCreateHandlerLogsCompleted(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)
	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "create"})

	typ := "Running"
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	actual := 60
	fields := &model.WorkoutFields{Type: &typ, StartDate: &start, EndDate: &end, ActualDuration: &actual, Completed: true}

	h, err := factory.Handler(constant.IntentTypeCreate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "✅ Workout logged successfully!")
	assert.Contains(t, reply, "• Status: Completed")
	assert.Contains(t, reply, "• Actual Duration: 60 mins")
}

func TestCreateHandlerSurvivesEmbeddingFailure(t *testing.T) {
	f := testutil.NewFakeFactory()
	workouts := workoututil.NewService(f, &testutil.FakeGenerator{}, &testutil.FakeEmbedder{Err: assert.AnError}, 10)
	factory := NewFactory(f, workouts)
	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "create"})

	typ := "Yoga"
	fields := &model.WorkoutFields{Type: &typ}

	h, err := factory.Handler(constant.IntentTypeCreate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "✅ Workout scheduled successfully!")
	assert.Len(t, f.Workouts, 1)
	assert.True(t, f.Intents[0].Fulfilled)
	assert.Empty(t, f.EmbeddingUpserts)
}

func TestUpdateHandlerAppliesChanges(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)

	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Running", StartDate: &start}))

	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "update", WorkoutID: "w1"})

	distance := 8.0
	newStart := start.Add(2 * time.Hour)
	fields := &model.WorkoutFields{Distance: &distance, StartDate: &newStart}

	h, err := factory.Handler(constant.IntentTypeUpdate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "✅ Workout updated successfully!")
	assert.Contains(t, reply, "• Distance: none → 8 km")
	assert.Contains(t, reply, "• Start: 2025-08-19 18:00 → 2025-08-19 20:00")
	assert.Contains(t, reply, "Updated workout:")

	updated := f.Workouts[0]
	require.NotNil(t, updated.Distance)
	assert.Equal(t, 8.0, *updated.Distance)
	assert.Equal(t, newStart, *updated.StartDate)
	assert.True(t, f.Intents[0].Fulfilled)
	require.Len(t, f.EmbeddingUpserts, 1)
}

func TestUpdateHandlerMarksCompleted(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)

	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Cycling"}))

	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "update", WorkoutID: "w1"})

	end := time.Date(2025, 8, 19, 19, 0, 0, 0, time.UTC)
	fields := &model.WorkoutFields{EndDate: &end, Completed: true}

	h, err := factory.Handler(constant.IntentTypeUpdate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "• Status: Scheduled → Completed")
	assert.True(t, f.Workouts[0].Completed)
}

func TestUpdateHandlerDerivesActualDuration(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)

	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Running", StartDate: &start}))

	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "update", WorkoutID: "w1"})

	// 只给结束时间，实际时长从已有开始时间推导
	end := start.Add(45 * time.Minute)
	fields := &model.WorkoutFields{EndDate: &end, Completed: true}

	h, err := factory.Handler(constant.IntentTypeUpdate)
	require.NoError(t, err)
	reply, err := h.Handle(context.Background(), intent, fields)
	require.NoError(t, err)

	assert.Contains(t, reply, "• Actual Duration: none → 45 mins")
	require.NotNil(t, f.Workouts[0].ActualDuration)
	assert.Equal(t, 45, *f.Workouts[0].ActualDuration)
}

func TestUpdateHandlerWorkoutNotFound(t *testing.T) {
	f := testutil.NewFakeFactory()
	factory := newTestFactory(f)
	intent := seedIntent(t, f, &entity.ChatIntent{UserID: "u1", ChatID: "c1", IntentType: "update"})

	id := "the marathon"
	fields := &model.WorkoutFields{WorkoutIdentifier: &id}

	h, err := factory.Handler(constant.IntentTypeUpdate)
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), intent, fields)

	// 定位失败以业务错误上抛，由编排层清描述并列候选
	require.Error(t, err)
	assert.True(t, model.IsErrorCode(err, model.ErrorWorkoutNotFound))
	assert.False(t, f.Intents[0].Fulfilled)
}
