package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/testutil"
	"github.com/RajoGon/ai-workout-assistant/service/chathistory"
	"github.com/RajoGon/ai-workout-assistant/service/classify"
	"github.com/RajoGon/ai-workout-assistant/service/fieldextract"
	"github.com/RajoGon/ai-workout-assistant/service/handler"
	"github.com/RajoGon/ai-workout-assistant/service/intentdetect"
	"github.com/RajoGon/ai-workout-assistant/service/ragchat"
	"github.com/RajoGon/ai-workout-assistant/service/ragdetect"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 提示词模板里互不重复的片段，用于路由替身模型的回答
const (
	intentDetectKey = "determine the user's intent"
	suggestedKey    = "suggested and confirmed"
	ragChatKey      = "helpful assistant with access"
	matchWorkoutKey = "best matching workout"
)

func newOrchestrator(f *testutil.FakeFactory, gen *testutil.FakeGenerator) *Service {
	emb := &testutil.FakeEmbedder{}
	history := chathistory.NewService(f, nil, time.Minute, 50)
	workouts := workoututil.NewService(f, gen, emb, 10)
	rag := ragchat.NewService(f, gen, emb, history, 5, 0.7, 10)
	return NewService(f,
		classify.NewService(gen),
		intentdetect.NewService(gen),
		fieldextract.NewService(gen),
		ragdetect.NewService(f, gen),
		rag,
		history,
		workouts,
		handler.NewFactory(f, workouts),
		6, 5)
}

func decodeIntentFields(t *testing.T, intent *entity.ChatIntent) *model.WorkoutFields {
	t.Helper()
	fields, err := model.DecodeWorkoutFields(intent.Metadata)
	require.NoError(t, err)
	return fields
}

func TestCreateHappyPath(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "create", "extractedFields": {"type": "Running", "startDate": "tomorrow at 6pm"}}`,
	}}
	svc := newOrchestrator(f, gen)
	ctx := context.Background()

	// 必填齐了，追问可选字段
	reply := svc.ProcessMessage(ctx, "u1", "c1", "schedule a run tomorrow at 6pm")
	assert.Contains(t, reply, "Great! I have the required information. Would you also like to add:")
	assert.Contains(t, reply, "distance (e.g., 5 km)")

	require.Len(t, f.Intents, 1)
	intent := f.Intents[0]
	assert.Equal(t, "create", intent.IntentType)
	assert.False(t, intent.Fulfilled)
	fields := decodeIntentFields(t, intent)
	assert.True(t, fields.AskedOptional)
	require.NotNil(t, fields.StartDate)

	// skip 跳过可选字段，直接落库
	reply = svc.ProcessMessage(ctx, "u1", "c1", "skip")
	assert.Contains(t, reply, "✅ Workout scheduled successfully!")
	assert.Contains(t, reply, "• Type: Running")

	require.Len(t, f.Workouts, 1)
	assert.Equal(t, "Running", f.Workouts[0].Type)
	assert.NotNil(t, f.Workouts[0].StartDate)
	assert.True(t, f.Intents[0].Fulfilled)
	require.Len(t, f.EmbeddingUpserts, 1)
}

func TestSlotFillingContinuation(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey:                    `{"intentType": "create", "extractedFields": {"type": "Swimming"}}`,
		`USER RESPONSE: "tomorrow at 7am"`: `{"startDate": "tomorrow at 7am"}`,
	}}
	svc := newOrchestrator(f, gen)
	ctx := context.Background()

	reply := svc.ProcessMessage(ctx, "u1", "c1", "add a swim session")
	assert.Contains(t, reply, "I need some more information to create your workout:")
	assert.Contains(t, reply, "start date and time")

	require.Len(t, f.Intents, 1)
	missing, err := model.DecodeStringList(f.Intents[0].MissingFields)
	require.NoError(t, err)
	assert.Equal(t, []string{constant.FieldStartDate}, missing)

	// 续轮补上开始时间后进入可选字段确认
	reply = svc.ProcessMessage(ctx, "u1", "c1", "tomorrow at 7am")
	assert.Contains(t, reply, "Great! I have the required information.")

	fields := decodeIntentFields(t, f.Intents[0])
	require.NotNil(t, fields.StartDate)
	missing, err = model.DecodeStringList(f.Intents[0].MissingFields)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Len(t, f.Intents, 1)
}

func TestRagDetourAndConfirmation(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "create", "extractedFields": {"type": "Running"}}`,
		ragChatKey:      "How about running tomorrow at 6pm? That slot worked well for you before.",
		suggestedKey:    `{"startDate": "tomorrow at 6pm"}`,
	}}
	svc := newOrchestrator(f, gen)
	ctx := context.Background()

	reply := svc.ProcessMessage(ctx, "u1", "c1", "schedule a run")
	assert.Contains(t, reply, "I need some more information")

	// 求建议绕行 RAG，意图保持开放，上下文落库
	reply = svc.ProcessMessage(ctx, "u1", "c1", "suggest a good time for running")
	assert.Contains(t, reply, "How about running tomorrow at 6pm?")
	assert.False(t, f.Intents[0].Fulfilled)
	assert.Contains(t, f.Intents[0].IntentContext, "Still missing: startDate")

	// 建议回复被标记，供下一轮确认识别
	last := f.Messages[len(f.Messages)-1]
	assert.Equal(t, entity.ChatRoleAssistant, last.Role)
	assert.Equal(t, constant.MessageKindSuggestion, last.Kind)

	// 确认建议后从对话里收割字段
	reply = svc.ProcessMessage(ctx, "u1", "c1", "sounds good, book it")
	assert.Contains(t, reply, "Great! I have the required information.")

	fields := decodeIntentFields(t, f.Intents[0])
	require.NotNil(t, fields.StartDate)
}

func TestUpdateNotFoundRecovery(t *testing.T) {
	f := testutil.NewFakeFactory()
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Running", StartDate: &start}))

	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey:                 `{"intentType": "update", "extractedFields": {}}`,
		matchWorkoutKey:                 "null",
		`USER RESPONSE: "the marathon"`: `{"workoutIdentifier": "the marathon"}`,
		`USER RESPONSE: "1"`:            `{"workoutIdentifier": "1"}`,
	}}
	svc := newOrchestrator(f, gen)
	ctx := context.Background()

	// update 缺目标记录时直接列候选，不走文本追问
	reply := svc.ProcessMessage(ctx, "u1", "c1", "update my workout")
	assert.Contains(t, reply, "Which workout would you like to update?")
	assert.Contains(t, reply, "1. 📅 Running - 2025-08-19 18:00")
	assert.Contains(t, reply, "Please specify by number (1-1) or describe it.")
	assert.NotContains(t, reply, "I need some more information")
	assert.False(t, f.Intents[0].Fulfilled)

	// 描述匹配不到：清掉无效描述并列出候选
	reply = svc.ProcessMessage(ctx, "u1", "c1", "the marathon")
	assert.Contains(t, reply, constant.ReplyWorkoutNotFound)
	assert.Contains(t, reply, "Which workout would you like to update?")
	assert.Contains(t, reply, "1. 📅 Running - 2025-08-19 18:00")
	assert.Contains(t, reply, "Please specify by number (1-1) or describe it.")

	fields := decodeIntentFields(t, f.Intents[0])
	assert.Nil(t, fields.WorkoutIdentifier)
	assert.False(t, fields.AskedOptional)

	// 序号定位成功，锁定记录并追问可选字段
	reply = svc.ProcessMessage(ctx, "u1", "c1", "1")
	assert.Contains(t, reply, "Great! I found the workout: 📅 Running - 2025-08-19 18:00")
	assert.Contains(t, reply, "Would you also like to update:")
	assert.Equal(t, "w1", f.Intents[0].WorkoutID)

	reply = svc.ProcessMessage(ctx, "u1", "c1", "skip")
	assert.Contains(t, reply, "✅ Workout updated successfully!")
	assert.True(t, f.Intents[0].Fulfilled)
}

func TestUpdateWithNoWorkoutsYet(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "update", "extractedFields": {}}`,
	}}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "update my workout")
	assert.Equal(t, constant.ReplyNoWorkouts, reply)
	assert.False(t, f.Intents[0].Fulfilled)
}

func TestUpdateStaleIdentifierAtExecution(t *testing.T) {
	f := testutil.NewFakeFactory()
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Running", StartDate: &start}))

	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "update", "extractedFields": {"workoutIdentifier": "the marathon", "type": "Running", "distance": 8, "idealDuration": 40, "startDate": "tomorrow at 6pm", "endDate": "tomorrow at 7pm"}}`,
		matchWorkoutKey: "null",
	}}
	svc := newOrchestrator(f, gen)

	// 一轮给全字段时跳过可选字段确认，执行阶段才发现描述匹配不到
	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "update the marathon, make it 8km tomorrow 6pm to 7pm")
	assert.Contains(t, reply, constant.ReplyWorkoutNotFound)
	assert.Contains(t, reply, "Which workout would you like to update?")
	assert.Contains(t, reply, "1. 📅 Running - 2025-08-19 18:00")

	// 失效的描述被清掉，意图保持开放
	fields := decodeIntentFields(t, f.Intents[0])
	assert.Nil(t, fields.WorkoutIdentifier)
	assert.False(t, f.Intents[0].Fulfilled)
	assert.Nil(t, f.Workouts[0].Distance)
}

func TestRetrieveListsRecentWorkouts(t *testing.T) {
	f := testutil.NewFakeFactory()
	start := time.Date(2025, 8, 19, 18, 0, 0, 0, time.UTC)
	repo, err := f.NewWorkoutRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(&entity.Workout{WorkoutID: "w1", UserID: "u1", Type: "Running", StartDate: &start}))

	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "retrieve", "extractedFields": {}}`,
	}}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "show my workout schedule")
	assert.Contains(t, reply, "Here are your recent workouts:")
	assert.Contains(t, reply, "1. 📅 Running")

	// retrieve 一轮即终结
	assert.True(t, f.Intents[0].Fulfilled)
}

func TestRetrieveWithNoWorkouts(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "retrieve", "extractedFields": {}}`,
	}}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "show my workout schedule")
	assert.Equal(t, constant.ReplyNoWorkouts, reply)
	assert.True(t, f.Intents[0].Fulfilled)
}

func TestUnknownIntentClarifiesWithoutOpeningIntent(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "unknown", "extractedFields": {}}`,
	}}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "modify it somehow maybe")
	assert.Equal(t, constant.ReplyUnknownIntent, reply)
	assert.Empty(t, f.Intents)

	// 澄清回复也落库
	require.Len(t, f.Messages, 2)
	assert.Equal(t, constant.ReplyUnknownIntent, f.Messages[1].Content)
}

func TestClassifyRoutesToRagConversation(t *testing.T) {
	f := testutil.NewFakeFactory()
	f.SearchResults = []*entity.WorkoutEmbedding{{Content: "Workout type: Running. Completed: Yes."}}
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		ragChatKey: "You ran three times last week.",
	}}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "how often did I exercise lately?")
	assert.Equal(t, "You ran three times last week.", reply)

	// 闲聊问答不开意图，回复不带建议标记
	assert.Empty(t, f.Intents)
	require.Len(t, f.Messages, 2)
	assert.Empty(t, f.Messages[1].Kind)
}

func TestGenericErrorFallback(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Err: assert.AnError}
	svc := newOrchestrator(f, gen)

	reply := svc.ProcessMessage(context.Background(), "u1", "c1", "how often did I exercise lately?")
	assert.Equal(t, constant.ReplyGenericError, reply)
}

func TestContinuationExtractionError(t *testing.T) {
	f := testutil.NewFakeFactory()
	gen := &testutil.FakeGenerator{Responses: map[string]string{
		intentDetectKey: `{"intentType": "create", "extractedFields": {"type": "Running"}}`,
	}}
	svc := newOrchestrator(f, gen)
	ctx := context.Background()

	reply := svc.ProcessMessage(ctx, "u1", "c1", "schedule a run")
	assert.Contains(t, reply, "I need some more information")

	// 续轮抽取失败只道歉，意图保持开放等待重试
	gen.Err = assert.AnError
	reply = svc.ProcessMessage(ctx, "u1", "c1", "tomorrow at 7am")
	assert.Equal(t, constant.ReplyContinuationError, reply)
	assert.False(t, f.Intents[0].Fulfilled)
}
