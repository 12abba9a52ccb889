package chathistory

import (
	"context"
	"testing"
	"time"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGetRecent(t *testing.T) {
	f := testutil.NewFakeFactory()
	svc := NewService(f, nil, time.Minute, 50)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c1", Role: entity.ChatRoleUser, Content: "hello"}))
	require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c1", Role: entity.ChatRoleAssistant, Content: "hi"}))

	messages, err := svc.GetRecent(ctx, "u1", "c1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi", messages[1].Content)
}

func TestGetRecentHonorsLimit(t *testing.T) {
	f := testutil.NewFakeFactory()
	svc := NewService(f, nil, time.Minute, 50)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c1", Role: entity.ChatRoleUser, Content: "msg"}))
	}
	require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c1", Role: entity.ChatRoleUser, Content: "latest"}))

	messages, err := svc.GetRecent(ctx, "u1", "c1", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "latest", messages[1].Content)
}

func TestGetRecentIsolatesChats(t *testing.T) {
	f := testutil.NewFakeFactory()
	svc := NewService(f, nil, time.Minute, 50)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c1", Role: entity.ChatRoleUser, Content: "one"}))
	require.NoError(t, svc.Append(ctx, &entity.ChatMessage{UserID: "u1", ChatID: "c2", Role: entity.ChatRoleUser, Content: "two"}))

	messages, err := svc.GetRecent(ctx, "u1", "c1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "one", messages[0].Content)
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(testutil.NewFakeFactory(), nil, 0, 0)
	assert.Equal(t, 30*time.Minute, svc.ttl)
	assert.Equal(t, 50, svc.maxMessages)
}
