package factory

import (
	"context"

	"github.com/RajoGon/ai-workout-assistant/repository"
	"github.com/RajoGon/ai-workout-assistant/repository/interfaces"
)

type Factory interface {
	NewSession(ctx context.Context) interfaces.Session
	NewChatMessageRepository(session interfaces.Session) (repository.ChatMessageRepository, error)
	NewChatIntentRepository(session interfaces.Session) (repository.ChatIntentRepository, error)
	NewWorkoutRepository(session interfaces.Session) (repository.WorkoutRepository, error)
	NewWorkoutEmbeddingRepository(session interfaces.Session) (repository.WorkoutEmbeddingRepository, error)
}
