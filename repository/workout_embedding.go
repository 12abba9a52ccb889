package repository

import (
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
)

type WorkoutEmbeddingRepository interface {
	// Upsert 按 workout_id 插入或更新向量
	Upsert(req *model.UpsertWorkoutEmbeddingCondition) error
	// VectorSearch 向量相似度检索
	VectorSearch(condition *model.VectorSearchCondition) ([]*entity.WorkoutEmbedding, error)
}
