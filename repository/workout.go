package repository

import (
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
)

type WorkoutRepository interface {
	Insert(data *entity.Workout) error
	Update(id int64, req *model.UpdateWorkoutCondition) error
	// GetByWorkoutID 按业务 uuid 查询，未找到时返回 (nil, nil)
	GetByWorkoutID(userID, workoutID string) (*entity.Workout, error)
	// ListRecentByUser 按开始时间倒序列出最近的记录
	ListRecentByUser(userID string, limit int) ([]*entity.Workout, error)
	// SetEmbeddingGenerated 标记向量已生成
	SetEmbeddingGenerated(workoutID string) error
}
