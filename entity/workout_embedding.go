package entity

import "time"

const (
	TableNameWorkoutEmbeddings = "workout_embeddings"

	WorkoutEmbeddingsFieldID        = "id"
	WorkoutEmbeddingsFieldWorkoutID = "workout_id"
	WorkoutEmbeddingsFieldUserID    = "user_id"
	WorkoutEmbeddingsFieldContent   = "content"
	WorkoutEmbeddingsFieldEmbedding = "embedding"
	WorkoutEmbeddingsFieldMeta      = "meta"
	WorkoutEmbeddingsFieldUpdatedAt = "updated_at"
)

type WorkoutEmbedding struct {
	ID        int64     `xorm:"pk autoincr id" json:"id"`
	WorkoutID string    `xorm:"workout_id unique" json:"workout_id"`
	UserID    string    `xorm:"user_id" json:"user_id"`
	Content   string    `xorm:"content" json:"content"`
	Embedding string    `xorm:"embedding" json:"embedding"` // PostgreSQL vector 类型，存储为字符串
	Meta      string    `xorm:"meta" json:"meta"`           // JSONB 类型，存储为 JSON 字符串
	UpdatedAt time.Time `xorm:"updated updated_at" json:"updated_at"`
}

func (e *WorkoutEmbedding) TableName() string {
	return TableNameWorkoutEmbeddings
}
