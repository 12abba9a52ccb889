package xormimplement

import (
	"fmt"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository"
)

type WorkoutEmbeddingRepository struct {
	session *Session
}

func NewWorkoutEmbeddingRepository(session *Session) repository.WorkoutEmbeddingRepository {
	return &WorkoutEmbeddingRepository{session: session}
}

// Upsert 按 workout_id 插入或更新向量（每条锻炼记录一行）
func (r *WorkoutEmbeddingRepository) Upsert(req *model.UpsertWorkoutEmbeddingCondition) error {
	if req == nil {
		return fmt.Errorf("upsert request cannot be nil")
	}
	if req.WorkoutID == "" {
		return fmt.Errorf("workout_id is required")
	}
	if req.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if req.Embedding == "" {
		return fmt.Errorf("embedding is required")
	}

	meta := "{}"
	if req.Meta != nil {
		meta = *req.Meta
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (workout_id, user_id, content, embedding, meta, updated_at)
		VALUES ($1, $2, $3, $4::vector, $5, NOW())
		ON CONFLICT (workout_id)
		DO UPDATE SET content = EXCLUDED.content,
		              embedding = EXCLUDED.embedding,
		              meta = EXCLUDED.meta,
		              updated_at = NOW()
	`, entity.TableNameWorkoutEmbeddings)

	_, err := r.session.Exec(sql, req.WorkoutID, req.UserID, req.Content, req.Embedding, meta)
	if err != nil {
		return fmt.Errorf("failed to upsert workout_embeddings: %w", err)
	}

	return nil
}

// VectorSearch 向量相似度检索（使用 pgvector 的余弦相似度）
func (r *WorkoutEmbeddingRepository) VectorSearch(condition *model.VectorSearchCondition) ([]*entity.WorkoutEmbedding, error) {
	if condition == nil {
		return nil, fmt.Errorf("vector search condition cannot be nil")
	}
	if condition.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if condition.QueryVector == "" {
		return nil, fmt.Errorf("query_vector is required")
	}
	if condition.Limit <= 0 {
		condition.Limit = 10 // 默认返回10条
	}

	// 使用 pgvector 的 <=> 操作符进行余弦相似度计算
	// 1 - (embedding <=> query_vector) 得到相似度分数（越大越相似）
	sql := fmt.Sprintf(`
		SELECT id, workout_id, user_id, content, embedding, meta, updated_at,
		       1 - (embedding <=> '%s'::vector) as similarity
		FROM %s
		WHERE user_id = $1
	`, condition.QueryVector, entity.TableNameWorkoutEmbeddings)

	args := []interface{}{condition.UserID}

	if condition.Threshold != nil {
		sql += fmt.Sprintf(" AND (1 - (embedding <=> '%s'::vector)) >= $2", condition.QueryVector)
		args = append(args, *condition.Threshold)
	}

	// 按相似度降序排序并限制数量
	sql += fmt.Sprintf(" ORDER BY similarity DESC LIMIT %d", condition.Limit)

	var results []*entity.WorkoutEmbedding
	err := r.session.SQL(sql, args...).Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to vector search workout_embeddings: %w", err)
	}

	return results, nil
}
