package model

import "time"

// GetChatMessagesCondition 消息查询条件（带分页和排序）
type GetChatMessagesCondition struct {
	UserID *string `json:"user_id"`
	ChatID *string `json:"chat_id"`
	Role   *string `json:"role"`
	*Pager
	*Order
}

func (g *GetChatMessagesCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetChatMessagesCondition) GetOrder() *Order {
	return g.Order
}

// UpdateChatIntentCondition 意图更新条件
type UpdateChatIntentCondition struct {
	Metadata       *string `json:"metadata"`
	MissingFields  *string `json:"missing_fields"`
	OptionalFields *string `json:"optional_fields"`
	Fulfilled      *bool   `json:"fulfilled"`
	WorkoutID      *string `json:"workout_id"`
	IntentContext  *string `json:"intent_context"`
}

// UpdateWorkoutCondition 锻炼记录更新条件
type UpdateWorkoutCondition struct {
	Type           *string    `json:"type"`
	Distance       *float64   `json:"distance"`
	IdealDuration  *int       `json:"ideal_duration"`
	ActualDuration *int       `json:"actual_duration"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Completed      *bool      `json:"completed"`
}

// UpsertWorkoutEmbeddingCondition 锻炼向量 upsert 条件
type UpsertWorkoutEmbeddingCondition struct {
	WorkoutID string  `json:"workout_id"`
	UserID    string  `json:"user_id"`
	Content   string  `json:"content"`
	Embedding string  `json:"embedding"` // pgvector 字符串格式
	Meta      *string `json:"meta"`
}

// VectorSearchCondition 向量检索条件
type VectorSearchCondition struct {
	UserID      string   `json:"user_id"`
	QueryVector string   `json:"query_vector"` // 查询向量（字符串格式）
	Limit       int      `json:"limit"`        // 返回数量
	Threshold   *float64 `json:"threshold"`    // 相似度阈值（可选）
}
