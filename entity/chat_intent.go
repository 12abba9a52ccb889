package entity

import "time"

const (
	TableNameChatIntents = "chat_intents"

	ChatIntentsFieldID             = "id"
	ChatIntentsFieldUserID         = "user_id"
	ChatIntentsFieldChatID         = "chat_id"
	ChatIntentsFieldIntentType     = "intent_type"
	ChatIntentsFieldMetadata       = "metadata"
	ChatIntentsFieldMissingFields  = "missing_fields"
	ChatIntentsFieldOptionalFields = "optional_fields"
	ChatIntentsFieldFulfilled      = "fulfilled"
	ChatIntentsFieldWorkoutID      = "workout_id"
	ChatIntentsFieldIntentContext  = "intent_context"
	ChatIntentsFieldCreatedAt      = "created_at"
	ChatIntentsFieldUpdatedAt      = "updated_at"
)

type ChatIntent struct {
	ID             int64     `xorm:"pk autoincr id" json:"id"`
	UserID         string    `xorm:"user_id" json:"user_id"`
	ChatID         string    `xorm:"chat_id" json:"chat_id"`
	IntentType     string    `xorm:"intent_type" json:"intent_type"`
	Metadata       string    `xorm:"metadata" json:"metadata"`               // WorkoutFields JSON
	MissingFields  string    `xorm:"missing_fields" json:"missing_fields"`   // 字段名 JSON 数组
	OptionalFields string    `xorm:"optional_fields" json:"optional_fields"` // 字段名 JSON 数组
	Fulfilled      bool      `xorm:"fulfilled" json:"fulfilled"`
	WorkoutID      string    `xorm:"workout_id" json:"workout_id"`         // update 意图定位到的记录
	IntentContext  string    `xorm:"intent_context" json:"intent_context"` // RAG 绕行时的意图上下文
	CreatedAt      time.Time `xorm:"created created_at" json:"created_at"`
	UpdatedAt      time.Time `xorm:"updated updated_at" json:"updated_at"`
}

func (e *ChatIntent) TableName() string {
	return TableNameChatIntents
}
