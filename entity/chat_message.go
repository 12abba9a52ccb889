package entity

import "time"

const (
	TableNameChatMessages = "chat_messages"

	ChatMessagesFieldID        = "id"
	ChatMessagesFieldUserID    = "user_id"
	ChatMessagesFieldChatID    = "chat_id"
	ChatMessagesFieldRole      = "role"
	ChatMessagesFieldContent   = "content"
	ChatMessagesFieldKind      = "kind"
	ChatMessagesFieldCreatedAt = "created_at"
)

// 消息角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        int64     `xorm:"pk autoincr id" json:"id"`
	UserID    string    `xorm:"user_id" json:"user_id"`
	ChatID    string    `xorm:"chat_id" json:"chat_id"`
	Role      string    `xorm:"role" json:"role"`
	Content   string    `xorm:"content" json:"content"`
	Kind      string    `xorm:"kind" json:"kind"` // 空或 "suggestion"
	CreatedAt time.Time `xorm:"created created_at" json:"created_at"`
}

func (e *ChatMessage) TableName() string {
	return TableNameChatMessages
}
