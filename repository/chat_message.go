package repository

import (
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
)

type ChatMessageRepository interface {
	Insert(data []*entity.ChatMessage) error
	// List 按条件查询消息
	List(condition *model.GetChatMessagesCondition) ([]*entity.ChatMessage, error)
	// GetRecentByChat 获取会话最近的 N 条消息（时间升序返回）
	GetRecentByChat(userID, chatID string, limit int) ([]*entity.ChatMessage, error)
	// GetLastAssistantMessage 获取会话最新一条助手消息，未找到时返回 (nil, nil)
	GetLastAssistantMessage(userID, chatID string) (*entity.ChatMessage, error)
}
