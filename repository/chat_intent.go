package repository

import (
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
)

type ChatIntentRepository interface {
	Insert(data *entity.ChatIntent) error
	Update(id int64, req *model.UpdateChatIntentCondition) error
	Get(id int64) (*entity.ChatIntent, error)
	// GetActive 获取会话最新的未完成意图，未找到时返回 (nil, nil)
	GetActive(userID, chatID string) (*entity.ChatIntent, error)
}
