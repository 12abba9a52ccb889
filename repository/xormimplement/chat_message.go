package xormimplement

import (
	"fmt"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository"

	"xorm.io/builder"
)

type ChatMessageRepository struct {
	session *Session
}

func NewChatMessageRepository(session *Session) repository.ChatMessageRepository {
	return &ChatMessageRepository{session: session}
}

func buildChatMessagesQueryConditions(condition *model.GetChatMessagesCondition) builder.Cond {
	var conds []builder.Cond

	if condition.UserID != nil && *condition.UserID != "" {
		conds = append(conds, builder.Eq{entity.ChatMessagesFieldUserID: *condition.UserID})
	}
	if condition.ChatID != nil && *condition.ChatID != "" {
		conds = append(conds, builder.Eq{entity.ChatMessagesFieldChatID: *condition.ChatID})
	}
	if condition.Role != nil && *condition.Role != "" {
		conds = append(conds, builder.Eq{entity.ChatMessagesFieldRole: *condition.Role})
	}

	if len(conds) == 0 {
		return nil
	}
	return builder.And(conds...)
}

func (r *ChatMessageRepository) Insert(data []*entity.ChatMessage) error {
	if len(data) == 0 {
		return fmt.Errorf("chat_messages data cannot be empty")
	}

	for _, item := range data {
		if item == nil {
			return fmt.Errorf("chat_messages item cannot be nil")
		}
	}

	_, err := r.session.Table(entity.TableNameChatMessages).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert chat_messages: %w", err)
	}

	return nil
}

func (r *ChatMessageRepository) List(condition *model.GetChatMessagesCondition) ([]*entity.ChatMessage, error) {
	if condition == nil {
		return nil, fmt.Errorf("get condition cannot be nil")
	}

	cond := buildChatMessagesQueryConditions(condition)

	session := r.session.Table(entity.TableNameChatMessages)
	if cond != nil {
		session = session.Where(cond)
	}

	pagerOrder(session, condition, WithDefaultOrderField(entity.ChatMessagesFieldCreatedAt))

	var results []*entity.ChatMessage
	if err := session.Find(&results); err != nil {
		return nil, fmt.Errorf("failed to list chat_messages: %w", err)
	}

	return results, nil
}

// GetRecentByChat 获取会话最近的 N 条消息
func (r *ChatMessageRepository) GetRecentByChat(userID, chatID string, limit int) ([]*entity.ChatMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat_id is required")
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*entity.ChatMessage
	err := r.session.Table(entity.TableNameChatMessages).
		Where(builder.Eq{
			entity.ChatMessagesFieldUserID: userID,
			entity.ChatMessagesFieldChatID: chatID,
		}).
		OrderBy(entity.ChatMessagesFieldID + " DESC").
		Limit(limit).
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent chat_messages: %w", err)
	}

	// 反转结果，使其按时间升序排列
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	return results, nil
}

// GetLastAssistantMessage 获取会话最新一条助手消息
func (r *ChatMessageRepository) GetLastAssistantMessage(userID, chatID string) (*entity.ChatMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat_id is required")
	}

	result := &entity.ChatMessage{}
	ok, err := r.session.Table(entity.TableNameChatMessages).
		Where(builder.Eq{
			entity.ChatMessagesFieldUserID: userID,
			entity.ChatMessagesFieldChatID: chatID,
			entity.ChatMessagesFieldRole:   entity.ChatRoleAssistant,
		}).
		OrderBy(entity.ChatMessagesFieldID + " DESC").
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get last assistant message: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}
