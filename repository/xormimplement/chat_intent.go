package xormimplement

import (
	"fmt"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository"

	"xorm.io/builder"
)

type ChatIntentRepository struct {
	session *Session
}

func NewChatIntentRepository(session *Session) repository.ChatIntentRepository {
	return &ChatIntentRepository{session: session}
}

func (r *ChatIntentRepository) Insert(data *entity.ChatIntent) error {
	if data == nil {
		return fmt.Errorf("chat_intents data cannot be nil")
	}

	_, err := r.session.Table(entity.TableNameChatIntents).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert chat_intents: %w", err)
	}

	return nil
}

func (r *ChatIntentRepository) Update(id int64, req *model.UpdateChatIntentCondition) error {
	if id <= 0 {
		return fmt.Errorf("chat_intents id must be greater than 0")
	}
	if req == nil {
		return fmt.Errorf("update request cannot be nil")
	}

	updateData := make(map[string]interface{})
	if req.Metadata != nil {
		updateData[entity.ChatIntentsFieldMetadata] = *req.Metadata
	}
	if req.MissingFields != nil {
		updateData[entity.ChatIntentsFieldMissingFields] = *req.MissingFields
	}
	if req.OptionalFields != nil {
		updateData[entity.ChatIntentsFieldOptionalFields] = *req.OptionalFields
	}
	if req.Fulfilled != nil {
		updateData[entity.ChatIntentsFieldFulfilled] = *req.Fulfilled
	}
	if req.WorkoutID != nil {
		updateData[entity.ChatIntentsFieldWorkoutID] = *req.WorkoutID
	}
	if req.IntentContext != nil {
		updateData[entity.ChatIntentsFieldIntentContext] = *req.IntentContext
	}

	if len(updateData) == 0 {
		return fmt.Errorf("at least one field must be updated")
	}

	_, err := r.session.Table(entity.TableNameChatIntents).
		Where(builder.Eq{entity.ChatIntentsFieldID: id}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update chat_intents: %w", err)
	}

	return nil
}

func (r *ChatIntentRepository) Get(id int64) (*entity.ChatIntent, error) {
	if id <= 0 {
		return nil, fmt.Errorf("chat_intents id must be greater than 0")
	}

	result := &entity.ChatIntent{}
	ok, err := r.session.Table(entity.TableNameChatIntents).
		Where(builder.Eq{entity.ChatIntentsFieldID: id}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat_intents: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

// GetActive 获取会话最新的未完成意图
func (r *ChatIntentRepository) GetActive(userID, chatID string) (*entity.ChatIntent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat_id is required")
	}

	result := &entity.ChatIntent{}
	ok, err := r.session.Table(entity.TableNameChatIntents).
		Where(builder.Eq{
			entity.ChatIntentsFieldUserID:    userID,
			entity.ChatIntentsFieldChatID:    chatID,
			entity.ChatIntentsFieldFulfilled: false,
		}).
		OrderBy(entity.ChatIntentsFieldID + " DESC").
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get active chat_intents: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}
