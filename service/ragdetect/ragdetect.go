// Package ragdetect 建议模式切换与建议确认判定
package ragdetect

import (
	"context"
	"fmt"
	"strings"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"

	log "github.com/sirupsen/logrus"
)

type Service struct {
	repositoryFactory factory.Factory
	generator         clients.TextGenerator
}

func NewService(repositoryFactory factory.Factory, generator clients.TextGenerator) *Service {
	return &Service{
		repositoryFactory: repositoryFactory,
		generator:         generator,
	}
}

// ShouldUseRagMode 消息是否在求建议而不是补字段
func (s *Service) ShouldUseRagMode(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range constant.RagKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsConfirmingSuggestion 判断消息是否在接受上一条建议。
// 上一条助手消息必须是建议；先走关键词，再用严格 yes/no 的模型判定兜底。
func (s *Service) IsConfirmingSuggestion(ctx context.Context, userID, chatID, prompt string) (bool, error) {
	suggestion, err := s.lastSuggestion(ctx, userID, chatID)
	if err != nil {
		return false, err
	}
	if suggestion == nil {
		return false, nil
	}

	lower := strings.ToLower(prompt)
	for _, kw := range constant.ConfirmationKeywords {
		if strings.Contains(lower, kw) {
			return true, nil
		}
	}

	result, err := s.generator.Generate(ctx,
		fmt.Sprintf(constant.AffirmationPromptTemplate, suggestion.Content, prompt))
	if err != nil {
		log.Warnf("affirmation check failed, treating as not confirming: %v", err)
		return false, nil
	}
	return strings.Contains(strings.ToLower(result), "yes"), nil
}

// BuildIntentContext 生成 RAG 绕行时携带的意图上下文：
// 意图类型、缺失/可选字段和已收集的数据都作为检索对话的背景
func BuildIntentContext(intent *entity.ChatIntent, fields *model.WorkoutFields, missing, optional []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User has an active '%s' workout intent.", intent.IntentType)

	if len(missing) > 0 {
		fmt.Fprintf(&sb, " Still missing: %s.", strings.Join(missing, ", "))
	}
	if len(optional) > 0 {
		fmt.Fprintf(&sb, " Optional fields available: %s.", strings.Join(optional, ", "))
	}
	if fields != nil && !fields.IsZero() {
		if data, err := fields.Encode(); err == nil {
			fmt.Fprintf(&sb, " Current data: %s", data)
		}
	}
	return sb.String()
}

func (s *Service) lastSuggestion(ctx context.Context, userID, chatID string) (*entity.ChatMessage, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatMessageRepository(session)
	if err != nil {
		return nil, err
	}

	msg, err := repo.GetLastAssistantMessage(userID, chatID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Kind != constant.MessageKindSuggestion {
		return nil, nil
	}
	return msg, nil
}
