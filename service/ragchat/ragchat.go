// Package ragchat 基于历史锻炼向量检索的对话
package ragchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients/embedding"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/service/chathistory"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	defaultSearchLimit     = 5
	defaultSearchThreshold = 0.7
	defaultHistoryLimit    = 10
)

type Service struct {
	repositoryFactory factory.Factory
	generator         clients.TextGenerator
	embedder          clients.Embedder
	history           *chathistory.Service
	searchLimit       int
	searchThreshold   float64
	historyLimit      int
}

func NewService(repositoryFactory factory.Factory, generator clients.TextGenerator, embedder clients.Embedder,
	history *chathistory.Service, searchLimit int, searchThreshold float64, historyLimit int) *Service {
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	if searchThreshold <= 0 {
		searchThreshold = defaultSearchThreshold
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{
		repositoryFactory: repositoryFactory,
		generator:         generator,
		embedder:          embedder,
		history:           history,
		searchLimit:       searchLimit,
		searchThreshold:   searchThreshold,
		historyLimit:      historyLimit,
	}
}

// HybridConversation 检索相关锻炼记录作为上下文回答用户。
// 用户消息和助手回复都在这里落库；tagSuggestion 为 true 时助手回复标记为建议，
// 供后续轮次的建议确认识别。
func (s *Service) HybridConversation(ctx context.Context, userID, chatID, prompt, intentContext string, tagSuggestion bool) (string, error) {
	if err := s.history.Append(ctx, &entity.ChatMessage{
		UserID:  userID,
		ChatID:  chatID,
		Role:    entity.ChatRoleUser,
		Content: prompt,
	}); err != nil {
		return "", err
	}

	// 检索失败只降级为无上下文对话
	contextDocs := s.searchContext(ctx, userID, prompt)

	recent, err := s.history.GetRecent(ctx, userID, chatID, s.historyLimit)
	if err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(recent)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(constant.RagSystemPromptTemplate,
			strings.Join(contextDocs, "\n"), intentContext),
	})
	for _, m := range recent {
		role := openai.ChatMessageRoleUser
		if m.Role == entity.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	reply, err := s.generator.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("hybrid conversation call failed: %w", err)
	}

	assistant := &entity.ChatMessage{
		UserID:  userID,
		ChatID:  chatID,
		Role:    entity.ChatRoleAssistant,
		Content: reply,
	}
	if tagSuggestion {
		assistant.Kind = constant.MessageKindSuggestion
	}
	if err := s.history.Append(ctx, assistant); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *Service) searchContext(ctx context.Context, userID, prompt string) []string {
	vector, err := s.embedder.GetTextEmbedding(ctx, prompt)
	if err != nil {
		log.Warnf("failed to embed prompt for retrieval: %v", err)
		return nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewWorkoutEmbeddingRepository(session)
	if err != nil {
		log.Warnf("failed to open embedding repository: %v", err)
		return nil
	}

	threshold := s.searchThreshold
	results, err := repo.VectorSearch(&model.VectorSearchCondition{
		UserID:      userID,
		QueryVector: embedding.VectorToString(vector),
		Limit:       s.searchLimit,
		Threshold:   &threshold,
	})
	if err != nil {
		log.Warnf("vector search failed: %v", err)
		return nil
	}

	docs := make([]string, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Content)
	}
	return docs
}
