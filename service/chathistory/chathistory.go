// Package chathistory 会话消息的持久化与 redis 读穿缓存
package chathistory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "chat:"

type Service struct {
	repositoryFactory factory.Factory
	cache             redis.Cmdable // 为 nil 时直接读库
	ttl               time.Duration
	maxMessages       int
}

// NewService 创建会话历史服务。cache 允许为 nil，此时退化为直接读库。
func NewService(repositoryFactory factory.Factory, cache redis.Cmdable, ttl time.Duration, maxMessages int) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxMessages <= 0 {
		maxMessages = 50
	}
	return &Service{
		repositoryFactory: repositoryFactory,
		cache:             cache,
		ttl:               ttl,
		maxMessages:       maxMessages,
	}
}

// Append 落库一条消息并使该会话的缓存失效
func (s *Service) Append(ctx context.Context, msg *entity.ChatMessage) error {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatMessageRepository(session)
	if err != nil {
		return err
	}

	if err := repo.Insert([]*entity.ChatMessage{msg}); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKeyPrefix+msg.ChatID).Err(); err != nil {
			log.Warnf("failed to invalidate chat history cache for chat %s: %v", msg.ChatID, err)
		}
	}
	return nil
}

// GetRecent 获取会话最近的消息（时间升序）。
// 先读缓存，未命中时回库重建；缓存故障时降级为直接读库。
func (s *Service) GetRecent(ctx context.Context, userID, chatID string, limit int) ([]*entity.ChatMessage, error) {
	if limit <= 0 || limit > s.maxMessages {
		limit = s.maxMessages
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKeyPrefix+chatID).Result()
		if err == nil {
			var cached []*entity.ChatMessage
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return tail(cached, limit), nil
			}
			log.Warnf("corrupt chat history cache for chat %s, rebuilding", chatID)
		} else if err != redis.Nil {
			log.Warnf("chat history cache read failed for chat %s: %v", chatID, err)
		}
	}

	messages, err := s.loadFromStore(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(messages); jsonErr == nil {
			if err := s.cache.Set(ctx, cacheKeyPrefix+chatID, data, s.ttl).Err(); err != nil {
				log.Warnf("chat history cache write failed for chat %s: %v", chatID, err)
			}
		}
	}

	return tail(messages, limit), nil
}

func (s *Service) loadFromStore(ctx context.Context, userID, chatID string) ([]*entity.ChatMessage, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatMessageRepository(session)
	if err != nil {
		return nil, err
	}
	return repo.GetRecentByChat(userID, chatID, s.maxMessages)
}

func tail(messages []*entity.ChatMessage, limit int) []*entity.ChatMessage {
	if limit > 0 && len(messages) > limit {
		return messages[len(messages)-limit:]
	}
	return messages
}
