package factory

import (
	"context"
	"sync"
	"time"

	"github.com/RajoGon/ai-workout-assistant/config"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients/embedding"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients/llm_model"
	redisclient "github.com/RajoGon/ai-workout-assistant/pkg/clients/redis"
	repofactory "github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/repository/xormimplement"
	"github.com/RajoGon/ai-workout-assistant/service/chathistory"
	"github.com/RajoGon/ai-workout-assistant/service/classify"
	"github.com/RajoGon/ai-workout-assistant/service/fieldextract"
	"github.com/RajoGon/ai-workout-assistant/service/handler"
	"github.com/RajoGon/ai-workout-assistant/service/intentdetect"
	"github.com/RajoGon/ai-workout-assistant/service/orchestrator"
	"github.com/RajoGon/ai-workout-assistant/service/ragchat"
	"github.com/RajoGon/ai-workout-assistant/service/ragdetect"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	goredis "github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var instance *Factory
var once sync.Once

// 创建
type Factory struct {
	repositoryFactory repofactory.Factory
	generator         clients.TextGenerator
	embedder          clients.Embedder
	cache             goredis.Cmdable
}

// 实例化instance
func init() {
	once.Do(func() {
		var cache goredis.Cmdable
		if rc, err := redisclient.GetInstance(); err != nil {
			// 缓存不可用时直接读库
			log.Warnf("redis unavailable, chat history cache disabled: %v", err)
		} else {
			cache = rc.Client
		}

		instance = &Factory{
			repositoryFactory: xormimplement.GetRepositoryFactoryInstance(),
			generator:         llm_model.GetInstance(),
			embedder:          lazyEmbedder{},
			cache:             cache,
		}
	})
}

// 单例模式，
func GetServiceFactory() *Factory {
	return instance
}

// NewChatHistoryService 获取会话历史服务
func (f *Factory) NewChatHistoryService() *chathistory.Service {
	conf := config.GetInstance()
	return chathistory.NewService(
		f.repositoryFactory,
		f.cache,
		time.Duration(conf.GetIntOrDefault(config.CacheChatTTLSeconds, 1800))*time.Second,
		conf.GetIntOrDefault(config.CacheChatMaxMessages, 50),
	)
}

// NewRagChatService 获取检索增强对话服务
func (f *Factory) NewRagChatService() *ragchat.Service {
	conf := config.GetInstance()
	return ragchat.NewService(
		f.repositoryFactory,
		f.generator,
		f.embedder,
		f.NewChatHistoryService(),
		conf.GetIntOrDefault(config.RagSearchLimit, 5),
		conf.GetFloat64OrDefault(config.RagSearchThreshold, 0.7),
		conf.GetIntOrDefault(config.RagHistoryLimit, 10),
	)
}

// NewClassifyService 获取消息分类服务
func (f *Factory) NewClassifyService() *classify.Service {
	return classify.NewService(f.generator)
}

// NewWorkoutService 获取锻炼记录定位与向量维护服务
func (f *Factory) NewWorkoutService() *workoututil.Service {
	return workoututil.NewService(
		f.repositoryFactory,
		f.generator,
		f.embedder,
		config.GetInstance().GetIntOrDefault(config.AgentWorkoutLookupLimit, 10),
	)
}

// NewOrchestratorService 获取多轮意图编排服务
func (f *Factory) NewOrchestratorService() *orchestrator.Service {
	conf := config.GetInstance()
	workouts := f.NewWorkoutService()
	return orchestrator.NewService(
		f.repositoryFactory,
		f.NewClassifyService(),
		intentdetect.NewService(f.generator),
		fieldextract.NewService(f.generator),
		ragdetect.NewService(f.repositoryFactory, f.generator),
		f.NewRagChatService(),
		f.NewChatHistoryService(),
		workouts,
		handler.NewFactory(f.repositoryFactory, workouts),
		conf.GetIntOrDefault(config.AgentRetrieveListLimit, 6),
		conf.GetIntOrDefault(config.AgentHistoryLimit, 5),
	)
}

// lazyEmbedder 把向量化客户端的初始化错误推迟到调用时返回，
// 缺少 API Key 时服务仍可启动，相关功能按调用降级。
type lazyEmbedder struct{}

func (lazyEmbedder) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	client, err := embedding.GetInstance()
	if err != nil {
		return nil, err
	}
	return client.GetTextEmbedding(ctx, text)
}
