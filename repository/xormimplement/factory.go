package xormimplement

import (
	"context"
	"fmt"
	"sync"

	"github.com/RajoGon/ai-workout-assistant/config"
	"github.com/RajoGon/ai-workout-assistant/repository"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/repository/interfaces"

	"github.com/sirupsen/logrus"
	"xorm.io/xorm"

	_ "github.com/lib/pq"
)

var once sync.Once
var instance *Factory

type Factory struct {
	// 连接 pg
	engine *xorm.Engine
}

// 获取一个factory实例
func GetRepositoryFactoryInstance() factory.Factory {
	once.Do(func() {
		instance = &Factory{
			engine: openDB(
				config.GetInstance().GetString(config.BaseDbXormType),
				config.GetInstance().GetString(config.BaseDbXormHost),
				config.GetInstance().GetString(config.BaseDbXormPort),
				config.GetInstance().GetString(config.BaseDbXormUsername),
				config.GetInstance().GetString(config.BaseDbXormName),
				config.GetInstance().GetString(config.BaseDbXormPassword),
				config.GetInstance().GetBool(config.BaseDbXormShowsql),
			),
		}
	})
	return instance
}

// 设置xorm的连接参数
func openDB(dbType string, host string, port string, userName string, name string, password string, showSql bool) *xorm.Engine {
	//拼接数据库参数
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		host,
		userName,
		password,
		name,
		port)
	//设置连接参数
	engine, err := xorm.NewEngine(dbType, dsn)
	if err != nil {
		logrus.Errorf("Database connection failed err: %v. Database name: %s", err, name)
		panic(err)
	}
	//是否展示sql文件
	engine.ShowSQL(showSql)
	return engine
}

// 创建一个会话
func (f *Factory) NewSession(ctx context.Context) interfaces.Session {
	return &Session{Session: f.engine.NewSession().Context(ctx)}
}

// NewChatMessageRepository 创建会话消息仓库
func (f *Factory) NewChatMessageRepository(session interfaces.Session) (repository.ChatMessageRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewChatMessageRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewChatIntentRepository 创建会话意图仓库
func (f *Factory) NewChatIntentRepository(session interfaces.Session) (repository.ChatIntentRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewChatIntentRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewWorkoutRepository 创建锻炼记录仓库
func (f *Factory) NewWorkoutRepository(session interfaces.Session) (repository.WorkoutRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewWorkoutRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewWorkoutEmbeddingRepository 创建锻炼向量仓库
func (f *Factory) NewWorkoutEmbeddingRepository(session interfaces.Session) (repository.WorkoutEmbeddingRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewWorkoutEmbeddingRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}
