package llm_model

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/RajoGon/ai-workout-assistant/config"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/suite"
)

type ClientChatModelTest struct {
	suite.Suite
}

func (c *ClientChatModelTest) SetupTest() {
	// 重置单例状态（用于测试）
	instance = nil
	once = sync.Once{}
}

// 配置不完整时跳过依赖外部服务的用例
func (c *ClientChatModelTest) skipIfNotConfigured() bool {
	cfg := config.GetInstance()
	addr := cfg.GetString(config.ClientChatModelAddr)
	model := cfg.GetString(config.ClientChatModelModel)
	token := os.Getenv(OSModelApiKey)

	if addr == "" || model == "" || token == "" {
		c.T().Skip("Skipping test: chat model config not set")
		return true
	}
	return false
}

func (c *ClientChatModelTest) TestPostChatCompletionsNonStream_Success() {
	if c.skipIfNotConfigured() {
		return
	}

	client := GetInstance()
	c.NotNil(client)

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: "你好，请介绍一下你自己",
		},
	}

	response, err := client.PostChatCompletionsNonStream(context.Background(), messages)

	c.Nil(err, "should not return error")
	c.NotNil(response, "response should not be nil")
	if response != nil {
		c.Greater(len(response.Choices), 0, "should have at least one choice")
		if len(response.Choices) > 0 {
			c.NotEmpty(response.Choices[0].Message.Content, "message content should not be empty")
		}
	}
}

func (c *ClientChatModelTest) TestChat_Success() {
	if c.skipIfNotConfigured() {
		return
	}

	client := GetInstance()
	c.NotNil(client)

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "你是一个有用的AI助手",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: "请用一句话介绍Go语言",
		},
	}

	content, err := client.Chat(context.Background(), messages)

	c.Nil(err, "should not return error")
	c.NotEmpty(content, "content should not be empty")
}

func (c *ClientChatModelTest) TestGenerate_Success() {
	if c.skipIfNotConfigured() {
		return
	}

	client := GetInstance()
	c.NotNil(client)

	content, err := client.Generate(context.Background(), "请回答：1+1等于几？")

	c.Nil(err, "should not return error")
	c.NotEmpty(content, "content should not be empty")
}

func (c *ClientChatModelTest) TestGenerate_MatchesChat() {
	if c.skipIfNotConfigured() {
		return
	}

	client := GetInstance()
	c.NotNil(client)

	// Generate 等价于单条 user 消息的 Chat 调用
	content, err := client.Generate(context.Background(), "请回答：2+2等于几？")
	c.Nil(err)
	c.NotEmpty(content)
}

func TestClientChatModel(t *testing.T) {
	suite.Run(t, new(ClientChatModelTest))
}
