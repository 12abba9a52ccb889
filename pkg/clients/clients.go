// Package clients 定义各服务依赖的模型能力接口，便于注入与测试替换
package clients

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// TextGenerator 文本生成能力
type TextGenerator interface {
	// Generate 单提示词调用，返回模型文本
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat 多消息调用，返回模型文本
	Chat(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// Embedder 文本向量化能力
type Embedder interface {
	GetTextEmbedding(ctx context.Context, text string) ([]float64, error)
}
