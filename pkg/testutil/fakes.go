// Package testutil 提供服务层测试用的确定性替身
package testutil

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// FakeGenerator 按提示词子串匹配返回预设文本
type FakeGenerator struct {
	// Responses 键为提示词子串，值为返回内容
	Responses map[string]string
	// Default 无匹配时的返回内容
	Default string
	// Err 非 nil 时所有调用返回该错误
	Err error
	// Prompts 记录收到的提示词，便于断言
	Prompts []string
}

func (f *FakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	for key, resp := range f.Responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return f.Default, nil
}

func (f *FakeGenerator) Chat(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return f.Generate(ctx, sb.String())
}

// FakeEmbedder 返回固定向量
type FakeEmbedder struct {
	Vector []float64
	Err    error
}

func (f *FakeEmbedder) GetTextEmbedding(_ context.Context, _ string) ([]float64, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Vector != nil {
		return f.Vector, nil
	}
	return []float64{0.1, 0.2, 0.3}, nil
}
