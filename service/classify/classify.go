// Package classify 把用户输入划分为 agent（动作指令）或 rag（咨询建议）
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"

	log "github.com/sirupsen/logrus"
)

const (
	CategoryAgent = "agent"
	CategoryRag   = "rag"

	ModeRules = "rules"
	ModeLLM   = "llm"
)

type Service struct {
	generator clients.TextGenerator
}

func NewService(generator clients.TextGenerator) *Service {
	return &Service{generator: generator}
}

// Classify 关键词规则分类：动作关键词与锻炼关键词同时命中才算 agent，
// 未命中归 rag，不调用模型。
func (s *Service) Classify(prompt string) string {
	lower := strings.ToLower(prompt)

	hasAction := containsAny(lower, constant.ActionKeywords)
	hasWorkout := containsAny(lower, constant.WorkoutKeywords)
	if hasAction && hasWorkout {
		return CategoryAgent
	}
	return CategoryRag
}

// ClassifyWithModel 大模型分类模式，由调用方显式选择；调用失败归 rag
func (s *Service) ClassifyWithModel(ctx context.Context, prompt string) string {
	result, err := s.generator.Generate(ctx, fmt.Sprintf(constant.ClassifyPromptTemplate, prompt))
	if err != nil {
		log.Warnf("classify llm call failed, defaulting to rag: %v", err)
		return CategoryRag
	}

	cleaned := strings.ToLower(strings.TrimSpace(result))
	if strings.Contains(cleaned, CategoryAgent) {
		return CategoryAgent
	}
	return CategoryRag
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
