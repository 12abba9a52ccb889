// Package intentdetect 新消息的意图检测与首轮字段抽取
package intentdetect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/llmjson"

	log "github.com/sirupsen/logrus"
)

type Service struct {
	generator clients.TextGenerator
}

func NewService(generator clients.TextGenerator) *Service {
	return &Service{generator: generator}
}

// Detect 检测消息的意图类型并抽取首轮字段。
// 模型输出不可解析时返回 unknown 与空字段，不向上抛错。
func (s *Service) Detect(ctx context.Context, prompt string) (constant.IntentType, *model.WorkoutFields, error) {
	llmPrompt := fmt.Sprintf(constant.IntentDetectionPromptTemplate,
		strings.Join(constant.WorkoutTypes, ", "), prompt)

	raw, err := s.generator.Generate(ctx, llmPrompt)
	if err != nil {
		return "", nil, fmt.Errorf("intent detection call failed: %w", err)
	}

	var result model.IntentDetectionResult
	if err := llmjson.Unmarshal(raw, &result); err != nil {
		log.Warnf("intent detection response unparseable, treating as unknown: %v", err)
		return constant.IntentTypeUnknown, &model.WorkoutFields{}, nil
	}

	intentType := constant.IntentType(result.IntentType)
	if !intentType.IsValid() {
		intentType = constant.IntentTypeUnknown
	}

	fields := result.ExtractedFields.Resolve(prompt, time.Now())
	return intentType, fields, nil
}
