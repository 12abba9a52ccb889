// Package fieldextract 续轮补充字段抽取与建议确认后的字段收割
package fieldextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/dateparse"
	"github.com/RajoGon/ai-workout-assistant/pkg/llmjson"

	log "github.com/sirupsen/logrus"
)

const skipWord = "skip"

// suggestionHistoryWindow 建议收割时回看的消息条数
const suggestionHistoryWindow = 5

type Service struct {
	generator clients.TextGenerator
}

func NewService(generator clients.TextGenerator) *Service {
	return &Service{generator: generator}
}

// Extract 从续轮回复里抽取补充字段。
// 回复里带 skip 时直接返回空字段；模型输出不可解析时同样返回空字段。
func (s *Service) Extract(ctx context.Context, prompt string, current *model.WorkoutFields) (*model.WorkoutFields, error) {
	if strings.Contains(strings.ToLower(prompt), skipWord) {
		return &model.WorkoutFields{}, nil
	}

	llmPrompt := fmt.Sprintf(constant.FieldExtractionPromptTemplate,
		strings.Join(constant.WorkoutTypes, ", "),
		obtainedDateSections(current),
		prompt)

	raw, err := s.generator.Generate(ctx, llmPrompt)
	if err != nil {
		return nil, fmt.Errorf("field extraction call failed: %w", err)
	}

	var extracted model.ExtractedFields
	if err := llmjson.Unmarshal(raw, &extracted); err != nil {
		log.Warnf("field extraction response unparseable, treating as empty: %v", err)
		return &model.WorkoutFields{}, nil
	}

	return extracted.Resolve(prompt, time.Now()), nil
}

// ExtractSuggested 从最近对话里收割被建议并确认的字段。
// 没有明确确认的内容时返回空字段，由调用方回退到普通续轮抽取。
func (s *Service) ExtractSuggested(ctx context.Context, history []*entity.ChatMessage, intentType constant.IntentType, missing []string) (*model.WorkoutFields, error) {
	conversation := formatConversation(history, suggestionHistoryWindow)

	missingJSON, err := json.Marshal(missing)
	if err != nil {
		return nil, fmt.Errorf("failed to encode missing fields: %w", err)
	}

	llmPrompt := fmt.Sprintf(constant.SuggestedFieldsPromptTemplate,
		conversation, intentType.String(), string(missingJSON))

	raw, err := s.generator.Generate(ctx, llmPrompt)
	if err != nil {
		return nil, fmt.Errorf("suggested field extraction call failed: %w", err)
	}

	var extracted model.ExtractedFields
	if err := llmjson.Unmarshal(raw, &extracted); err != nil {
		log.Warnf("suggested field response unparseable, treating as empty: %v", err)
		return &model.WorkoutFields{}, nil
	}

	if extracted.IsEmpty() {
		return &model.WorkoutFields{}, nil
	}
	return extracted.Resolve("", time.Now()), nil
}

// obtainedDateSections 已捕获日期时提醒模型在其基础上追加而不是覆盖
func obtainedDateSections(current *model.WorkoutFields) string {
	if current == nil {
		return ""
	}
	var sections []string
	if current.StartDate != nil {
		sections = append(sections, fmt.Sprintf(constant.ObtainedStartDatePromptTemplate,
			current.StartDate.Format(dateparse.DisplayLayout)))
	}
	if current.EndDate != nil {
		sections = append(sections, fmt.Sprintf(constant.ObtainedEndDatePromptTemplate,
			current.EndDate.Format(dateparse.DisplayLayout)))
	}
	return strings.Join(sections, "\n")
}

func formatConversation(history []*entity.ChatMessage, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}
