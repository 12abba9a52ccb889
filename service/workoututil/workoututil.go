// Package workoututil 锻炼记录的格式化、定位与向量维护
package workoututil

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients"
	"github.com/RajoGon/ai-workout-assistant/pkg/clients/embedding"
	"github.com/RajoGon/ai-workout-assistant/pkg/dateparse"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"

	"github.com/RajoGon/ai-workout-assistant/constant"
)

var ordinalRe = regexp.MustCompile(`^(\d+)$`)

const lastWorkoutLiteral = "last workout"

type Service struct {
	repositoryFactory factory.Factory
	generator         clients.TextGenerator
	embedder          clients.Embedder
	lookupLimit       int
}

func NewService(repositoryFactory factory.Factory, generator clients.TextGenerator, embedder clients.Embedder, lookupLimit int) *Service {
	if lookupLimit <= 0 {
		lookupLimit = constant.DefaultPageLimit
	}
	return &Service{
		repositoryFactory: repositoryFactory,
		generator:         generator,
		embedder:          embedder,
		lookupLimit:       lookupLimit,
	}
}

// FormatSummary 单行摘要，用于候选列表和定位确认
func FormatSummary(w *entity.Workout) string {
	icon := "📅"
	if w.Completed {
		icon = "✅"
	}

	start := "Not scheduled"
	if w.StartDate != nil {
		start = w.StartDate.Format(dateparse.DisplayLayout)
	}

	summary := fmt.Sprintf("%s %s - %s", icon, w.Type, start)
	if w.Distance != nil {
		summary += fmt.Sprintf(" - %skm", formatFloat(*w.Distance))
	}
	if w.ActualDuration != nil {
		summary += fmt.Sprintf(" - %dmin", *w.ActualDuration)
	} else if w.IdealDuration != nil {
		summary += fmt.Sprintf(" - %dmin", *w.IdealDuration)
	}
	return summary
}

// FormatDetails 多行详情，用于创建/更新成功的回复
func FormatDetails(w *entity.Workout) string {
	start := "Not scheduled"
	if w.StartDate != nil {
		start = w.StartDate.Format(dateparse.DisplayLayout)
	}

	status := "Scheduled"
	if w.Completed {
		status = "Completed"
	}

	lines := []string{
		fmt.Sprintf("• Type: %s", w.Type),
		fmt.Sprintf("• Start: %s", start),
		fmt.Sprintf("• Status: %s", status),
	}
	if w.EndDate != nil {
		lines = append(lines, fmt.Sprintf("• End: %s", w.EndDate.Format(dateparse.DisplayLayout)))
	}
	if w.Distance != nil {
		lines = append(lines, fmt.Sprintf("• Distance: %s km", formatFloat(*w.Distance)))
	}
	if w.IdealDuration != nil {
		lines = append(lines, fmt.Sprintf("• Planned Duration: %d mins", *w.IdealDuration))
	}
	if w.ActualDuration != nil {
		lines = append(lines, fmt.Sprintf("• Actual Duration: %d mins", *w.ActualDuration))
	}
	return strings.Join(lines, "\n")
}

// FormatNumberedList 编号候选列表
func FormatNumberedList(workouts []*entity.Workout) string {
	lines := make([]string, 0, len(workouts))
	for i, w := range workouts {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, FormatSummary(w)))
	}
	return strings.Join(lines, "\n")
}

// EmbeddingText 用于向量化的描述文本
func EmbeddingText(w *entity.Workout) string {
	parts := []string{
		fmt.Sprintf("Workout type: %s", w.Type),
	}
	if w.StartDate != nil {
		parts = append(parts, fmt.Sprintf("Start date: %s", w.StartDate.Format("2006-01-02T15:04:05Z07:00")))
	}
	if w.EndDate != nil {
		parts = append(parts, fmt.Sprintf("End date: %s", w.EndDate.Format("2006-01-02T15:04:05Z07:00")))
	}
	if w.Distance != nil {
		parts = append(parts, fmt.Sprintf("Distance: %s km", formatFloat(*w.Distance)))
	}
	if w.IdealDuration != nil {
		parts = append(parts, fmt.Sprintf("Planned duration: %d minutes", *w.IdealDuration))
	}
	if w.ActualDuration != nil {
		parts = append(parts, fmt.Sprintf("Actual duration: %d minutes", *w.ActualDuration))
	}
	completed := "No"
	if w.Completed {
		completed = "Yes"
	}
	parts = append(parts, fmt.Sprintf("Completed: %s", completed))
	return strings.Join(parts, ". ") + "."
}

// ListRecent 最近的锻炼记录（创建时间倒序）
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Workout, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewWorkoutRepository(session)
	if err != nil {
		return nil, err
	}
	return repo.ListRecentByUser(userID, limit)
}

// FindForIntent 定位意图要操作的记录。
// 意图已锁定记录时直接按 id 取；否则按用户描述匹配。未找到返回 (nil, nil)。
func (s *Service) FindForIntent(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields) (*entity.Workout, error) {
	if intent.WorkoutID != "" {
		return s.getByWorkoutID(ctx, intent.UserID, intent.WorkoutID)
	}
	if fields.WorkoutIdentifier != nil && *fields.WorkoutIdentifier != "" {
		return s.FindByIdentifier(ctx, intent.UserID, *fields.WorkoutIdentifier)
	}
	return nil, nil
}

// FindByIdentifier 按用户描述定位记录：序号、"last workout" 字面量、模型模糊匹配三级。
// 未找到返回 (nil, nil)，不当作错误。
func (s *Service) FindByIdentifier(ctx context.Context, userID, identifier string) (*entity.Workout, error) {
	identifier = strings.TrimSpace(identifier)

	candidates, err := s.ListRecent(ctx, userID, s.lookupLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if m := ordinalRe.FindStringSubmatch(identifier); m != nil {
		idx, convErr := strconv.Atoi(m[1])
		if convErr != nil || idx < 1 || idx > len(candidates) {
			return nil, nil
		}
		return candidates[idx-1], nil
	}

	if strings.EqualFold(identifier, lastWorkoutLiteral) {
		return candidates[0], nil
	}

	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workout candidates: %w", err)
	}

	raw, err := s.generator.Generate(ctx,
		fmt.Sprintf(constant.FindWorkoutPromptTemplate, identifier, string(candidatesJSON)))
	if err != nil {
		return nil, fmt.Errorf("workout fuzzy match call failed: %w", err)
	}

	workoutID := strings.Trim(strings.TrimSpace(raw), `"'`)
	if workoutID == "" || strings.EqualFold(workoutID, "null") {
		return nil, nil
	}

	return s.getByWorkoutID(ctx, userID, workoutID)
}

// UpsertEmbedding 重建记录的向量并标记已生成
func (s *Service) UpsertEmbedding(ctx context.Context, w *entity.Workout) error {
	text := EmbeddingText(w)
	vector, err := s.embedder.GetTextEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed workout %s: %w", w.WorkoutID, err)
	}

	meta, err := json.Marshal(map[string]interface{}{
		"type":      w.Type,
		"completed": w.Completed,
	})
	if err != nil {
		return fmt.Errorf("failed to encode workout meta: %w", err)
	}
	metaStr := string(meta)

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	embeddingRepo, err := s.repositoryFactory.NewWorkoutEmbeddingRepository(session)
	if err != nil {
		return err
	}
	if err := embeddingRepo.Upsert(&model.UpsertWorkoutEmbeddingCondition{
		WorkoutID: w.WorkoutID,
		UserID:    w.UserID,
		Content:   text,
		Embedding: embedding.VectorToString(vector),
		Meta:      &metaStr,
	}); err != nil {
		return err
	}

	workoutRepo, err := s.repositoryFactory.NewWorkoutRepository(session)
	if err != nil {
		return err
	}
	return workoutRepo.SetEmbeddingGenerated(w.WorkoutID)
}

func (s *Service) getByWorkoutID(ctx context.Context, userID, workoutID string) (*entity.Workout, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewWorkoutRepository(session)
	if err != nil {
		return nil, err
	}
	return repo.GetByWorkoutID(userID, workoutID)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
