package handler

import (
	"context"
	"fmt"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateHandler 落库新锻炼记录并生成向量
type CreateHandler struct {
	repositoryFactory factory.Factory
	workouts          *workoututil.Service
}

func (h *CreateHandler) Handle(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields) (string, error) {
	workout := &entity.Workout{
		WorkoutID: uuid.NewString(),
		UserID:    intent.UserID,
		Completed: fields.Completed,
	}
	if fields.Type != nil {
		workout.Type = *fields.Type
	}
	workout.Distance = fields.Distance
	workout.IdealDuration = fields.IdealDuration
	workout.ActualDuration = fields.ActualDuration
	workout.StartDate = fields.StartDate
	workout.EndDate = fields.EndDate

	session := h.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	workoutRepo, err := h.repositoryFactory.NewWorkoutRepository(session)
	if err != nil {
		return "", err
	}
	if err := workoutRepo.Insert(workout); err != nil {
		return "", err
	}

	// 向量生成失败不影响创建结果
	if err := h.workouts.UpsertEmbedding(ctx, workout); err != nil {
		log.Warnf("failed to embed workout %s: %v", workout.WorkoutID, err)
	}

	intentRepo, err := h.repositoryFactory.NewChatIntentRepository(session)
	if err != nil {
		return "", err
	}
	fulfilled := true
	if err := intentRepo.Update(intent.ID, &model.UpdateChatIntentCondition{
		Fulfilled: &fulfilled,
		WorkoutID: &workout.WorkoutID,
	}); err != nil {
		return "", err
	}

	verb := "scheduled"
	if workout.Completed {
		verb = "logged"
	}
	return fmt.Sprintf("✅ Workout %s successfully!\n%s\n\nIs there anything else you'd like to know about your fitness progress or need help with?",
		verb, workoututil.FormatDetails(workout)), nil
}
