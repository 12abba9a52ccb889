package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/dateparse"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	log "github.com/sirupsen/logrus"
)

// UpdateHandler 定位并更新已有锻炼记录
type UpdateHandler struct {
	repositoryFactory factory.Factory
	workouts          *workoututil.Service
}

func (h *UpdateHandler) Handle(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields) (string, error) {
	workout, err := h.workouts.FindForIntent(ctx, intent, fields)
	if err != nil {
		return "", err
	}
	if workout == nil {
		return "", model.NewErrorWithMessage(model.ErrorWorkoutNotFound,
			"no workout matched the stored identifier")
	}

	condition, changes := buildUpdate(workout, fields)

	session := h.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	workoutRepo, err := h.repositoryFactory.NewWorkoutRepository(session)
	if err != nil {
		return "", err
	}
	if err := workoutRepo.Update(workout.ID, condition); err != nil {
		return "", err
	}

	updated, err := workoutRepo.GetByWorkoutID(workout.UserID, workout.WorkoutID)
	if err != nil {
		return "", err
	}
	if updated == nil {
		updated = workout
	}

	if err := h.workouts.UpsertEmbedding(ctx, updated); err != nil {
		log.Warnf("failed to re-embed workout %s: %v", updated.WorkoutID, err)
	}

	intentRepo, err := h.repositoryFactory.NewChatIntentRepository(session)
	if err != nil {
		return "", err
	}
	fulfilled := true
	if err := intentRepo.Update(intent.ID, &model.UpdateChatIntentCondition{
		Fulfilled: &fulfilled,
		WorkoutID: &updated.WorkoutID,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Workout updated successfully!\n%s\n\nUpdated workout:\n%s\n\nWould you like to analyze your progress or get suggestions for future workouts?",
		strings.Join(changes, "\n"), workoututil.FormatDetails(updated)), nil
}

// buildUpdate 对比新旧字段，生成更新条件和变更说明
func buildUpdate(workout *entity.Workout, fields *model.WorkoutFields) (*model.UpdateWorkoutCondition, []string) {
	condition := &model.UpdateWorkoutCondition{}
	changes := make([]string, 0, 4)

	if fields.Type != nil && *fields.Type != "" && *fields.Type != workout.Type {
		condition.Type = fields.Type
		changes = append(changes, fmt.Sprintf("• Type: %s → %s", workout.Type, *fields.Type))
	}
	if fields.Distance != nil {
		condition.Distance = fields.Distance
		changes = append(changes, fmt.Sprintf("• Distance: %s → %s km",
			floatOrNone(workout.Distance), strconv.FormatFloat(*fields.Distance, 'f', -1, 64)))
	}
	if fields.IdealDuration != nil {
		condition.IdealDuration = fields.IdealDuration
		changes = append(changes, fmt.Sprintf("• Planned Duration: %s → %d mins",
			intOrNone(workout.IdealDuration), *fields.IdealDuration))
	}
	if fields.ActualDuration != nil {
		condition.ActualDuration = fields.ActualDuration
		changes = append(changes, fmt.Sprintf("• Actual Duration: %s → %d mins",
			intOrNone(workout.ActualDuration), *fields.ActualDuration))
	}
	if fields.StartDate != nil {
		condition.StartDate = fields.StartDate
		changes = append(changes, fmt.Sprintf("• Start: %s → %s",
			timeOrNone(workout.StartDate), fields.StartDate.Format(dateparse.DisplayLayout)))
	}
	if fields.EndDate != nil {
		condition.EndDate = fields.EndDate
		changes = append(changes, fmt.Sprintf("• End: %s → %s",
			timeOrNone(workout.EndDate), fields.EndDate.Format(dateparse.DisplayLayout)))

		// 只补了结束时间时，用库里已有的开始时间推导实际时长
		if condition.ActualDuration == nil {
			start := workout.StartDate
			if fields.StartDate != nil {
				start = fields.StartDate
			}
			if start != nil {
				minutes := dateparse.DurationMinutes(*start, *fields.EndDate)
				condition.ActualDuration = &minutes
				changes = append(changes, fmt.Sprintf("• Actual Duration: %s → %d mins",
					intOrNone(workout.ActualDuration), minutes))
			}
		}
	}
	if fields.Completed && !workout.Completed {
		completed := true
		condition.Completed = &completed
		changes = append(changes, "• Status: Scheduled → Completed")
	}
	return condition, changes
}

func floatOrNone(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNone(v *int) string {
	if v == nil {
		return "none"
	}
	return strconv.Itoa(*v)
}

func timeOrNone(v *time.Time) string {
	if v == nil {
		return "none"
	}
	return v.Format(dateparse.DisplayLayout)
}
