package xormimplement

import (
	"fmt"
	"time"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository"

	"xorm.io/builder"
)

type WorkoutRepository struct {
	session *Session
}

func NewWorkoutRepository(session *Session) repository.WorkoutRepository {
	return &WorkoutRepository{session: session}
}

func (r *WorkoutRepository) Insert(data *entity.Workout) error {
	if data == nil {
		return fmt.Errorf("workouts data cannot be nil")
	}
	if data.WorkoutID == "" {
		return fmt.Errorf("workout_id is required")
	}
	if data.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	_, err := r.session.Table(entity.TableNameWorkouts).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert workouts: %w", err)
	}

	return nil
}

func (r *WorkoutRepository) Update(id int64, req *model.UpdateWorkoutCondition) error {
	if id <= 0 {
		return fmt.Errorf("workouts id must be greater than 0")
	}
	if req == nil {
		return fmt.Errorf("update request cannot be nil")
	}

	updateData := make(map[string]interface{})
	if req.Type != nil {
		updateData[entity.WorkoutsFieldType] = *req.Type
	}
	if req.Distance != nil {
		updateData[entity.WorkoutsFieldDistance] = *req.Distance
	}
	if req.IdealDuration != nil {
		updateData[entity.WorkoutsFieldIdealDuration] = *req.IdealDuration
	}
	if req.ActualDuration != nil {
		updateData[entity.WorkoutsFieldActualDuration] = *req.ActualDuration
	}
	if req.StartDate != nil {
		updateData[entity.WorkoutsFieldStartDate] = *req.StartDate
	}
	if req.EndDate != nil {
		updateData[entity.WorkoutsFieldEndDate] = *req.EndDate
	}
	if req.Completed != nil {
		updateData[entity.WorkoutsFieldCompleted] = *req.Completed
	}

	if len(updateData) == 0 {
		return fmt.Errorf("at least one field must be updated")
	}
	updateData[entity.WorkoutsFieldUpdatedAt] = time.Now()

	_, err := r.session.Table(entity.TableNameWorkouts).
		Where(builder.Eq{entity.WorkoutsFieldID: id}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update workouts: %w", err)
	}

	return nil
}

// GetByWorkoutID 按业务 uuid 查询
func (r *WorkoutRepository) GetByWorkoutID(userID, workoutID string) (*entity.Workout, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if workoutID == "" {
		return nil, fmt.Errorf("workout_id is required")
	}

	result := &entity.Workout{}
	ok, err := r.session.Table(entity.TableNameWorkouts).
		Where(builder.Eq{
			entity.WorkoutsFieldUserID:    userID,
			entity.WorkoutsFieldWorkoutID: workoutID,
		}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get workouts: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

// ListRecentByUser 按创建时间倒序列出最近的记录
func (r *WorkoutRepository) ListRecentByUser(userID string, limit int) ([]*entity.Workout, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*entity.Workout
	err := r.session.Table(entity.TableNameWorkouts).
		Where(builder.Eq{entity.WorkoutsFieldUserID: userID}).
		OrderBy(entity.WorkoutsFieldCreatedAt + " DESC").
		Limit(limit).
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent workouts: %w", err)
	}

	return results, nil
}

// SetEmbeddingGenerated 标记向量已生成
func (r *WorkoutRepository) SetEmbeddingGenerated(workoutID string) error {
	if workoutID == "" {
		return fmt.Errorf("workout_id is required")
	}

	_, err := r.session.Table(entity.TableNameWorkouts).
		Where(builder.Eq{entity.WorkoutsFieldWorkoutID: workoutID}).
		Update(map[string]interface{}{
			entity.WorkoutsFieldEmbeddingGenerated: true,
			entity.WorkoutsFieldUpdatedAt:          time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to mark workout embedding generated: %w", err)
	}

	return nil
}
