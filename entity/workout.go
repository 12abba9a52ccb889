package entity

import "time"

const (
	TableNameWorkouts = "workouts"

	WorkoutsFieldID                 = "id"
	WorkoutsFieldWorkoutID          = "workout_id"
	WorkoutsFieldUserID             = "user_id"
	WorkoutsFieldType               = "type"
	WorkoutsFieldDistance           = "distance"
	WorkoutsFieldIdealDuration      = "ideal_duration"
	WorkoutsFieldActualDuration     = "actual_duration"
	WorkoutsFieldStartDate          = "start_date"
	WorkoutsFieldEndDate            = "end_date"
	WorkoutsFieldCompleted          = "completed"
	WorkoutsFieldEmbeddingGenerated = "embedding_generated"
	WorkoutsFieldCreatedAt          = "created_at"
	WorkoutsFieldUpdatedAt          = "updated_at"
)

type Workout struct {
	ID                 int64      `xorm:"pk autoincr id" json:"id"`
	WorkoutID          string     `xorm:"workout_id unique" json:"workoutId"`
	UserID             string     `xorm:"user_id" json:"userId"`
	Type               string     `xorm:"type" json:"type"`
	Distance           *float64   `xorm:"distance" json:"distance,omitempty"`
	IdealDuration      *int       `xorm:"ideal_duration" json:"idealDuration,omitempty"`
	ActualDuration     *int       `xorm:"actual_duration" json:"actualDuration,omitempty"`
	StartDate          *time.Time `xorm:"start_date" json:"startDate,omitempty"`
	EndDate            *time.Time `xorm:"end_date" json:"endDate,omitempty"`
	Completed          bool       `xorm:"completed" json:"completed"`
	EmbeddingGenerated bool       `xorm:"embedding_generated" json:"embeddingGenerated"`
	CreatedAt          time.Time  `xorm:"created created_at" json:"createdAt"`
	UpdatedAt          time.Time  `xorm:"updated updated_at" json:"updatedAt"`
}

func (e *Workout) TableName() string {
	return TableNameWorkouts
}
