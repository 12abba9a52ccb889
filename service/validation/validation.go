// Package validation 按意图类型的字段需求做缺失/可选字段判定
package validation

import (
	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/model"
)

// schemaFor 查找意图的字段需求，未登记的意图走 create 需求
func schemaFor(intentType constant.IntentType) constant.FieldSchema {
	switch intentType {
	case constant.IntentTypeUpdate:
		return constant.UpdateWorkoutFields
	default:
		return constant.CreateWorkoutFields
	}
}

// FindMissingFields 返回仍缺失的必填字段和尚未提供的可选字段
func FindMissingFields(intentType constant.IntentType, fields *model.WorkoutFields) (missing []string, optional []string) {
	schema := schemaFor(intentType)
	missing = []string{}
	optional = []string{}

	for _, field := range schema.Required {
		if !fields.Has(field) {
			missing = append(missing, field)
		}
	}
	for _, field := range schema.Optional {
		if !fields.Has(field) {
			optional = append(optional, field)
		}
	}
	return missing, optional
}

// FieldPrompt 字段的追问话术
func FieldPrompt(field string) string {
	switch field {
	case constant.FieldType:
		return "workout type (Running, Cycling, Swimming, Yoga, Walking)"
	case constant.FieldDistance:
		return "distance (e.g., 5 km)"
	case constant.FieldIdealDuration:
		return "planned duration (e.g., 30 minutes)"
	case constant.FieldStartDate:
		return `start date and time (e.g., "tomorrow at 6pm", "next Monday 9am")`
	case constant.FieldEndDate:
		return `end date and time (e.g., "today at 4pm", "now")`
	case constant.FieldWorkoutIdentifier:
		return `which workout to update (e.g., "1", "last workout", "yesterday's run")`
	}
	return field
}
