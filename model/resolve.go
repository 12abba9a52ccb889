package model

import (
	"time"

	"github.com/RajoGon/ai-workout-assistant/pkg/dateparse"
)

// Resolve 将抽取结果转换为类型化字段，日期从自然语言解析为具体时刻。
// startDate 字段解析失败时回退到整条用户消息，endDate 只取字段文本。
func (e *ExtractedFields) Resolve(prompt string, base time.Time) *WorkoutFields {
	fields := &WorkoutFields{}
	if e == nil {
		return fields
	}

	if e.Type != nil && *e.Type != "" {
		t := *e.Type
		fields.Type = &t
	}
	if e.Distance != nil {
		d := float64(*e.Distance)
		fields.Distance = &d
	}
	if e.IdealDuration != nil {
		d := int(*e.IdealDuration)
		fields.IdealDuration = &d
	}
	if e.WorkoutIdentifier != nil && *e.WorkoutIdentifier != "" {
		id := *e.WorkoutIdentifier
		fields.WorkoutIdentifier = &id
	}

	if e.StartDate != nil && *e.StartDate != "" {
		parsed := dateparse.ParseRelativeTo(*e.StartDate, base)
		if parsed == nil && prompt != "" {
			parsed = dateparse.ParseRelativeTo(prompt, base)
		}
		fields.StartDate = parsed
	}
	if e.EndDate != nil && *e.EndDate != "" {
		fields.EndDate = dateparse.ParseRelativeTo(*e.EndDate, base)
	}

	fields.DeriveCompletion()
	return fields
}

// DeriveCompletion 根据起止时间推导实际时长和完成状态。
// 两个时间都有则计算时长；只要有结束时间就视为已完成。
func (f *WorkoutFields) DeriveCompletion() {
	if f.StartDate != nil && f.EndDate != nil {
		minutes := dateparse.DurationMinutes(*f.StartDate, *f.EndDate)
		f.ActualDuration = &minutes
	}
	if f.EndDate != nil {
		f.Completed = true
	}
}
