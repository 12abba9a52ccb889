package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RajoGon/ai-workout-assistant/constant"
)

// WorkoutFields 意图累计的锻炼字段，指针非 nil 表示已提供
type WorkoutFields struct {
	Type              *string    `json:"type,omitempty"`
	Distance          *float64   `json:"distance,omitempty"`
	IdealDuration     *int       `json:"idealDuration,omitempty"`
	ActualDuration    *int       `json:"actualDuration,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	WorkoutIdentifier *string    `json:"workoutIdentifier,omitempty"`
	Completed         bool       `json:"completed,omitempty"`
	AskedOptional     bool       `json:"askedOptional,omitempty"`
}

// Merge 用新提取的字段覆盖已有字段，只增不减
func (f *WorkoutFields) Merge(other *WorkoutFields) {
	if other == nil {
		return
	}
	if other.Type != nil {
		f.Type = other.Type
	}
	if other.Distance != nil {
		f.Distance = other.Distance
	}
	if other.IdealDuration != nil {
		f.IdealDuration = other.IdealDuration
	}
	if other.ActualDuration != nil {
		f.ActualDuration = other.ActualDuration
	}
	if other.StartDate != nil {
		f.StartDate = other.StartDate
	}
	if other.EndDate != nil {
		f.EndDate = other.EndDate
	}
	if other.WorkoutIdentifier != nil {
		f.WorkoutIdentifier = other.WorkoutIdentifier
	}
	if other.Completed {
		f.Completed = true
	}
	if other.AskedOptional {
		f.AskedOptional = true
	}
}

// IsZero 一个字段都没有提供
func (f *WorkoutFields) IsZero() bool {
	return f.Type == nil && f.Distance == nil && f.IdealDuration == nil &&
		f.ActualDuration == nil && f.StartDate == nil && f.EndDate == nil &&
		f.WorkoutIdentifier == nil && !f.Completed
}

// Has 判断某字段是否已提供
func (f *WorkoutFields) Has(field string) bool {
	switch field {
	case constant.FieldType:
		return f.Type != nil && *f.Type != ""
	case constant.FieldDistance:
		return f.Distance != nil
	case constant.FieldIdealDuration:
		return f.IdealDuration != nil
	case constant.FieldActualDuration:
		return f.ActualDuration != nil
	case constant.FieldStartDate:
		return f.StartDate != nil
	case constant.FieldEndDate:
		return f.EndDate != nil
	case constant.FieldWorkoutIdentifier:
		return f.WorkoutIdentifier != nil && *f.WorkoutIdentifier != ""
	}
	return false
}

// Encode 序列化为 JSON 字符串，用于落库
func (f *WorkoutFields) Encode() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode workout fields: %w", err)
	}
	return string(data), nil
}

// DecodeWorkoutFields 从落库的 JSON 字符串解析
func DecodeWorkoutFields(raw string) (*WorkoutFields, error) {
	fields := &WorkoutFields{}
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), fields); err != nil {
		return nil, fmt.Errorf("failed to decode workout fields: %w", err)
	}
	return fields, nil
}

// FlexFloat 容忍大模型返回字符串数字
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("failed to parse number %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt 容忍大模型返回字符串或小数形式的整数
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("failed to parse number %q: %w", s, err)
	}
	*f = FlexInt(int(v))
	return nil
}

// ExtractedFields 大模型抽取结果的原始形态，日期保留自然语言文本
type ExtractedFields struct {
	Type              *string    `json:"type"`
	Distance          *FlexFloat `json:"distance"`
	IdealDuration     *FlexInt   `json:"idealDuration"`
	StartDate         *string    `json:"startDate"`
	EndDate           *string    `json:"endDate"`
	WorkoutIdentifier *string    `json:"workoutIdentifier"`
}

// IsEmpty 判断是否一个字段都没有抽到
func (e *ExtractedFields) IsEmpty() bool {
	return e == nil ||
		(e.Type == nil && e.Distance == nil && e.IdealDuration == nil &&
			e.StartDate == nil && e.EndDate == nil && e.WorkoutIdentifier == nil)
}

// IntentDetectionResult 意图检测的大模型返回结构
type IntentDetectionResult struct {
	IntentType      string           `json:"intentType"`
	ExtractedFields *ExtractedFields `json:"extractedFields"`
}

// EncodeStringList 字段名列表落库编码
func EncodeStringList(list []string) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(data), nil
}

// DecodeStringList 字段名列表落库解码
func DecodeStringList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	return list, nil
}
