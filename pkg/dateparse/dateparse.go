// Package dateparse 自然语言时间解析与时长计算
package dateparse

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DisplayLayout 展示给用户和提示词里使用的时间格式
const DisplayLayout = "2006-01-02 15:04"

var parser *when.Parser

func init() {
	parser = when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
}

// Parse 以当前时刻为基准解析自然语言时间表达
func Parse(text string) *time.Time {
	return ParseRelativeTo(text, time.Now())
}

// ParseRelativeTo 以指定基准时刻解析，解析失败返回 nil
func ParseRelativeTo(text string, base time.Time) *time.Time {
	if text == "" {
		return nil
	}
	result, err := parser.Parse(text, base)
	if err != nil || result == nil {
		return nil
	}
	t := result.Time
	return &t
}

// DurationMinutes 计算两个时刻的分钟差，四舍五入
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute) / time.Minute)
}
