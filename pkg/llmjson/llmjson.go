// Package llmjson 解析大模型返回的 JSON，容忍 markdown 代码块包裹
package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Unmarshal 两段式解析：先直接解析，失败后提取 ```json 代码块再解析
func Unmarshal(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	matches := fencedJSONRe.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return fmt.Errorf("failed to parse llm response as json: %q", raw)
	}
	if err := json.Unmarshal([]byte(matches[1]), v); err != nil {
		return fmt.Errorf("failed to parse fenced json block: %w", err)
	}
	return nil
}
