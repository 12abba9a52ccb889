package model

// ChatRequest 聊天请求
type ChatRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
	ChatID string `json:"chat_id"` // 为空时服务端生成
	Mode   string `json:"mode"`    // 分类接口使用：rules（默认）或 llm
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
}

// ClassifyResponse 分类结果响应
type ClassifyResponse struct {
	Category string `json:"category"`
	ChatID   string `json:"chat_id"`
}
