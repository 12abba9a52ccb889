package controller

import (
	"net/http"

	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/service/classify"
	"github.com/RajoGon/ai-workout-assistant/service/factory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Chat 检索增强对话接口，不经过意图编排
func Chat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewError(model.ErrorParams, err))
		return
	}
	chatID := ensureChatID(req.ChatID)

	response, err := factory.GetServiceFactory().NewRagChatService().
		HybridConversation(ctx, req.UserID, chatID, req.Prompt, "", false)
	if err != nil {
		log.Errorf("Chat error: %v", err)
		ctx.JSON(http.StatusInternalServerError, model.NewError(model.ErrorLLM, err))
		return
	}

	ctx.JSON(http.StatusOK, model.ChatResponse{Response: response, ChatID: chatID})
}

// AgenticChat 多轮意图编排接口
func AgenticChat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewError(model.ErrorParams, err))
		return
	}
	chatID := ensureChatID(req.ChatID)

	response := factory.GetServiceFactory().NewOrchestratorService().
		ProcessMessage(ctx, req.UserID, chatID, req.Prompt)

	ctx.JSON(http.StatusOK, model.ChatResponse{Response: response, ChatID: chatID})
}

// ClassifyChat 只做消息分流，不产生回复
func ClassifyChat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewError(model.ErrorParams, err))
		return
	}
	chatID := ensureChatID(req.ChatID)

	svc := factory.GetServiceFactory().NewClassifyService()
	var category string
	if req.Mode == classify.ModeLLM {
		category = svc.ClassifyWithModel(ctx, req.Prompt)
	} else {
		category = svc.Classify(req.Prompt)
	}

	ctx.JSON(http.StatusOK, model.ClassifyResponse{Category: category, ChatID: chatID})
}

// ensureChatID 没带会话 id 时开新会话
func ensureChatID(chatID string) string {
	if chatID == "" {
		return uuid.NewString()
	}
	return chatID
}
