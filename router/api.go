package router

import (
	"github.com/RajoGon/ai-workout-assistant/controller"

	"github.com/gin-gonic/gin"
)

func addApiRouter(engine *gin.Engine) {

	// 聊天相关 API
	api := engine.Group("/api/v1")
	{
		api.POST("/chat", controller.Chat)
		api.POST("/chat/agentic", controller.AgenticChat)
		api.POST("/chat/classify", controller.ClassifyChat)
	}
}
