package router

import (
	"net/http"

	"github.com/RajoGon/ai-workout-assistant/middleware"

	"github.com/gin-gonic/gin"
)

func addBasicRouter(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger)

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
