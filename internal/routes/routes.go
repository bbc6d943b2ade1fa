package routes

import (
	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/handlers"
	"inkwell_backend/internal/logger"
	"inkwell_backend/ws"
)

// RegisterRoutes mounts the HTTP API under /api/v1 and the websocket endpoint at /ws.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.BlogHandler.RegisterRoutes(api)
		appHandlers.CommentHandler.RegisterRoutes(api)
		appHandlers.SavedHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.CategoryHandler.RegisterRoutes(api)
		appHandlers.SearchHandler.RegisterRoutes(api)
	}

	// auth is checked inside ServeWS so browsers can pass the token as a query parameter
	ginRouter.GET("/ws", wsHandler.ServeWS)
	logger.Info("WebSocket route /ws registered")
}
