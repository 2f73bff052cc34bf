package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the acting user from the X-User-Id header set by
// the gateway. Authentication proper happens upstream; requests without an
// identity are rejected here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID required"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// RegisterRoutes registers all the routes for the fact pipeline service.
func RegisterRoutes(router *gin.Engine, api *API) {
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware())
	{
		v1.POST("/turns", api.ProcessTurnHandler)
		v1.GET("/confirmations", api.ListConfirmationsHandler)
		v1.POST("/confirmations/:id/resolve", api.ResolveConfirmationHandler)
	}

	// WebSocket route
	ws := router.Group("/ws")
	ws.Use(AuthMiddleware())
	{
		ws.GET("/confirmations", api.SubscribeHandler)
	}
}
