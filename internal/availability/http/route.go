package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, ownerMiddleware gin.HandlerFunc) {
	// Slot template lives under its event type.
	g.GET("/event-types/:id/slots", h.ListActiveSlots)
	g.PUT("/event-types/:id/slots", ownerMiddleware, h.ReplaceSlots)

	blocked := g.Group("/blocked-times")
	blocked.Use(ownerMiddleware)
	{
		blocked.GET("", h.ListBlocked)
		blocked.POST("", h.CreateBlocked)
		blocked.DELETE("/:id", h.DeleteBlocked)
	}
}
