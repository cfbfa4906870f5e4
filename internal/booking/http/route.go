package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, ownerMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Public Routes ===
	group.POST("", h.Create)

	// === Owner Routes ===
	owner := group.Group("")
	owner.Use(ownerMiddleware)
	{
		owner.GET("", h.List)
		owner.GET("/:id", h.Get)
		owner.POST("/:id/cancel", h.Cancel)
		owner.POST("/:id/reschedule", h.Reschedule)
	}
}
