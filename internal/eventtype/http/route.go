package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, ownerMiddleware gin.HandlerFunc) {
	group := g.Group("/event-types")

	// === Public Routes ===
	group.GET("/:id/public", h.GetPublic)
	g.GET("/owners/:owner/event-types/:slug", h.GetPublicBySlug)

	// === Owner Routes ===
	owner := group.Group("")
	owner.Use(ownerMiddleware)
	{
		owner.GET("", h.List)
		owner.GET("/:id", h.Get)
		owner.POST("", h.Create)
		owner.PATCH("/:id", h.Update)
		owner.DELETE("/:id", h.Delete)
	}
}
