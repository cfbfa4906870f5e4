package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, ownerMiddleware gin.HandlerFunc) {
	group := g.Group("/analytics")

	group.Use(ownerMiddleware)
	{
		group.GET("/summary", h.Summary)
		group.GET("/breakdown", h.Breakdown)
		group.GET("/series", h.Series)
		group.GET("/conversion", h.Conversion)
	}
}
