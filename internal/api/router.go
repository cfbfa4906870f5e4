package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumabook/scheduling-backend/internal/analytics"
	analyticsHttp "github.com/lumabook/scheduling-backend/internal/analytics/http"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/availability"
	availabilityHttp "github.com/lumabook/scheduling-backend/internal/availability/http"
	"github.com/lumabook/scheduling-backend/internal/booking"
	bookingHttp "github.com/lumabook/scheduling-backend/internal/booking/http"
	"github.com/lumabook/scheduling-backend/internal/eventtype"
	eventtypeHttp "github.com/lumabook/scheduling-backend/internal/eventtype/http"
)

// Config carries the services and settings the router assembles.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	EventTypeService    eventtype.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	AnalyticsService    analytics.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine. It assembles middleware
// (CORS, Logger, Auth) and registers routes for each module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// ownerMiddleware validates the owner's bearer token. Guest-facing
	// routes (booking creation, public event type and slot lookups) stay
	// outside it.
	ownerMiddleware := auth.OwnerRequired(cfg.JWTManager)

	eventTypeHandler := eventtypeHttp.NewHandler(cfg.EventTypeService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	analyticsHandler := analyticsHttp.NewHandler(cfg.AnalyticsService)

	v1 := r.Group("/v1")
	{
		eventtypeHttp.RegisterRoutes(v1, eventTypeHandler, ownerMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, ownerMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, ownerMiddleware)
		analyticsHttp.RegisterRoutes(v1, analyticsHandler, ownerMiddleware)
	}

	return r
}
