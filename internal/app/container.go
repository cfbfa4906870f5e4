package app

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lumabook/scheduling-backend/internal/analytics"
	"github.com/lumabook/scheduling-backend/internal/api"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/availability"
	"github.com/lumabook/scheduling-backend/internal/booking"
	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/meeting"
	"github.com/lumabook/scheduling-backend/internal/notify"
	"github.com/lumabook/scheduling-backend/internal/pkg/clock"
	"github.com/lumabook/scheduling-backend/internal/reminder"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	DBPool             *pgxpool.Pool
	JWTSecret          string
	MeetingProviderURL string
	NotifyWebhookURL   string
	ReminderPollEvery  time.Duration
	Logger             *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router            *gin.Engine
	JWTManager        *auth.JWTManager
	ReminderScheduler *reminder.PollingScheduler
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	clk := clock.System()

	// Outbound integrations. Missing URLs fall back to implementations
	// that keep the booking flow working without the external service.
	var provisioner meeting.Provisioner
	if cfg.MeetingProviderURL != "" {
		provisioner = meeting.NewWebhookProvisioner(cfg.MeetingProviderURL, cfg.Logger)
	} else {
		provisioner = meeting.NewDisabled()
	}

	var dispatcher notify.Dispatcher
	if cfg.NotifyWebhookURL != "" {
		dispatcher = notify.NewWebhookDispatcher(cfg.NotifyWebhookURL, cfg.Logger)
	} else {
		dispatcher = notify.NewLogDispatcher(cfg.Logger)
	}

	// EventType Module
	etRepo := eventtype.NewPgxRepository(cfg.DBPool)
	etService := eventtype.NewService(etRepo)

	// Availability Module
	availRepo := availability.NewPgxRepository(cfg.DBPool)
	availService := availability.NewService(availRepo, etService)

	// Analytics Module
	analyticsRepo := analytics.NewPgxRepository(cfg.DBPool)
	analyticsService := analytics.NewService(analyticsRepo)

	// Reminder Module
	reminderRepo := reminder.NewPgxRepository(cfg.DBPool)
	reminderScheduler := reminder.NewPollingScheduler(reminderRepo, dispatcher, clk, cfg.Logger, cfg.ReminderPollEvery)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		etService,
		availService,
		analyticsService,
		provisioner,
		dispatcher,
		reminderScheduler,
		clk,
		cfg.Logger,
	)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         splitOrigins(cfg.ProdOrigins),
		EventTypeService:    etService,
		AvailabilityService: availService,
		BookingService:      bookingService,
		AnalyticsService:    analyticsService,
		JWTManager:          jwtManager,
	}

	router := api.NewRouter(routerParams)

	return &Container{
		Router:            router,
		JWTManager:        jwtManager,
		ReminderScheduler: reminderScheduler,
	}
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
