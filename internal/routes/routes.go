package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/auth"
	"github.com/BruksfildServices01/barbershop-api/internal/config"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barbershop-api/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barbershop-api/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/barbershop-api/internal/usecase/calendar"
)

// Deps are the process wide singletons built by main. Gateway, Avatars
// and Google stay nil when their integration is not configured.
type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	Location   *time.Location
	Tokens     *auth.JWTService
	Refresh    handlers.RefreshTokens
	Dispatcher *audit.Dispatcher

	Google     auth.IdentityVerifier
	Calendars  []calendar.Provider
	Gateway    payment.Gateway
	Avatars    handlers.ObjectStore
	CheckEmail func(ctx context.Context, email string) bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORSMiddleware(d.Config.AllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// REPOSITORIES
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	serviceRepo := infraRepo.NewServiceGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	ratingRepo := infraRepo.NewRatingGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	calendarRepo := infraRepo.NewCalendarGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	settings := ucAppointment.Settings{
		Location:              d.Location,
		RequireEndWithinHours: d.Config.RequireEndWithinHours,
	}

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, d.Dispatcher, settings),
		ucAppointment.NewCheckAvailability(appointmentRepo, settings),
		ucAppointment.NewCancelAppointment(appointmentRepo, d.Dispatcher),
		ucAppointment.NewCompleteAppointment(appointmentRepo, d.Dispatcher),
		ucAppointment.NewRescheduleAppointment(appointmentRepo, d.Dispatcher, settings),
		ucAppointment.NewQueries(appointmentRepo, settings),
		ucAppointment.NewManage(appointmentRepo, d.Dispatcher),
		d.Location,
	)

	calendarHandler := handlers.NewCalendarHandler(
		ucCalendar.NewEvents(calendarRepo),
		ucCalendar.NewSyncAppointment(calendarRepo, d.Dispatcher, d.Calendars...),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, d.Tokens, d.Refresh, d.Google, d.CheckEmail)
	profileHandler := handlers.NewProfileHandler(userRepo, d.Avatars)
	serviceHandler := handlers.NewServiceHandler(serviceRepo)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo)
	ratingHandler := handlers.NewRatingHandler(ratingRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, d.Gateway, d.Dispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Location)

	requireAuth := middleware.AuthMiddleware(d.Tokens)
	staffOnly := middleware.RequireRoles(role.Barber, role.Admin)
	adminOnly := middleware.RequireRoles(role.Admin)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// AUTH
	// ------------------------------
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/google", authHandler.Google)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
	}

	// ------------------------------
	// SERVICES (reads are public)
	// ------------------------------
	services := api.Group("/services")
	{
		optional := middleware.OptionalAuth(d.Tokens)
		services.GET("", optional, serviceHandler.List)
		services.GET("/popular", serviceHandler.Popular)
		services.GET("/:id", optional, serviceHandler.Get)

		services.POST("", requireAuth, staffOnly, serviceHandler.Create)
		services.PUT("/:id", requireAuth, staffOnly, serviceHandler.Update)
		services.PATCH("/:id", requireAuth, staffOnly, serviceHandler.Update)
		services.DELETE("/:id", requireAuth, staffOnly, serviceHandler.Delete)
	}

	secured := api.Group("")
	secured.Use(requireAuth)

	// ------------------------------
	// PROFILES
	// ------------------------------
	profiles := secured.Group("/profiles")
	{
		profiles.GET("", profileHandler.List)
		profiles.POST("", profileHandler.Create)
		profiles.GET("/me", profileHandler.Me)
		profiles.GET("/barbers", profileHandler.Barbers)
		profiles.GET("/:id", profileHandler.Get)
		profiles.PUT("/:id", profileHandler.Update)
		profiles.PATCH("/:id", profileHandler.Update)
		profiles.DELETE("/:id", profileHandler.Delete)
		profiles.POST("/:id/toggle_active", profileHandler.ToggleActive)
		profiles.POST("/:id/avatar", profileHandler.Avatar)
	}

	// ------------------------------
	// SCHEDULES
	// ------------------------------
	schedules := secured.Group("/schedules")
	{
		schedules.GET("", scheduleHandler.List)
		schedules.POST("", scheduleHandler.Create)
		schedules.GET("/my_schedule", scheduleHandler.MySchedule)
		schedules.POST("/bulk_create", scheduleHandler.BulkCreate)
		schedules.GET("/:id", scheduleHandler.Get)
		schedules.PUT("/:id", scheduleHandler.Update)
		schedules.PATCH("/:id", scheduleHandler.Update)
		schedules.DELETE("/:id", scheduleHandler.Delete)
	}

	// ------------------------------
	// APPOINTMENTS
	// ------------------------------
	appointments := secured.Group("/appointments")
	{
		appointments.GET("", appointmentHandler.List)
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("/upcoming", appointmentHandler.Upcoming)
		appointments.GET("/history", appointmentHandler.History)
		appointments.GET("/stats", appointmentHandler.Stats)
		appointments.POST("/check_availability", appointmentHandler.CheckAvailability)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PUT("/:id", appointmentHandler.Update)
		appointments.PATCH("/:id", appointmentHandler.Update)
		appointments.DELETE("/:id", appointmentHandler.Delete)
		appointments.POST("/:id/cancel", appointmentHandler.Cancel)
		appointments.POST("/:id/complete", appointmentHandler.Complete)
		appointments.POST("/:id/reschedule", appointmentHandler.Reschedule)
	}

	// ------------------------------
	// RATINGS
	// ------------------------------
	ratings := secured.Group("/ratings")
	{
		ratings.GET("", ratingHandler.List)
		ratings.POST("", ratingHandler.Create)
		ratings.GET("/barber_stats", ratingHandler.BarberStats)
		ratings.GET("/my_ratings", ratingHandler.MyRatings)
		ratings.GET("/:id", ratingHandler.Get)
		ratings.PUT("/:id", ratingHandler.Update)
		ratings.PATCH("/:id", ratingHandler.Update)
		ratings.DELETE("/:id", ratingHandler.Delete)
	}

	// ------------------------------
	// PAYMENTS
	// ------------------------------
	payments := secured.Group("/payments")
	{
		payments.GET("", paymentHandler.List)
		payments.POST("", paymentHandler.Create)
		payments.GET("/stats", paymentHandler.Stats)
		payments.GET("/:id", paymentHandler.Get)
		payments.PUT("/:id", paymentHandler.Update)
		payments.PATCH("/:id", paymentHandler.Update)
		payments.DELETE("/:id", paymentHandler.Delete)
		payments.PATCH("/:id/mark_paid", paymentHandler.MarkPaid)
		payments.POST("/:id/refund", paymentHandler.Refund)
		payments.POST("/:id/checkout", paymentHandler.Checkout)
	}

	// ------------------------------
	// CALENDAR EVENTS
	// ------------------------------
	calendarEvents := secured.Group("/calendar-events", staffOnly)
	{
		calendarEvents.GET("", calendarHandler.List)
		calendarEvents.POST("", calendarHandler.Create)
		calendarEvents.POST("/sync", calendarHandler.Sync)
		calendarEvents.GET("/:id", calendarHandler.Get)
		calendarEvents.PUT("/:id", calendarHandler.Update)
		calendarEvents.PATCH("/:id", calendarHandler.Update)
		calendarEvents.DELETE("/:id", calendarHandler.Delete)
	}

	// ------------------------------
	// AUDIT
	// ------------------------------
	secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
}
