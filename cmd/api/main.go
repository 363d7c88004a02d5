package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/auth"
	"github.com/BruksfildServices01/barbershop-api/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-api/internal/db"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-api/internal/infra/events"
	"github.com/BruksfildServices01/barbershop-api/internal/infra/google"
	"github.com/BruksfildServices01/barbershop-api/internal/infra/mercadopago"
	"github.com/BruksfildServices01/barbershop-api/internal/infra/notify"
	infraRepo "github.com/BruksfildServices01/barbershop-api/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-api/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-api/internal/logger"
	"github.com/BruksfildServices01/barbershop-api/internal/reminders"
	"github.com/BruksfildServices01/barbershop-api/internal/routes"
	"github.com/BruksfildServices01/barbershop-api/internal/timezone"
	"github.com/BruksfildServices01/barbershop-api/internal/validators"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validators.Register(v); err != nil {
			log.Fatal().Err(err).Msg("failed to register validators")
		}
	}

	loc := timezone.Location(cfg.BusinessTimezone)

	// ======================================================
	// STORAGE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect redis")
	}
	defer rdb.Close()

	// ======================================================
	// AUDIT SINKS
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	sender := notify.NewSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)

	sinks := []audit.Sink{
		audit.New(db),
		notify.NewBookingSink(appointmentRepo.GetAppointment, sender, loc),
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		w, err := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid kafka settings")
		}
		publisher = events.NewPublisher(w)
		sinks = append(sinks, publisher)
	}

	dispatcher := audit.NewDispatcher(sinks...)

	// ======================================================
	// INTEGRATIONS
	// ======================================================
	deps := routes.Deps{
		DB:         db,
		Config:     cfg,
		Location:   loc,
		Tokens:     auth.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry),
		Refresh:    auth.NewRefreshStore(rdb),
		Dispatcher: dispatcher,
		Calendars:  []calendar.Provider{google.NewCalendarProvider()},
	}

	if cfg.GoogleClientID != "" {
		deps.Google = google.NewIDTokenVerifier(cfg.GoogleClientID)
	}

	if cfg.MercadoPagoAccessToken != "" {
		gw, err := mercadopago.NewGateway(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid mercado pago settings")
		}
		deps.Gateway = gw
	}

	if cfg.S3Bucket != "" {
		deps.Avatars = storage.NewS3(storage.S3Config{
			Region:        cfg.AWSRegion,
			AccessKeyID:   cfg.AWSAccessKeyID,
			SecretKey:     cfg.AWSSecretKey,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}

	if !cfg.IsDevelopment() {
		deps.CheckEmail = validators.EmailDomainResolvable
	}

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := reminders.New(appointmentRepo, sender, loc)
	if err := scheduler.Start(cfg.ReminderCron); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.ReminderCron).Msg("invalid reminder schedule")
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
	}

	if err := dispatcher.Close(ctx); err != nil {
		log.Error().Err(err).Msg("audit queue not drained")
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("kafka writer close")
		}
	}
}
