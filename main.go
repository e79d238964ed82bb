package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/api"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/config"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/jobs"
	"github.com/isdelr/portfolio-be/internal/logger"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "pretty")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up database
	db, err := database.New(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Set up auth core
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTTTL, cfg.JWTIssuer)
	guard := auth.NewGuard(tokens)

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db).WithAdmins(cfg.AdminEmails)
	authService := services.NewAuthService(userService, hasher, tokens, eventService)
	projectService := services.NewProjectService(db)
	blogService := services.NewBlogService(db)
	contactService := services.NewContactService(db, eventService)
	profileService := services.NewProfileService(db)

	// Set up and run the background scheduler
	scheduler, err := jobs.NewScheduler(cfg.PublishSchedule, blogService, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	scheduler.Start()

	// Set up router
	router := api.NewRouter(api.Options{
		Guard:          guard,
		DB:             db,
		Hub:            hub,
		AuthService:    authService,
		ProjectService: projectService,
		BlogService:    blogService,
		ContactService: contactService,
		ProfileService: profileService,
		EventService:   eventService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.AppRequestTimeout,
		Production:     cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: cfg.AppReadTimeout,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopHub()

	log.Info().Msg("Server exiting")
}
