package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jezzlucena/slatefolio/api/routes"
	"github.com/jezzlucena/slatefolio/internal/auth"
	"github.com/jezzlucena/slatefolio/internal/media"
	"github.com/jezzlucena/slatefolio/internal/profile"
	"github.com/jezzlucena/slatefolio/internal/projects"
	"github.com/jezzlucena/slatefolio/internal/resumes"
	"github.com/jezzlucena/slatefolio/internal/site"
	"github.com/jezzlucena/slatefolio/internal/testimonials"
	"github.com/jezzlucena/slatefolio/internal/users"
	"github.com/jezzlucena/slatefolio/pkg/auth/session"
	"github.com/jezzlucena/slatefolio/pkg/config"
	"github.com/jezzlucena/slatefolio/pkg/db"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/metrics"
	"github.com/jezzlucena/slatefolio/pkg/migrate"
	"github.com/jezzlucena/slatefolio/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	disk, err := media.NewDiskStore(cfg.Uploads.Dir)
	if err != nil {
		logg.Error(context.Background(), "failed to create disk store", err)
		os.Exit(1)
	}
	if err := disk.EnsureDirs(); err != nil {
		logg.Error(context.Background(), "failed to prepare uploads directory", err)
		os.Exit(1)
	}

	mediaMetrics := metrics.NewMediaMetrics(prometheus.DefaultRegisterer)

	mediaService, err := media.NewService(
		media.NewRepository(dbClient.DB()), disk, logg, mediaMetrics, cfg.Uploads.MaxMediaBytes)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}
	resumeService, err := resumes.NewService(
		resumes.NewRepository(dbClient.DB()), disk, dbClient, logg, cfg.Uploads.MaxResumeBytes)
	if err != nil {
		logg.Error(context.Background(), "failed to create resume service", err)
		os.Exit(1)
	}
	projectService, err := projects.NewService(projects.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create project service", err)
		os.Exit(1)
	}
	testimonialService, err := testimonials.NewService(testimonials.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create testimonial service", err)
		os.Exit(1)
	}
	profileService, err := profile.NewService(profile.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}
	siteService, err := site.NewService(
		profile.NewRepository(dbClient.DB()),
		projects.NewRepository(dbClient.DB()),
		testimonials.NewRepository(dbClient.DB()),
		resumes.NewRepository(dbClient.DB()),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create site service", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	passkeyService, err := auth.NewPasskeyService(auth.PasskeyServiceParams{
		WebAuthnConfig: cfg.WebAuthn,
		UserRepo:       userRepo,
		PasskeyRepo:    auth.NewPasskeyRepository(dbClient.DB()),
		AuthService:    authService,
		Challenges:     redisClient,
		Keyer:          redisClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create passkey service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:         authService,
			Passkeys:     passkeyService,
			Media:        mediaService,
			Resumes:      resumeService,
			Projects:     projectService,
			Testimonials: testimonialService,
			Profile:      profileService,
			Site:         siteService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-shutdownCtx.Done()
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down")
}
