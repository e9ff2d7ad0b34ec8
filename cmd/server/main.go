package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/app"
	"carpool/internal/config"
	"carpool/internal/handler"
	"carpool/internal/imagestore"
	"carpool/internal/logger"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository/postgres"
	"carpool/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(cfg.Log.Level, cfg.Log.Format))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			slog.Warn("failed to initialize New Relic", "error", err)
			nrApp = nil
		} else {
			slog.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()
	slog.Info("connected to PostgreSQL", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	if err := app.PrepareSchema(db, cfg.Database); err != nil {
		fatal("failed to migrate database", err)
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer redisClient.Close()
	slog.Info("connected to Redis", "addr", cfg.Redis.Addr)

	images, err := app.NewImageStore(ctx, cfg.Images)
	if err != nil {
		fatal("failed to initialize image store", err)
	}
	slog.Info("image store ready", "backend", cfg.Images.Backend)

	server := wireServer(db, redisClient, images, nrApp, cfg)

	go func() {
		slog.Info("starting server", "port", cfg.Server.Port, "timezone", cfg.Calendar.Location.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	slog.Info("server exited")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, images imagestore.Store, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	routeRepo := postgres.NewRouteRepository(db)

	// Services.
	drivers := service.NewDriverDirectory(userRepo, cacheStore)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, routeRepo, hasher, lockStore, drivers)
	routeService := service.NewRouteService(routeRepo, drivers)
	matchingService := service.NewMatchingService(routeRepo, drivers, cfg.Calendar.Location)

	// Handlers.
	userHandler := handler.NewUserHandler(userService, images, cfg.Server.MaxUploadBytes)
	routeHandler := handler.NewRouteHandler(routeService, matchingService)

	var imagesDir string
	if disk, ok := images.(*imagestore.DiskStore); ok {
		imagesDir = disk.Dir()
	}

	router := app.NewRouter(app.RouterDeps{
		UserHandler:  userHandler,
		RouteHandler: routeHandler,
		RedisClient:  redisClient,
		NewRelicApp:  nrApp,
		ImagesDir:    imagesDir,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
