package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/api"
	"prixfinance-backend-go/internal/cache"
	"prixfinance-backend-go/internal/config"
	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/db"
	"prixfinance-backend-go/internal/events"
	"prixfinance-backend-go/internal/middleware"
)

func main() {
	// .env is a local convenience; release deployments set the environment directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	zapLogger.Info("Application configuration loaded",
		zap.String("env", appConfig.AppEnv),
		zap.String("storeBackend", appConfig.StoreBackend))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	store, err := newStore(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize document store", zap.Error(err))
	}

	var identityCache core.IdentityCache
	var closeCache func() error
	if appConfig.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(initCtx, cache.RedisOptions{
			Addr:     appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Identity cache disabled: Redis is unreachable", zap.String("addr", appConfig.RedisAddr), zap.Error(err))
		} else {
			identityCache = cache.NewIdentityCache(redisClient, appConfig.IdentityCacheTTL, zapLogger)
			closeCache = redisClient.Close
			zapLogger.Info("Identity cache enabled", zap.String("addr", appConfig.RedisAddr), zap.Duration("ttl", appConfig.IdentityCacheTTL))
		}
	}

	serviceOpts := core.ServiceOptions{
		ActivityAsync:        appConfig.ActivityAsync,
		ActivityWriteTimeout: appConfig.ActivityWriteTimeout,
	}
	var activityPublisher *events.ActivityPublisher
	if appConfig.ActivityQueueURL != "" {
		activityPublisher, err = events.NewActivityPublisher(appConfig.ActivityQueueURL, appConfig.ActivityQueueName, zapLogger)
		if err != nil {
			zapLogger.Warn("Activity publishing disabled: RabbitMQ is unreachable", zap.Error(err))
		} else {
			serviceOpts.ActivityPublisher = activityPublisher
		}
	}

	services := core.NewServices(store, identityCache, zapLogger, serviceOpts)

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	var metrics *middleware.Metrics
	if appConfig.MetricsEnabled {
		metrics = middleware.NewMetrics(zapLogger)
		router.Use(metrics.Middleware())
	}
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))
	if appConfig.ClientURL == "" {
		zapLogger.Warn("CLIENT_URL is not configured; CORS reflects every origin")
	}

	api.SetupRoutes(router, zapLogger, services, metrics)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown of HTTP server failed", zap.Error(err))
	}

	services.Recorder.Wait()
	if activityPublisher != nil {
		if err := activityPublisher.Close(); err != nil {
			zapLogger.Warn("Failed to close activity publisher", zap.Error(err))
		}
	}
	if closeCache != nil {
		if err := closeCache(); err != nil {
			zapLogger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if err := store.Close(); err != nil {
		zapLogger.Warn("Failed to close document store", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	if appConfig.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newStore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (db.DocumentStore, error) {
	switch appConfig.StoreBackend {
	case config.StoreMemory:
		logger.Warn("Using the in-memory document store; data is lost on exit")
		return db.NewMemoryStore(), nil
	default:
		client, err := db.NewFirestoreClient(ctx, appConfig, logger)
		if err != nil {
			return nil, err
		}
		return db.NewFirestoreStore(client), nil
	}
}
