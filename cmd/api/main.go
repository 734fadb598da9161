package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/eventapp/internal/broker"
	"github.com/joshua-takyi/eventapp/internal/config"
	"github.com/joshua-takyi/eventapp/internal/connect"
	"github.com/joshua-takyi/eventapp/internal/container"
	"github.com/joshua-takyi/eventapp/internal/helpers"
	"github.com/joshua-takyi/eventapp/internal/models"
	"github.com/joshua-takyi/eventapp/internal/routes"
	"github.com/joshua-takyi/eventapp/internal/services"
	"github.com/lmittmann/tint"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting events API server", "environment", cfg.Environment, "store", cfg.StoreDriver)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		eventsRepo  models.EventsRepo
		mongoClient *mongo.Client
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		eventsRepo = models.NewMemoryRepo()
		logger.Warn("Using in-memory event store; data is lost on restart")
	default:
		mongoClient, err = connect.MongoDBConnect(cfg)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBName)
		mongoRepo := models.MongodbNewRepo(mongoClient, cfg.MongoDBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure event indexes", "error", err)
		}
		cancel()
		eventsRepo = mongoRepo
	}

	verifier, err := setupVerifier(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialise token verifier", "error", err)
		os.Exit(1)
	}
	defer verifier.Close()

	var uploader services.ImageUploader
	if cfg.Cloudinary.Enabled() {
		cld, err := connect.CloudinaryCredentials(cfg.Cloudinary)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		uploader = helpers.NewCloudinaryUploader(cld, helpers.EventsFolder)
		logger.Info("Cloudinary image uploads enabled")
	}

	var publisher broker.Publisher = broker.Noop{}
	if cfg.AMQPURL != "" {
		producer := broker.NewProducer(cfg.AMQPURL, cfg.AMQPExchange)
		if err := producer.Open(); err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
		logger.Info("Publishing activity to RabbitMQ", "exchange", cfg.AMQPExchange)
	}

	appContainer := container.NewContainer(logger, eventsRepo, verifier, uploader, publisher, cfg.AllowedOrigins)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupVerifier(cfg *config.Config, logger *slog.Logger) (*helpers.TokenVerifier, error) {
	if cfg.JWKSURL != "" {
		// ctx bounds the background refresh, not the initial fetch
		return helpers.NewJWKSVerifier(context.Background(), cfg.JWKSURL, logger)
	}
	return helpers.NewHMACVerifier(cfg.JWTSecret)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		if os.Getenv("LOG_LEVEL") == "" {
			level = slog.LevelDebug
		}
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
