package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	authredis "employee-admin/internal/auth/adapter/persistence/redis"
	authconfig "employee-admin/internal/auth/config"
	"employee-admin/internal/di"
	employeeconfig "employee-admin/internal/employee/config"
	"employee-admin/internal/shared/httpresp"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"
	"employee-admin/internal/shared/utils"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestIDLocalsKey = "requestid"

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `env:"SERVER_HOST" envDefault:"localhost"`
	Port         string   `env:"SERVER_PORT" envDefault:"3000"`
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	// multipart overhead on top of the picture size limit
	BodyOverheadBytes int `env:"BODY_OVERHEAD_BYTES" envDefault:"1048576"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	accessLogger, err := logger.NewAccessLogger(logger.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create access logger: %v", err)
	}
	defer func() { _ = accessLogger.Sync() }()

	authConfig, err := authconfig.LoadConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load auth configuration: %v", err)
	}
	employeeConfig, err := employeeconfig.LoadConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load employee configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	// Initialize MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(authConfig.MongoDBURI))
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established successfully")

	var redisClient *redis.Client
	if authConfig.RedisURL != "" {
		redisClient, err = authredis.NewRedisClient(authConfig.RedisURL)
		if err != nil {
			appLogger.Fatalf("Failed to create Redis client: %v", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatalf("Failed to ping Redis: %v", err)
		}
		appLogger.Info("Redis token denylist enabled")
	} else {
		appLogger.Warn("REDIS_URL not set, logout will not revoke tokens")
	}

	appMetrics := metrics.New()

	container := di.NewContainer(appLogger, appMetrics)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	mongoDB := mongoClient.Database(authConfig.DatabaseName)
	if err := container.InitializeAuth(mongoDB, redisClient, authConfig); err != nil {
		appLogger.Fatalf("Failed to initialize auth module: %v", err)
	}
	if err := container.InitializeEmployee(employeeConfig); err != nil {
		appLogger.Fatalf("Failed to initialize employee module: %v", err)
	}
	if err := container.Start(ctx); err != nil {
		appLogger.Fatalf("Failed to start modules: %v", err)
	}
	appLogger.Info("Modules initialized successfully")

	app := fiber.New(fiber.Config{
		AppName:      "Employee Admin API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    int(employeeConfig.MaxUploadBytes) + serverCfg.BodyOverheadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				appLogger.WithContext(c.UserContext()).WithError(err).Error("unhandled request error")
			}
			return httpresp.Error(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{ContextKey: requestIDLocalsKey}))
	app.Use(func(c *fiber.Ctx) error {
		if rid, ok := c.Locals(requestIDLocalsKey).(string); ok {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), rid))
		}
		return c.Next()
	})
	app.Use(logger.AccessLog(accessLogger, requestIDLocalsKey))
	app.Use(appMetrics.Instrument())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(serverCfg.AllowOrigins, ","),
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.WithError(err).Error("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"message": "One or more services are unhealthy",
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Employee Admin API is running",
			"timestamp": time.Now().UTC(),
			"redis":     redisClient != nil,
		})
	})
	app.Get("/metrics", appMetrics.Handler())

	if err := container.RegisterRoutes(app); err != nil {
		appLogger.Fatalf("Failed to register routes: %v", err)
	}

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
