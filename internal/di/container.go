package di

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"employee-admin/internal/auth"
	authconfig "employee-admin/internal/auth/config"
	"employee-admin/internal/employee"
	employeeconfig "employee-admin/internal/employee/config"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// APIPrefix is where the admin API is mounted.
const APIPrefix = "/api/admin"

// Container holds the application modules and the connections they share
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule     *auth.AuthModule
	EmployeeModule *employee.EmployeeModule
	// Connections
	MongoDB *mongo.Database
	Redis   *redis.Client
	// Configuration
	AuthConfig     *authconfig.Config
	EmployeeConfig *employeeconfig.Config
	// Observability
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// NewContainer creates an empty container. m may be nil.
func NewContainer(log logger.Logger, m *metrics.Metrics) *Container {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Container{Logger: log, Metrics: m}
}

// InitializeAuth creates the auth module. redisClient is optional.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, redisClient *redis.Client, authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Redis = redisClient
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(mongoDB, redisClient, authConfig, c.Metrics, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule
	return nil
}

// InitializeEmployee creates the employee module. The auth module must exist
// first since every employee route sits behind its gate.
func (c *Container) InitializeEmployee(employeeConfig *employeeconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return errors.New("auth module must be initialized before employee module")
	}
	if c.MongoDB == nil {
		return errors.New("MongoDB must be initialized before employee module")
	}

	employeeModule, err := employee.NewEmployeeModule(c.MongoDB, employeeConfig, c.Metrics, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create employee module: %w", err)
	}
	c.EmployeeConfig = employeeConfig
	c.EmployeeModule = employeeModule
	return nil
}

// Start runs module startup work: indexes and the bootstrap admin.
func (c *Container) Start(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.AuthModule != nil {
		if err := c.AuthModule.Start(ctx); err != nil {
			return fmt.Errorf("failed to start auth module: %w", err)
		}
	}
	if c.EmployeeModule != nil {
		if err := c.EmployeeModule.Start(ctx); err != nil {
			return fmt.Errorf("failed to start employee module: %w", err)
		}
	}
	return nil
}

// RegisterRoutes mounts the admin API and the uploaded picture directory.
func (c *Container) RegisterRoutes(app *fiber.App) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.AuthModule == nil {
		return errors.New("auth module is not initialized")
	}

	api := app.Group(APIPrefix)
	c.AuthModule.RegisterRoutes(api)

	if c.EmployeeModule != nil {
		c.EmployeeModule.RegisterRoutes(api, c.AuthModule.GetMiddleware().Protect())
		c.EmployeeModule.RegisterStatic(app)
	}
	return nil
}

// HealthCheck pings MongoDB and, when configured, Redis.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Close releases connections owned by the container. MongoDB is disconnected
// by whoever connected it.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AuthModule = nil
	c.EmployeeModule = nil

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
		c.Redis = nil
	}
	return nil
}
