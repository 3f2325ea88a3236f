package auth

import (
	"context"
	"fmt"

	authhttp "employee-admin/internal/auth/adapter/http"
	"employee-admin/internal/auth/adapter/persistence/mongodb"
	authredis "employee-admin/internal/auth/adapter/persistence/redis"
	"employee-admin/internal/auth/adapter/security"
	"employee-admin/internal/auth/config"
	"employee-admin/internal/auth/domain/repository"
	"employee-admin/internal/auth/usecase"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository *mongodb.MongoAdminRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance. redisClient is
// optional; without it logout only clears the cookie.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, m *metrics.Metrics, log logger.Logger) (*AuthModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	adminRepo := mongodb.NewMongoAdminRepository(db)

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	var denylist repository.TokenDenylist
	if redisClient != nil {
		denylist = authredis.NewTokenDenylist(redisClient)
	}

	authUsecase := usecase.NewAuthUsecase(adminRepo, tokenSvc, security.NewBcryptHasher(cfg.BcryptCost), denylist, cfg, log)

	handler := authhttp.NewAuthHTTPHandler(authUsecase, authhttp.CookieSettings{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.SessionTTL,
		Secure:   cfg.CookieSecure,
		HTTPOnly: cfg.CookieHTTPOnly,
		SameSite: cfg.CookieSameSite,
	}, m, log)

	return &AuthModule{
		repository: adminRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		middleware: authhttp.NewAuthMiddleware(authUsecase, cfg.CookieName, log),
		config:     cfg,
	}, nil
}

// Start creates indexes and seeds the bootstrap admin when configured.
func (am *AuthModule) Start(ctx context.Context) error {
	if err := am.repository.EnsureIndexes(ctx); err != nil {
		return err
	}
	return am.usecase.EnsureBootstrapAdmin(ctx)
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}
