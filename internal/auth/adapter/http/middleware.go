package http

import (
	"context"
	"errors"
	"strings"

	"employee-admin/internal/auth/domain/model"
	"employee-admin/internal/auth/usecase"
	"employee-admin/internal/shared/contextkeys"
	"employee-admin/internal/shared/httpresp"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

const adminLocalsKey = "admin"

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
	log        logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string, log logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
		log:        log.WithComponent("auth_gate"),
	}
}

// Protect admits only requests carrying a valid session token whose subject is
// a current admin. Missing token is 403, a bad token 401, and an unknown or
// demoted subject 404.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)

		admin, claims, err := m.usecase.Authenticate(c.UserContext(), token)
		if err != nil {
			if isInternal(err) {
				m.log.WithContext(c.UserContext()).WithError(err).Error("auth gate failed")
			}
			return httpresp.Error(c, usecase.ToAppError(err))
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.AdminKey, admin)
		ctx = utils.WithUserID(ctx, admin.ID.Hex())
		if claims.ID != "" {
			ctx = utils.WithTokenID(ctx, claims.ID)
		}
		c.SetUserContext(ctx)
		c.Locals(adminLocalsKey, admin)

		return c.Next()
	}
}

func isInternal(err error) bool {
	return !errors.Is(err, usecase.ErrTokenMissing) &&
		!errors.Is(err, usecase.ErrTokenInvalid) &&
		!errors.Is(err, usecase.ErrAccessDenied)
}

// extractToken reads the session cookie, falling back to a Bearer header for
// non-browser clients.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(m.cookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// CurrentAdmin returns the admin attached by Protect.
func CurrentAdmin(c *fiber.Ctx) (*model.Admin, bool) {
	admin, ok := c.Locals(adminLocalsKey).(*model.Admin)
	return admin, ok && admin != nil
}

// AdminFromContext returns the admin attached to a request context by Protect.
func AdminFromContext(ctx context.Context) (*model.Admin, bool) {
	admin, ok := ctx.Value(contextkeys.AdminKey).(*model.Admin)
	return admin, ok && admin != nil
}
