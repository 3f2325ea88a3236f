package http

import (
	"errors"
	"time"

	"employee-admin/internal/auth/usecase"
	apperrors "employee-admin/internal/shared/errors"
	"employee-admin/internal/shared/httpresp"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// AuthHTTPHandler handles HTTP requests for admin authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	cookie  CookieSettings
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewAuthHTTPHandler creates a new auth HTTP handler. m may be nil.
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, cookie CookieSettings, m *metrics.Metrics, log logger.Logger) *AuthHTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AuthHTTPHandler{
		usecase: uc,
		cookie:  cookie,
		metrics: m,
		log:     log.WithComponent("auth_http"),
	}
}

// SetupAuthRoutesWithMiddleware registers the admin auth routes on router.
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/login", h.Login)
	router.Post("/admin-create", h.CreateAdmin)
	router.Post("/logout", h.Logout)
	router.Get("/me", middleware.Protect(), h.GetCurrentAdmin)
}

// Login handles admin login and sets the session cookie.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpresp.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		var ve *apperrors.ValidationErrors
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			h.metrics.ObserveLogin("invalid")
		case errors.As(err, &ve):
			h.metrics.ObserveLogin("rejected")
		default:
			h.metrics.ObserveLogin("error")
		}
		return h.fail(c, err)
	}
	h.metrics.ObserveLogin("success")

	h.setCookie(c, session.Token, session.ExpiresAt)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"admin":   session.Admin,
	})
}

// CreateAdmin handles admin account creation.
func (h *AuthHTTPHandler) CreateAdmin(c *fiber.Ctx) error {
	var req usecase.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return httpresp.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	admin, err := h.usecase.CreateAdmin(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin created successfully",
		"admin":   admin,
	})
}

// Logout clears the session cookie. The token is revoked when a denylist is
// configured; a failed revoke is logged and the cookie is cleared anyway.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookie.Name)
	h.clearCookie(c)

	if err := h.usecase.Logout(c.UserContext(), token); err != nil {
		h.log.WithContext(c.UserContext()).WithError(err).Warn("failed to revoke session token")
	}

	return httpresp.Message(c, fiber.StatusOK, "Logged out successfully")
}

// GetCurrentAdmin returns the admin resolved by the auth gate.
func (h *AuthHTTPHandler) GetCurrentAdmin(c *fiber.Ctx) error {
	admin, ok := CurrentAdmin(c)
	if !ok {
		return httpresp.Message(c, fiber.StatusForbidden, "Access denied")
	}
	return c.JSON(fiber.Map{"admin": admin})
}

func (h *AuthHTTPHandler) fail(c *fiber.Ctx, err error) error {
	appErr := usecase.ToAppError(err)
	if apperrors.IsInternal(appErr) {
		h.log.WithContext(c.UserContext()).WithError(err).Error("auth request failed")
	}
	return httpresp.Error(c, appErr)
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: h.cookie.HTTPOnly,
		SameSite: h.cookie.SameSite,
		Expires:  expiresAt,
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HTTPOnly: h.cookie.HTTPOnly,
		SameSite: h.cookie.SameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
