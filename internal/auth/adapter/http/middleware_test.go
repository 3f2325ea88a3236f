package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	authhttp "employee-admin/internal/auth/adapter/http"
	"employee-admin/internal/auth/domain/model"
	"employee-admin/internal/auth/domain/repository"
	"employee-admin/internal/auth/usecase"
	"employee-admin/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newGateApp(uc *mockAuthUsecase) *fiber.App {
	app := fiber.New()
	mw := authhttp.NewAuthMiddleware(uc, "token", nil)
	app.Get("/protected", mw.Protect(), func(c *fiber.Ctx) error {
		admin, ok := authhttp.CurrentAdmin(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		fromCtx, ok := authhttp.AdminFromContext(c.UserContext())
		if !ok || fromCtx.ID != admin.ID {
			return c.SendStatus(fiber.StatusTeapot)
		}
		userID, err := utils.GetUserIDFromContext(c.UserContext())
		if err != nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		tokenID, _ := utils.GetTokenIDFromContext(c.UserContext())
		return c.JSON(fiber.Map{"userID": userID, "tokenID": tokenID})
	})
	return app
}

func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	return req
}

func TestProtect_StatusCodes(t *testing.T) {
	testCases := []struct {
		name    string
		token   string
		err     error
		status  int
		message string
	}{
		{"missing cookie", "", usecase.ErrTokenMissing, fiber.StatusForbidden, "Access denied"},
		{"tampered token", "tampered", usecase.ErrTokenInvalid, fiber.StatusUnauthorized, "Invalid token"},
		{"unknown or demoted subject", "orphan", usecase.ErrAccessDenied, fiber.StatusNotFound, "Access denied"},
		{"store failure", "any", errors.New("mongo down"), fiber.StatusInternalServerError, "Server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockAuthUsecase{}
			uc.On("Authenticate", mock.Anything, tc.token).Return(nil, nil, tc.err)

			resp, err := newGateApp(uc).Test(requestWithCookie(tc.token))
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, decode(t, resp)["message"])
		})
	}
}

func TestProtect_AttachesAdmin(t *testing.T) {
	admin := &model.Admin{ID: primitive.NewObjectID(), UserName: "alice", IsAdmin: true}
	claims := &repository.Claims{AdminID: admin.ID.Hex(), IsAdmin: true, RegisteredClaims: jwt.RegisteredClaims{ID: "jti-9"}}
	uc := &mockAuthUsecase{}
	uc.On("Authenticate", mock.Anything, "good").Return(admin, claims, nil)

	resp, err := newGateApp(uc).Test(requestWithCookie("good"))
	require.NoError(t, err)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, admin.ID.Hex(), body["userID"])
	assert.Equal(t, "jti-9", body["tokenID"])
}

func TestProtect_BearerHeaderFallback(t *testing.T) {
	admin := &model.Admin{ID: primitive.NewObjectID(), IsAdmin: true}
	claims := &repository.Claims{AdminID: admin.ID.Hex(), IsAdmin: true}
	uc := &mockAuthUsecase{}
	uc.On("Authenticate", mock.Anything, "header-token").Return(admin, claims, nil)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	resp, err := newGateApp(uc).Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	uc.AssertExpectations(t)
}
