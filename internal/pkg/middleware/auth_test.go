package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

func newGuardApp(guard fiber.Handler, ctx usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, ctx)
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newGuardApp(RequireAuth, usercontext.UserContext{})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	app = newGuardApp(RequireAuth, usercontext.UserContext{UserID: 1, IsLoggedIn: true})
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := newGuardApp(RequireAdmin, usercontext.UserContext{UserID: 1, IsLoggedIn: true})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	app = newGuardApp(RequireAdmin, usercontext.UserContext{UserID: 1, IsLoggedIn: true, IsAdmin: true})
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequirePlanGates(t *testing.T) {
	app := newGuardApp(RequireVoicePlan, usercontext.UserContext{UserID: 1, IsLoggedIn: true, Plan: "free"})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)

	app = newGuardApp(RequireVideoPlan, usercontext.UserContext{UserID: 1, IsLoggedIn: true, Plan: "lifetime"})
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
