package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/entitlements"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in session and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin and returns JSON 403 otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}

// RequireVoicePlan gates voice features behind a paid plan.
func RequireVoicePlan(c *fiber.Ctx) error {
	plan := entitlements.Normalize(usercontext.GetPlan(c))
	if !entitlements.AllowsVoice(plan) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "upgrade_required",
			"message": "voice features require a premium or lifetime plan",
		})
	}
	return c.Next()
}

// RequireVideoPlan gates talking-avatar video features behind a paid plan.
func RequireVideoPlan(c *fiber.Ctx) error {
	plan := entitlements.Normalize(usercontext.GetPlan(c))
	if !entitlements.AllowsVideo(plan) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "upgrade_required",
			"message": "video features require a premium or lifetime plan",
		})
	}
	return c.Next()
}
