package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/database"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/entitlements"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/session"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a request-scoped user
// context so handlers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	rawUserID := sess.Get(usercontext.KeyUserID)
	userID, ok := rawUserID.(uint)
	if !ok || userID == 0 {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	name := session.GetSessionValue(c, usercontext.KeyUserName)
	email := session.GetSessionValue(c, usercontext.KeyUserEmail)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	// Plan is session-first; fall back to the user row and cache it.
	plan := session.GetSessionValue(c, usercontext.KeyUserPlan)
	if plan == "" {
		plan = string(entitlements.PlanFree)
		if db := database.GetDB(); db != nil {
			var user models.User
			if err := db.Select("subscription").First(&user, userID).Error; err == nil {
				plan = string(entitlements.Normalize(user.Subscription))
			}
		}
		_ = session.SetSessionValue(c, usercontext.KeyUserPlan, plan)
	}

	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     userID,
		Name:       name,
		Email:      email,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
		Plan:       plan,
	})
	return c.Next()
}
