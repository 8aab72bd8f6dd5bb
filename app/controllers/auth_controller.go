package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/jobqueue"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/mail"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/session"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAuthRegister creates an inactive account and mails the activation
// link.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	user, err := models.CreateUser(strings.TrimSpace(req.Name), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(user.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "An account with this email already exists")
	}
	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	activationLink := fmt.Sprintf("%s/api/v1/auth/activate?token=%s", env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"), user.ActivationToken)
	if _, err := jobqueue.GetManager().GetQueue().EnqueueSendMailJob(
		user.Email,
		"Activate your Legacy.ai account",
		mail.ActivationMailBody(user.Name, activationLink),
	); err != nil {
		log.Errorf("[Auth] failed to enqueue activation mail for %s: %v", user.Email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"status":  user.Status,
		"message": "Account created. Check your email to activate it.",
	})
}

// HandleAuthActivate flips an inactive account to active via the mailed token.
func HandleAuthActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Activation token is required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByActivationToken(token)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Invalid or expired activation token")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to activate account")
	}

	return c.JSON(fiber.Map{"message": "Account activated. You can log in now."})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAuthLogin verifies credentials and opens a session.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	}
	if user.Status == models.STATUS_INACTIVE {
		return jsonError(c, fiber.StatusForbidden, "account_inactive", "Activate your account first")
	}
	if user.Status == models.STATUS_DISABLED {
		return jsonError(c, fiber.StatusForbidden, "account_disabled", "This account is disabled")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to open session")
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserName, user.Name)
	sess.Set(usercontext.KeyUserEmail, user.Email)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	sess.Set(usercontext.KeyUserPlan, user.Subscription)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save session")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		log.Errorf("[Auth] failed to update last login for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"subscription": user.Subscription,
		"is_admin":     user.Role == models.ROLE_ADMIN,
	})
}

// HandleAuthLogout destroys the session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if derr := sess.Destroy(); derr != nil {
			log.Errorf("[Auth] failed to destroy session: %v", derr)
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleAuthMe returns the authenticated user's profile.
func HandleAuthMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(fiber.Map{
		"id":                  user.ID,
		"name":                user.Name,
		"email":               user.Email,
		"status":              user.Status,
		"personality_traits":  user.PersonalityTraits,
		"subscription":        user.Subscription,
		"subscription_status": user.SubscriptionStatus,
		"is_admin":            user.Role == models.ROLE_ADMIN,
		"created_at":          user.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type updateProfileRequest struct {
	Name              *string `json:"name"`
	PersonalityTraits *string `json:"personality_traits"`
}

// HandleAuthUpdateProfile updates name and the personality traits used by
// the persona chat.
func HandleAuthUpdateProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.PersonalityTraits != nil {
		user.PersonalityTraits = strings.TrimSpace(*req.PersonalityTraits)
	}
	if err := user.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update profile")
	}

	return c.JSON(fiber.Map{
		"id":                 user.ID,
		"name":               user.Name,
		"personality_traits": user.PersonalityTraits,
	})
}
