package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

type memorialRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// HandleMemorialCreate creates a memorial page for the logged-in user. The
// slug is derived from the title and never changes afterwards.
func HandleMemorialCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req memorialRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Title is required")
	}

	memorial := &models.Memorial{
		UserID:   userID,
		Title:    strings.TrimSpace(*req.Title),
		Slug:     models.GenerateSlug(*req.Title),
		IsPublic: true,
	}
	if req.Description != nil {
		memorial.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		memorial.IsPublic = *req.IsPublic
	}
	if err := memorial.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	if err := repo.Create(memorial); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create memorial")
	}

	return c.Status(fiber.StatusCreated).JSON(memorial)
}

// HandleMemorialList returns the logged-in user's memorial pages.
func HandleMemorialList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	memorials, err := repo.GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load memorials")
	}

	return c.JSON(fiber.Map{"memorials": memorials})
}

// HandleMemorialGet returns one of the logged-in user's memorials by id.
func HandleMemorialGet(c *fiber.Ctx) error {
	memorial, err := ownedMemorial(c)
	if memorial == nil {
		return err
	}
	return c.JSON(memorial)
}

// HandleMemorialUpdate applies a partial update to an owned memorial.
func HandleMemorialUpdate(c *fiber.Ctx) error {
	memorial, err := ownedMemorial(c)
	if memorial == nil {
		return err
	}

	var req memorialRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Title != nil {
		memorial.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		memorial.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		memorial.IsPublic = *req.IsPublic
	}
	if err := memorial.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	if err := repo.Update(memorial); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update memorial")
	}

	return c.JSON(memorial)
}

// HandleMemorialDelete removes an owned memorial page.
func HandleMemorialDelete(c *fiber.Ctx) error {
	memorial, err := ownedMemorial(c)
	if memorial == nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	if err := repo.Delete(memorial.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete memorial")
	}

	return c.JSON(fiber.Map{"message": "Memorial deleted"})
}

// HandleMemorialPublicGet serves a public memorial page by slug. No account is
// needed, which is how visiting family members reach it.
func HandleMemorialPublicGet(c *fiber.Ctx) error {
	slug := c.Params("slug")

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	memorial, err := repo.GetPublicBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	owner, err := userRepo.GetByID(memorial.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load memorial")
	}

	return c.JSON(fiber.Map{
		"memorial": memorial,
		"owner": fiber.Map{
			"name": owner.Name,
		},
	})
}

// ownedMemorial loads the :id path param and checks it belongs to the
// requesting user.
func ownedMemorial(c *fiber.Ctx) (*models.Memorial, error) {
	userID := usercontext.GetUserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid memorial id")
	}

	repo := repository.GetGlobalFactory().GetMemorialRepository()
	memorial, err := repo.GetByID(uint(id))
	if err != nil || memorial.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	}
	return memorial, nil
}
