package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
)

type guestbookRequest struct {
	AuthorName string `json:"author_name"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

// HandleGuestbookCreate adds a visitor tribute to a public memorial. No
// account is required.
func HandleGuestbookCreate(c *fiber.Ctx) error {
	slug := c.Params("slug")

	memorialRepo := repository.GetGlobalFactory().GetMemorialRepository()
	memorial, err := memorialRepo.GetPublicBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	}

	var req guestbookRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	entry := &models.GuestbookEntry{
		MemorialID: memorial.ID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Message:    strings.TrimSpace(req.Message),
		Type:       strings.ToLower(strings.TrimSpace(req.Type)),
	}
	if entry.Type == "" {
		entry.Type = models.GuestbookTypeMessage
	}
	if err := entry.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetGuestbookRepository()
	if err := repo.Create(entry); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save entry")
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleGuestbookList returns a memorial's guestbook entries, newest first.
func HandleGuestbookList(c *fiber.Ctx) error {
	slug := c.Params("slug")
	offset, limit := parsePagination(c)

	memorialRepo := repository.GetGlobalFactory().GetMemorialRepository()
	memorial, err := memorialRepo.GetPublicBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	}

	repo := repository.GetGlobalFactory().GetGuestbookRepository()
	entries, err := repo.GetByMemorialID(memorial.ID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load entries")
	}
	total, _ := repo.CountByMemorialID(memorial.ID)

	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
	})
}
