package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/persona"
)

const chatMaxMessageLen = 2000

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChatMessage lets a visitor talk to the persona behind a public
// memorial page. The reply is generated from the person's stored life-story
// memories.
func HandleChatMessage(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Message is required")
	}
	if len(message) > chatMaxMessageLen {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Message is too long")
	}

	memorialRepo := repository.GetGlobalFactory().GetMemorialRepository()
	memorial, err := memorialRepo.GetPublicBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	}

	reply, err := getPersonaService().Respond(c.Context(), memorial.UserID, message)
	if err != nil {
		if errors.Is(err, persona.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
		}
		log.Errorf("[Chat] reply for memorial %s failed: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to generate a reply")
	}

	return c.JSON(fiber.Map{"response": reply})
}
