package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/avatarvideo"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/speech"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

const videoMaxTextLen = 1000

type videoRequest struct {
	Text string `json:"text"`
}

// HandleVideoGenerate starts a talking-avatar video for the given text. The
// result is produced asynchronously; poll the status endpoint for the URL.
func HandleVideoGenerate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req videoRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Text is required")
	}
	if len(text) > videoMaxTextLen {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Text is too long")
	}

	svc, err := getVideoService()
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Video service is not available")
	}

	video, err := svc.StartGeneration(c.Context(), userID, text)
	if err != nil {
		switch {
		case errors.Is(err, avatarvideo.ErrNoAvatar):
			return jsonError(c, fiber.StatusPreconditionFailed, "no_avatar", "Upload and activate an avatar photo first")
		case errors.Is(err, speech.ErrNoVoiceClone):
			return jsonError(c, fiber.StatusPreconditionFailed, "no_voice_clone", "Create a voice clone before generating videos")
		case errors.Is(err, avatarvideo.ErrNotConfigured), errors.Is(err, speech.ErrNotConfigured):
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Video generation is not configured")
		}
		log.Errorf("[Video] generation for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Video generation failed")
	}

	return c.Status(fiber.StatusAccepted).JSON(video)
}

// HandleVideoGet returns the status of one of the user's video generations.
func HandleVideoGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid video id")
	}

	repo := repository.GetGlobalFactory().GetVideoRepository()
	video, err := repo.GetByID(uint(id))
	if err != nil || video.UserID != userID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Video not found")
	}

	// Re-check pending renders against the vendor so the row resolves even
	// when the background poll was lost.
	if video.Status == models.VideoStatusProcessing {
		if svc, serr := getVideoService(); serr == nil {
			if perr := svc.Poll(c.Context(), video.ID); perr != nil && !errors.Is(perr, avatarvideo.ErrStillProcessing) {
				log.Warnf("[Video] status re-poll for video %d failed: %v", video.ID, perr)
			}
			if fresh, ferr := repo.GetByID(video.ID); ferr == nil {
				video = fresh
			}
		}
	}

	return c.JSON(video)
}

// HandleVideoList returns the user's video generations, newest first.
func HandleVideoList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetVideoRepository()
	videos, err := repo.GetByUserID(userID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load videos")
	}

	return c.JSON(fiber.Map{"videos": videos})
}
