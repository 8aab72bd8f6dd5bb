package controllers

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

const (
	avatarMaxUploadBytes = 10 * 1024 * 1024
	avatarMaxDimension   = 1024
	avatarJPEGQuality    = 90
)

var avatarAllowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// HandleAvatarUpload accepts a portrait photo, normalizes it to a bounded
// JPEG and stores it as a new inactive avatar. The first avatar a user
// uploads becomes active right away.
func HandleAvatarUpload(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "No image file provided")
	}
	if fileHeader.Size > avatarMaxUploadBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "Image exceeds the 10 MB limit")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !avatarAllowedTypes[contentType] {
		return jsonError(c, fiber.StatusUnsupportedMediaType, "unsupported_media_type", "Only JPEG, PNG and WebP images are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_image", "The uploaded file is not a valid image")
	}
	if img.Bounds().Dx() > avatarMaxDimension || img.Bounds().Dy() > avatarMaxDimension {
		img = imaging.Fit(img, avatarMaxDimension, avatarMaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: avatarJPEGQuality}); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to process image")
	}

	media := getMediaClient()
	if media == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Media storage is not configured")
	}
	objectKey := fmt.Sprintf("avatars/%d/avatar-%d.jpg", userID, time.Now().UnixMilli())
	imageURL, err := media.UploadBytes(c.Context(), objectKey, buf.Bytes(), "image/jpeg")
	if err != nil {
		log.Errorf("[Avatar] upload for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store image")
	}

	repo := repository.GetGlobalFactory().GetAvatarRepository()
	existing, err := repo.GetAvatarsByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load avatars")
	}

	avatar := &models.Avatar{
		UserID:   userID,
		ImageURL: imageURL,
		IsActive: len(existing) == 0,
	}
	if err := repo.CreateAvatar(avatar); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save avatar")
	}

	return c.Status(fiber.StatusCreated).JSON(avatar)
}

// HandleAvatarList returns all of the user's uploaded avatars.
func HandleAvatarList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetAvatarRepository()
	avatars, err := repo.GetAvatarsByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load avatars")
	}

	return c.JSON(fiber.Map{"avatars": avatars})
}

// HandleAvatarActivate marks one avatar as the active face for videos.
func HandleAvatarActivate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	id, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid avatar id")
	}

	repo := repository.GetGlobalFactory().GetAvatarRepository()
	if err := repo.ActivateAvatar(userID, uint(id)); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Avatar not found")
	}

	return c.JSON(fiber.Map{"message": "Avatar activated"})
}
