package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/speech"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

const (
	voiceMaxSamples     = 5
	voiceMaxSampleBytes = 25 * 1024 * 1024
)

// HandleVoiceClone builds a voice clone from uploaded audio samples. Gated to
// plans that include voice features.
func HandleVoiceClone(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid multipart form")
	}

	files := form.File["samples"]
	if len(files) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "At least one audio sample is required")
	}
	if len(files) > voiceMaxSamples {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Too many audio samples")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = usercontext.GetUserContext(c).Name
	}

	samples := make([]speech.VoiceSample, 0, len(files))
	for _, fh := range files {
		if fh.Size > voiceMaxSampleBytes {
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "Audio sample exceeds the 25 MB limit")
		}
		f, err := fh.Open()
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
		}
		defer f.Close()
		samples = append(samples, speech.VoiceSample{FileName: fh.Filename, Data: f})
	}

	svc, err := getSpeechService()
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Voice service is not available")
	}

	clone, err := svc.CloneVoice(c.Context(), userID, name, samples)
	if err != nil {
		if errors.Is(err, speech.ErrNotConfigured) {
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Voice cloning is not configured")
		}
		log.Errorf("[Voice] clone for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Voice cloning failed")
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}

// HandleVoiceList returns the user's voice clones.
func HandleVoiceList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetAvatarRepository()
	clones, err := repo.GetVoiceClonesByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load voice clones")
	}

	return c.JSON(fiber.Map{"voices": clones})
}

type speakRequest struct {
	Text string `json:"text"`
}

// HandleVoiceGenerate synthesizes speech in the user's cloned voice and returns
// the audio URL.
func HandleVoiceGenerate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req speakRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Text is required")
	}

	svc, err := getSpeechService()
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Voice service is not available")
	}

	audioURL, err := svc.GenerateSpeech(c.Context(), userID, text)
	if err != nil {
		if errors.Is(err, speech.ErrNoVoiceClone) {
			return jsonError(c, fiber.StatusPreconditionFailed, "no_voice_clone", "Create a voice clone before generating speech")
		}
		if errors.Is(err, speech.ErrNotConfigured) {
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Speech synthesis is not configured")
		}
		log.Errorf("[Voice] speech for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Speech synthesis failed")
	}

	return c.JSON(fiber.Map{"audio_url": audioURL})
}
