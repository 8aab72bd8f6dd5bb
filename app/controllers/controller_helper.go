package controllers

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/avatarvideo"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/database"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/jobqueue"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/mediastore"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/payments"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/persona"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/speech"
)

// jsonError writes the standard error envelope.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

var (
	mediaClient     *mediastore.Client
	mediaClientOnce sync.Once
)

// getMediaClient lazily initializes the shared media storage client.
func getMediaClient() *mediastore.Client {
	mediaClientOnce.Do(func() {
		cfg, err := mediastore.LoadConfig()
		if err != nil || !cfg.IsEnabled() {
			return
		}
		client, err := mediastore.NewClient(cfg)
		if err != nil {
			return
		}
		mediaClient = client
	})
	return mediaClient
}

func getPaymentService() *payments.Service {
	return payments.NewServiceFromDB(database.GetDB())
}

func getPersonaService() *persona.Service {
	repos := repository.GetGlobalRepositories()
	return persona.NewService(repos.User, repos.Memory, persona.NewOpenAIClientFromEnv())
}

func getSpeechService() (*speech.Service, error) {
	media := getMediaClient()
	if media == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "media storage is not configured")
	}
	repos := repository.GetGlobalRepositories()
	return speech.NewService(repos.Avatar, speech.NewElevenLabsClientFromEnv(), media), nil
}

func getVideoService() (*avatarvideo.Service, error) {
	speechSvc, err := getSpeechService()
	if err != nil {
		return nil, err
	}
	repos := repository.GetGlobalRepositories()
	return avatarvideo.NewService(
		repos.Avatar,
		repos.Video,
		speechSvc,
		avatarvideo.NewDIDClientFromEnv(),
		jobqueue.GetManager().GetQueue(),
	), nil
}
