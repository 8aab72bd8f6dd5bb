package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/jobqueue"
)

// HandleAdminUserList returns a paginated view of all accounts.
func HandleAdminUserList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	users, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	total, _ := repo.Count()

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

// HandleAdminQueueStats exposes job queue counters for operations.
func HandleAdminQueueStats(c *fiber.Ctx) error {
	queue := jobqueue.GetManager().GetQueue()

	stats, err := queue.GetJobStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load queue stats")
	}
	queued, _ := queue.GetQueueSize(c.Context())
	processing, _ := queue.GetProcessingSize(c.Context())

	return c.JSON(fiber.Map{
		"stats":      stats,
		"queued":     queued,
		"processing": processing,
	})
}
