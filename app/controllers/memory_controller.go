package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

type memoryRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
}

// HandleMemoryCreate stores one answered life-story question for the
// logged-in user.
func HandleMemoryCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req memoryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	memory := &models.Memory{UserID: userID}
	if req.Question != nil {
		memory.Question = strings.TrimSpace(*req.Question)
	}
	if req.Answer != nil {
		memory.Answer = strings.TrimSpace(*req.Answer)
	}
	if req.Category != nil {
		memory.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if err := memory.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetMemoryRepository()
	if err := repo.Create(memory); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save memory")
	}

	return c.Status(fiber.StatusCreated).JSON(memory)
}

// HandleMemoryList returns the user's memories, optionally filtered by
// questionnaire category.
func HandleMemoryList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	repo := repository.GetGlobalFactory().GetMemoryRepository()

	var (
		memories []models.Memory
		err      error
	)
	if category != "" {
		memories, err = repo.GetByUserIDAndCategory(userID, category)
	} else {
		memories, err = repo.GetByUserID(userID)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load memories")
	}

	total, _ := repo.CountByUserID(userID)

	return c.JSON(fiber.Map{
		"memories": memories,
		"total":    total,
	})
}

// HandleMemoryUpdate applies a partial update to an owned memory.
func HandleMemoryUpdate(c *fiber.Ctx) error {
	memory, err := ownedMemory(c)
	if memory == nil {
		return err
	}

	var req memoryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Question != nil {
		memory.Question = strings.TrimSpace(*req.Question)
	}
	if req.Answer != nil {
		memory.Answer = strings.TrimSpace(*req.Answer)
	}
	if req.Category != nil {
		memory.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if err := memory.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetMemoryRepository()
	if err := repo.Update(memory); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update memory")
	}

	return c.JSON(memory)
}

// HandleMemoryDelete removes an owned memory.
func HandleMemoryDelete(c *fiber.Ctx) error {
	memory, err := ownedMemory(c)
	if memory == nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetMemoryRepository()
	if err := repo.Delete(memory.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete memory")
	}

	return c.JSON(fiber.Map{"message": "Memory deleted"})
}

func ownedMemory(c *fiber.Ctx) (*models.Memory, error) {
	userID := usercontext.GetUserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid memory id")
	}

	repo := repository.GetGlobalFactory().GetMemoryRepository()
	memory, err := repo.GetByID(uint(id))
	if err != nil || memory.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Memory not found")
	}
	return memory, nil
}
