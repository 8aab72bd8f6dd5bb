package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

func newChatTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Memorial{}, &models.Memory{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	repository.InitializeFactory(db)

	// Pin the key to empty so the persona service answers with its offline
	// fallback instead of calling the vendor.
	prev := env.Env
	env.Env = map[string]string{"OPENAI_API_KEY": ""}
	t.Cleanup(func() { env.Env = prev })

	app := fiber.New()
	app.Post("/memorial/:slug/chat", HandleChatMessage)
	return app, db
}

func seedPublicMemorial(t *testing.T, db *gorm.DB, slug string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Asha Verma",
		Email:    slug + "@example.com",
		Password: "hashed-password",
		Role:     models.ROLE_USER,
		Status:   models.STATUS_ACTIVE,
	}
	require.NoError(t, db.Create(user).Error)
	memorial := &models.Memorial{
		UserID:   user.ID,
		Title:    "In memory of Asha",
		Slug:     slug,
		IsPublic: true,
	}
	require.NoError(t, db.Create(memorial).Error)
	return user
}

func postChat(t *testing.T, app *fiber.App, slug, message string) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(fiber.Map{"message": message})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/memorial/"+slug+"/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestChatMessage_ReturnsResponseField(t *testing.T) {
	app, db := newChatTestApp(t)
	seedPublicMemorial(t, db, "asha-chat")

	status, body := postChat(t, app, "asha-chat", "What did you love most?")
	require.Equal(t, fiber.StatusOK, status)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload["response"])
	assert.NotContains(t, payload, "reply")
}

func TestChatMessage_UnknownSlugNotFound(t *testing.T) {
	app, _ := newChatTestApp(t)

	status, _ := postChat(t, app, "nobody-here", "Hello?")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChatMessage_EmptyMessageRejected(t *testing.T) {
	app, db := newChatTestApp(t)
	seedPublicMemorial(t, db, "asha-empty")

	status, _ := postChat(t, app, "asha-empty", "   ")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
