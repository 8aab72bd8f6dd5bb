package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", query: "", wantOffset: 0, wantLimit: 20},
		{name: "second page", query: "?page=2&limit=10", wantOffset: 10, wantLimit: 10},
		{name: "zero page clamps to first", query: "?page=0", wantOffset: 0, wantLimit: 20},
		{name: "negative limit falls back", query: "?limit=-5", wantOffset: 0, wantLimit: 20},
		{name: "oversized limit falls back", query: "?limit=500", wantOffset: 0, wantLimit: 20},
		{name: "garbage values fall back", query: "?page=abc&limit=xyz", wantOffset: 0, wantLimit: 20},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var gotOffset, gotLimit int
			app.Get("/", func(c *fiber.Ctx) error {
				gotOffset, gotLimit = parsePagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			assert.Equal(t, tc.wantOffset, gotOffset)
			assert.Equal(t, tc.wantLimit, gotLimit)
		})
	}
}

func TestJSONError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Memorial not found")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "not_found", payload["error"])
	assert.Equal(t, "Memorial not found", payload["message"])
}
