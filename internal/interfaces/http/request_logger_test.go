package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
)

func TestRequestLogger_EventoPorRequest(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.New(&buf)))
	app.Post("/api/invoices", func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalEmail, "caja@example.com")
		return c.SendStatus(http.StatusCreated)
	})
	app.Get("/api/invoices/:id", func(*fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/invoices", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev))
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "request", ev["message"])
	assert.Equal(t, "POST", ev["method"])
	assert.Equal(t, "/api/invoices", ev["path"])
	assert.EqualValues(t, http.StatusCreated, ev["status"])
	assert.Equal(t, "caja@example.com", ev["user"])

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/invoices/x", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ev = map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.EqualValues(t, http.StatusNotFound, ev["status"])
	assert.Equal(t, "", ev["user"])
}
