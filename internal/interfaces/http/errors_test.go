package http

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-envios/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("quantity", "debe ser mayor que 0"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.NotFound("bodega", "W9"), fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("debitar: %w", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("lock: %w", domain.ErrConflict), fiber.StatusServiceUnavailable, "CONFLICT"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestWriteError_ConflictoIncluyeRetryAfter(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("bloqueo: %w", domain.ErrConflict))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestWriteError_InternoNoExponeDetalle(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, errors.New("password=hunter2"))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 256)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body[:n]), "hunter2")
}
