package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/domain"
)

const defaultPageSize = 20

// pageQuery lee page y page_size (1-based). Un valor no numérico es ValidationError;
// los rangos los valida el caso de uso.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return dto.PageRequest{}, err
	}
	size, err := intQuery(c, "page_size", defaultPageSize)
	if err != nil {
		return dto.PageRequest{}, err
	}
	return dto.PageRequest{Page: page, PageSize: size}, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "debe ser un entero")
	}
	return v, nil
}

func boolQuery(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser true o false")
	}
	return &v, nil
}

// timeQuery interpreta un instante RFC3339.
func timeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser una fecha RFC3339")
	}
	return &t, nil
}
