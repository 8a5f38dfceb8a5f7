package repository

import (
	"context"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// CatalogRepository resuelve datos de referencia (producto, grupo, sección) por ID.
// Devuelve (nil, nil) si no existe.
type CatalogRepository interface {
	GetProductByID(ctx context.Context, id string) (*entity.Product, error)
	GetGroupByID(ctx context.Context, id string) (*entity.StockItemGroup, error)
	GetSectionByID(ctx context.Context, id string) (*entity.StorageSection, error)
}
