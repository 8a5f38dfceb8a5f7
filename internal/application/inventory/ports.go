package inventory

import (
	"context"

	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	StockItems repository.StockItemRepository
	Shipments  repository.ShipmentRepository
	Events     repository.StockEventRepository
	Warehouses repository.WarehouseRepository
	Catalog    repository.CatalogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto persiste; si no, Commit.
// Los conflictos de bloqueo o serialización se reportan como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
