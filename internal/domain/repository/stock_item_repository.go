package repository

import (
	"context"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// StockItemFilter filtros de búsqueda de StockItems; los campos vacíos no filtran.
type StockItemFilter struct {
	WarehouseID string
	ProductID   string
	GroupID     string
	SectionID   string
	Status      string
	IsActive    *bool
}

// StockItemRepository define el puerto de persistencia para StockItem.
// Los métodos *ForUpdate bloquean la fila hasta el fin de la transacción (SELECT FOR UPDATE).
// Los Get devuelven (nil, nil) cuando no existe el registro.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	Update(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	GetByKeyForUpdate(ctx context.Context, warehouseID, productID, groupID string) (*entity.StockItem, error)
	List(ctx context.Context, filter StockItemFilter, limit, offset int) ([]*entity.StockItem, error)
}
