package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// ShipmentFilter filtros de búsqueda de envíos; los campos vacíos no filtran.
// CreatedFrom/CreatedTo son inclusivos.
type ShipmentFilter struct {
	SenderWarehouseID    string
	RecipientWarehouseID string
	StockItemID          string
	Status               string
	Direction            string
	CreatedFrom          *time.Time
	CreatedTo            *time.Time
}

// ShipmentRepository define el puerto de persistencia para Shipment. Los envíos nunca se borran.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	Update(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter, limit, offset int) ([]*entity.Shipment, error)
}
