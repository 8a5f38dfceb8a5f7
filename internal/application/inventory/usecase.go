package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
	"github.com/jhoicas/inventario-envios/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// StockItemUseCase consulta y administra StockItems. Las escrituras pasan por el Ledger
// dentro de una transacción (TxRunner); las lecturas usan el repositorio directo.
type StockItemUseCase struct {
	txRunner TxRunner
	items    repository.StockItemRepository
	ledger   *Ledger
}

// NewStockItemUseCase construye el caso de uso.
func NewStockItemUseCase(txRunner TxRunner, items repository.StockItemRepository, ledger *Ledger) *StockItemUseCase {
	return &StockItemUseCase{txRunner: txRunner, items: items, ledger: ledger}
}

// Get devuelve un StockItem por ID o NotFound.
func (uc *StockItemUseCase) Get(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("stock item", id)
	}
	return ToStockItemResponse(item), nil
}

// Find lista StockItems con filtros y paginación 1-based.
func (uc *StockItemUseCase) Find(ctx context.Context, in dto.StockItemFilterRequest) (*dto.StockItemListResponse, error) {
	if err := in.PageRequest.Check(); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	filter := repository.StockItemFilter{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		GroupID:     in.GroupID,
		SectionID:   in.SectionID,
		Status:      in.Status,
		IsActive:    in.IsActive,
	}
	list, err := uc.items.List(ctx, filter, in.PageSize, in.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *ToStockItemResponse(it))
	}
	return &dto.StockItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Page: in.Page, PageSize: in.PageSize, Count: len(out)},
	}, nil
}

// Resolve busca el StockItem exacto para bodega+producto+grupo.
func (uc *StockItemUseCase) Resolve(ctx context.Context, in dto.ResolveStockItemRequest) (*dto.StockItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var found *entity.StockItem
	err := uc.txRunner.Run(ctx, func(tx TxRepos) error {
		item, err := uc.ledger.Resolve(ctx, tx, in.WarehouseID, in.ProductID, in.GroupID)
		if err != nil {
			return err
		}
		found = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(found), nil
}

// Create da de alta un StockItem. Bodega, producto, grupo y sección (si viene) deben existir;
// la sección debe pertenecer a la bodega.
func (uc *StockItemUseCase) Create(ctx context.Context, initiatorID int64, in dto.CreateStockItemRequest) (resp *dto.StockItemResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory", "stock_item.create",
		attribute.String("warehouse.id", in.WarehouseID),
		attribute.String("product.id", in.ProductID),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var created *entity.StockItem
	err = uc.txRunner.Run(ctx, func(tx TxRepos) error {
		if err := checkReferences(ctx, tx, in.WarehouseID, in.ProductID, in.GroupID); err != nil {
			return err
		}
		if in.SectionID != nil {
			if err := checkSection(ctx, tx, in.WarehouseID, *in.SectionID); err != nil {
				return err
			}
		}
		active := true
		if in.IsActive != nil {
			active = *in.IsActive
		}
		item := &entity.StockItem{
			ProductID:         in.ProductID,
			GroupID:           in.GroupID,
			WarehouseID:       in.WarehouseID,
			SectionID:         in.SectionID,
			ExpiryDate:        in.ExpiryDate,
			AvailableQuantity: in.Quantity,
			IsActive:          active,
		}
		var err error
		created, err = uc.ledger.CreateAdministrative(ctx, tx, item, in.Status, ChangeMeta{InitiatorID: initiatorID})
		return err
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("stock_item.id", created.ID))
	return ToStockItemResponse(created), nil
}

// Update aplica cambios administrativos sobre un StockItem.
func (uc *StockItemUseCase) Update(ctx context.Context, initiatorID int64, id string, in dto.UpdateStockItemRequest) (resp *dto.StockItemResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory", "stock_item.update", attribute.String("stock_item.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var updated *entity.StockItem
	err = uc.txRunner.Run(ctx, func(tx TxRepos) error {
		if in.SectionID != nil && *in.SectionID != "" {
			current, err := tx.StockItems.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.NotFound("stock item", id)
			}
			if err := checkSection(ctx, tx, current.WarehouseID, *in.SectionID); err != nil {
				return err
			}
		}
		var err error
		updated, err = uc.ledger.SetAdministrative(ctx, tx, id, AdminFields{
			Quantity:         in.Quantity,
			ReservedQuantity: in.ReservedQuantity,
			IsActive:         in.IsActive,
			SectionID:        in.SectionID,
			ExpiryDate:       in.ExpiryDate,
			Status:           in.Status,
		}, ChangeMeta{InitiatorID: initiatorID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(updated), nil
}

func checkReferences(ctx context.Context, tx TxRepos, warehouseID, productID, groupID string) error {
	wh, err := tx.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.NotFound("warehouse", warehouseID)
	}
	p, err := tx.Catalog.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("product", productID)
	}
	g, err := tx.Catalog.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return domain.NotFound("group", groupID)
	}
	return nil
}

func checkSection(ctx context.Context, tx TxRepos, warehouseID, sectionID string) error {
	sec, err := tx.Catalog.GetSectionByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if sec == nil {
		return domain.NotFound("section", sectionID)
	}
	if sec.WarehouseID != warehouseID {
		return domain.Invalid("section_id", "la sección no pertenece a la bodega del stock item")
	}
	return nil
}

// ToStockItemResponse mapea la entidad a su DTO.
func ToStockItemResponse(s *entity.StockItem) *dto.StockItemResponse {
	if s == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		GroupID:           s.GroupID,
		WarehouseID:       s.WarehouseID,
		SectionID:         s.SectionID,
		ExpiryDate:        utcPtr(s.ExpiryDate),
		AvailableQuantity: s.AvailableQuantity,
		ReservedQuantity:  s.ReservedQuantity,
		Status:            s.Status,
		StatusOverridden:  s.StatusOverridden,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt.UTC(),
		UpdatedAt:         s.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
