package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// ChangeMeta datos de trazabilidad de una mutación del ledger.
type ChangeMeta struct {
	Reason      string // si está vacío se usa el motivo por defecto de la operación
	InitiatorID int64
	ShipmentID  *string
}

// Defaults valores para un StockItem creado por CreditOrCreate.
type Defaults struct {
	SectionID  *string
	ExpiryDate *time.Time
}

// AdminFields cambios de la ruta administrativa; nil = sin cambio.
type AdminFields struct {
	Quantity         *int64
	ReservedQuantity *int64
	IsActive         *bool
	SectionID        *string
	ExpiryDate       *time.Time
	Status           *string
}

// Ledger aplica los cambios de cantidad sobre StockItems con sus invariantes:
// la cantidad disponible nunca es negativa y el estado se deriva de ella salvo override explícito.
// Todas las operaciones corren dentro de la transacción del llamador (TxRepos) y registran
// un StockChangeEvent en el outbox. No reintenta: los errores se devuelven tal cual.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Resolve busca el StockItem exacto (bodega, producto, grupo) y bloquea su fila.
func (l *Ledger) Resolve(ctx context.Context, tx TxRepos, warehouseID, productID, groupID string) (*entity.StockItem, error) {
	item, err := tx.StockItems.GetByKeyForUpdate(ctx, warehouseID, productID, groupID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("stock item", warehouseID+"/"+productID+"/"+groupID)
	}
	return item, nil
}

// Debit descuenta qty del StockItem. Todo o nada: si qty supera lo disponible devuelve
// ErrInsufficientStock y el registro queda intacto.
func (l *Ledger) Debit(ctx context.Context, tx TxRepos, stockItemID string, qty int64, meta ChangeMeta) (*entity.StockItem, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	item, err := tx.StockItems.GetByIDForUpdate(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("stock item", stockItemID)
	}
	if !item.IsActive {
		return nil, domain.Invalid("stock_item_id", "el stock item está inactivo")
	}
	if !item.CanDebit(qty) {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, item.AvailableQuantity, qty)
	}
	item.ApplyDebit(qty, l.now())
	if err := tx.StockItems.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := l.emit(ctx, tx, item, -qty, meta, entity.ChangeReasonShipmentDebit); err != nil {
		return nil, err
	}
	return item, nil
}

// CreditOrCreate suma qty al StockItem (bodega, producto, grupo) o lo crea activo con
// esa cantidad si no existe. La sección y el vencimiento del nuevo registro salen de defaults.
func (l *Ledger) CreditOrCreate(
	ctx context.Context, tx TxRepos,
	warehouseID, productID, groupID string, qty int64,
	defaults Defaults, meta ChangeMeta,
) (*entity.StockItem, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	item, err := tx.StockItems.GetByKeyForUpdate(ctx, warehouseID, productID, groupID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	if item != nil {
		item.ApplyCredit(qty, now)
		if err := tx.StockItems.Update(ctx, item); err != nil {
			return nil, err
		}
	} else {
		item = &entity.StockItem{
			ID:                uuid.New().String(),
			ProductID:         productID,
			GroupID:           groupID,
			WarehouseID:       warehouseID,
			SectionID:         defaults.SectionID,
			ExpiryDate:        defaults.ExpiryDate,
			AvailableQuantity: qty,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		item.RecomputeStatus()
		if err := tx.StockItems.Create(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := l.emit(ctx, tx, item, qty, meta, entity.ChangeReasonShipmentCredit); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateAdministrative da de alta un StockItem fuera del flujo de envíos.
// Falla con ErrDuplicate si ya existe la combinación bodega+producto+grupo.
func (l *Ledger) CreateAdministrative(ctx context.Context, tx TxRepos, item *entity.StockItem, status *string, meta ChangeMeta) (*entity.StockItem, error) {
	if item.AvailableQuantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	if item.ReservedQuantity < 0 {
		return nil, domain.Invalid("reserved_quantity", "no puede ser negativa")
	}
	existing, err := tx.StockItems.GetByKeyForUpdate(ctx, item.WarehouseID, item.ProductID, item.GroupID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe el stock item %s para esa bodega, producto y grupo", domain.ErrDuplicate, existing.ID)
	}
	now := l.now()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	item.RecomputeStatus()
	if status != nil {
		if !entity.IsValidStockStatus(*status) {
			return nil, domain.Invalid("status", fmt.Sprintf("desconocido: %q", *status))
		}
		item.OverrideStatus(*status)
	}
	if err := tx.StockItems.Create(ctx, item); err != nil {
		return nil, err
	}
	if err := l.emit(ctx, tx, item, item.AvailableQuantity, meta, entity.ChangeReasonAdminCreate); err != nil {
		return nil, err
	}
	return item, nil
}

// SetAdministrative aplica cambios directos (CRUD administrativo). Un cambio real de cantidad
// vuelve a derivar el estado; un Status explícito gana y persiste hasta la próxima mutación
// de cantidad. Repetir la misma cantidad no altera el estado.
func (l *Ledger) SetAdministrative(ctx context.Context, tx TxRepos, stockItemID string, f AdminFields, meta ChangeMeta) (*entity.StockItem, error) {
	if f.Quantity != nil && *f.Quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	if f.ReservedQuantity != nil && *f.ReservedQuantity < 0 {
		return nil, domain.Invalid("reserved_quantity", "no puede ser negativa")
	}
	if f.Status != nil && !entity.IsValidStockStatus(*f.Status) {
		return nil, domain.Invalid("status", fmt.Sprintf("desconocido: %q", *f.Status))
	}
	item, err := tx.StockItems.GetByIDForUpdate(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("stock item", stockItemID)
	}

	var delta int64
	if f.Quantity != nil && *f.Quantity != item.AvailableQuantity {
		delta = *f.Quantity - item.AvailableQuantity
		item.AvailableQuantity = *f.Quantity
		item.RecomputeStatus()
	}
	if f.ReservedQuantity != nil {
		item.ReservedQuantity = *f.ReservedQuantity
	}
	if f.IsActive != nil {
		item.IsActive = *f.IsActive
	}
	if f.SectionID != nil {
		if *f.SectionID == "" {
			item.SectionID = nil
		} else {
			sec := *f.SectionID
			item.SectionID = &sec
		}
	}
	if f.ExpiryDate != nil {
		exp := *f.ExpiryDate
		item.ExpiryDate = &exp
	}
	if f.Status != nil {
		item.OverrideStatus(*f.Status)
	}
	item.UpdatedAt = l.now()

	if err := tx.StockItems.Update(ctx, item); err != nil {
		return nil, err
	}
	reason := entity.ChangeReasonAdminUpdate
	if delta != 0 {
		reason = entity.ChangeReasonAdminAdjust
	}
	if err := l.emit(ctx, tx, item, delta, meta, reason); err != nil {
		return nil, err
	}
	return item, nil
}

func (l *Ledger) emit(ctx context.Context, tx TxRepos, item *entity.StockItem, delta int64, meta ChangeMeta, defaultReason string) error {
	reason := meta.Reason
	if reason == "" {
		reason = defaultReason
	}
	ev := &entity.StockChangeEvent{
		ID:            uuid.New().String(),
		StockItemID:   item.ID,
		WarehouseID:   item.WarehouseID,
		ProductID:     item.ProductID,
		GroupID:       item.GroupID,
		Reason:        reason,
		Delta:         delta,
		QuantityAfter: item.AvailableQuantity,
		StatusAfter:   item.Status,
		ShipmentID:    meta.ShipmentID,
		InitiatorID:   meta.InitiatorID,
		OccurredAt:    item.UpdatedAt,
	}
	if err := tx.Events.Append(ctx, ev); err != nil {
		return fmt.Errorf("registrar evento de stock: %w", err)
	}
	return nil
}
