package shipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
	"github.com/jhoicas/inventario-envios/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// UseCase flujo de envíos entre bodegas o hacia direcciones externas.
// Cada operación es una sola transacción: si algo falla (stock insuficiente, transición inválida,
// conflicto de bloqueo) no queda ningún efecto ni en el envío ni en el stock.
type UseCase struct {
	txRunner  inventory.TxRunner
	shipments repository.ShipmentRepository
	ledger    *inventory.Ledger
	now       func() time.Time
}

// NewUseCase construye el caso de uso de envíos.
func NewUseCase(txRunner inventory.TxRunner, shipments repository.ShipmentRepository, ledger *inventory.Ledger) *UseCase {
	return &UseCase{txRunner: txRunner, shipments: shipments, ledger: ledger, now: time.Now}
}

// Create registra un envío. Con status SENT el débito al origen ocurre en la misma transacción;
// si no hay stock suficiente no se persiste el envío.
func (uc *UseCase) Create(ctx context.Context, initiatorID int64, in dto.CreateShipmentRequest) (resp *dto.ShipmentResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "shipment", "shipment.create",
		attribute.String("stock_item.id", in.StockItemID),
		attribute.Int64("shipment.quantity", in.Quantity),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := checkDestination(in.RecipientWarehouseCode, in.Address); err != nil {
		return nil, err
	}
	if in.Status == entity.ShipmentStatusDelivered || in.Status == entity.ShipmentStatusCancelled {
		return nil, fmt.Errorf("%w: un envío no puede crearse en estado %s", domain.ErrInvalidTransition, in.Status)
	}
	recipientCode := in.RecipientWarehouseCode
	if recipientCode != nil && strings.TrimSpace(*recipientCode) == "" {
		recipientCode = nil
	}
	direction := in.Direction
	if direction == "" {
		direction = entity.DirectionOutbound
	}

	var created *entity.Shipment
	err = uc.txRunner.Run(ctx, func(tx inventory.TxRepos) error {
		now := uc.now()
		sender, err := warehouseByCode(ctx, tx, "sender_warehouse_code", in.SenderWarehouseCode)
		if err != nil {
			return err
		}
		sh := &entity.Shipment{
			ID:                uuid.New().String(),
			SenderWarehouseID: sender.ID,
			StockItemID:       in.StockItemID,
			Quantity:          in.Quantity,
			Direction:         direction,
			InitiatorID:       initiatorID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := uc.setDestination(ctx, tx, sh, recipientCode, in.Address); err != nil {
			return err
		}
		if err := checkSourceItem(ctx, tx, sh); err != nil {
			return err
		}
		sh.Status = entity.InitialShipmentStatus(sh.HasRecipientWarehouse())
		if in.Status == entity.ShipmentStatusSent {
			if err := uc.transition(ctx, tx, sh, entity.ShipmentStatusSent, initiatorID, now); err != nil {
				return err
			}
		}
		if err := tx.Shipments.Create(ctx, sh); err != nil {
			return err
		}
		created = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("shipment.id", created.ID), attribute.String("shipment.status", created.Status))
	return ToShipmentResponse(created), nil
}

// Update aplica un patch parcial. Los campos solo pueden cambiar antes del despacho;
// si viene status se ejecuta la transición después de aplicar los campos.
func (uc *UseCase) Update(ctx context.Context, initiatorID int64, id string, in dto.UpdateShipmentRequest) (resp *dto.ShipmentResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "shipment", "shipment.update", attribute.String("shipment.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		return nil, domain.Invalid("", "el patch no trae cambios")
	}
	if in.RecipientWarehouseCode != nil && in.Address != nil {
		return nil, domain.Invalid("address", "excluyente con recipient_warehouse_code")
	}

	var updated *entity.Shipment
	err = uc.txRunner.Run(ctx, func(tx inventory.TxRepos) error {
		now := uc.now()
		sh, err := lockShipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if sh.IsTerminal() {
			return fmt.Errorf("%w: el envío está en estado terminal %s", domain.ErrInvalidTransition, sh.Status)
		}
		fieldPatch := in.RecipientWarehouseCode != nil || in.Address != nil || in.Quantity != nil
		if fieldPatch && !sh.IsPreDispatch() {
			return fmt.Errorf("%w: los campos solo pueden modificarse antes del despacho (estado %s)", domain.ErrInvalidTransition, sh.Status)
		}
		if in.RecipientWarehouseCode != nil || in.Address != nil {
			if err := uc.setDestination(ctx, tx, sh, in.RecipientWarehouseCode, in.Address); err != nil {
				return err
			}
			sh.Status = entity.InitialShipmentStatus(sh.HasRecipientWarehouse())
		}
		if in.Quantity != nil {
			sh.Quantity = *in.Quantity
		}
		sh.InitiatorID = initiatorID
		sh.UpdatedAt = now
		if in.Status != nil {
			if err := uc.transition(ctx, tx, sh, *in.Status, initiatorID, now); err != nil {
				return err
			}
		}
		if err := tx.Shipments.Update(ctx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("shipment.status", updated.Status))
	return ToShipmentResponse(updated), nil
}

// Dispatch pasa el envío a SENT y descuenta la cantidad del stock de origen.
func (uc *UseCase) Dispatch(ctx context.Context, initiatorID int64, id string) (*dto.ShipmentResponse, error) {
	return uc.explicitTransition(ctx, "shipment.dispatch", initiatorID, id, entity.ShipmentStatusSent)
}

// Arrive pasa el envío a DELIVERED y acredita (o crea) el stock en la bodega destino.
func (uc *UseCase) Arrive(ctx context.Context, initiatorID int64, id string) (*dto.ShipmentResponse, error) {
	return uc.explicitTransition(ctx, "shipment.arrive", initiatorID, id, entity.ShipmentStatusDelivered)
}

// Cancel cancela un envío no terminal. Si ya estaba en SENT el débito no se revierte.
func (uc *UseCase) Cancel(ctx context.Context, initiatorID int64, id string) (*dto.ShipmentResponse, error) {
	return uc.explicitTransition(ctx, "shipment.cancel", initiatorID, id, entity.ShipmentStatusCancelled)
}

func (uc *UseCase) explicitTransition(ctx context.Context, op string, initiatorID int64, id, target string) (resp *dto.ShipmentResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "shipment", op,
		attribute.String("shipment.id", id),
		attribute.String("shipment.target_status", target),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	var updated *entity.Shipment
	err = uc.txRunner.Run(ctx, func(tx inventory.TxRepos) error {
		now := uc.now()
		sh, err := lockShipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if sh.Status == target {
			return fmt.Errorf("%w: el envío ya está en estado %s", domain.ErrInvalidTransition, target)
		}
		sh.InitiatorID = initiatorID
		if err := uc.transition(ctx, tx, sh, target, initiatorID, now); err != nil {
			return err
		}
		if err := tx.Shipments.Update(ctx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToShipmentResponse(updated), nil
}

// Get devuelve un envío por ID o NotFound.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	sh, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, domain.NotFound("shipment", id)
	}
	return ToShipmentResponse(sh), nil
}

// Find lista envíos con filtros y paginación 1-based, más recientes primero.
func (uc *UseCase) Find(ctx context.Context, in dto.ShipmentFilterRequest) (*dto.ShipmentListResponse, error) {
	if err := in.PageRequest.Check(); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CreatedFrom != nil && in.CreatedTo != nil && in.CreatedTo.Before(*in.CreatedFrom) {
		return nil, domain.Invalid("created_to", "es anterior a created_from")
	}
	filter := repository.ShipmentFilter{
		SenderWarehouseID:    in.SenderWarehouseID,
		RecipientWarehouseID: in.RecipientWarehouseID,
		StockItemID:          in.StockItemID,
		Status:               in.Status,
		Direction:            in.Direction,
		CreatedFrom:          in.CreatedFrom,
		CreatedTo:            in.CreatedTo,
	}
	list, err := uc.shipments.List(ctx, filter, in.PageSize, in.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, sh := range list {
		out = append(out, *ToShipmentResponse(sh))
	}
	return &dto.ShipmentListResponse{
		Items: out,
		Page:  dto.PageResponse{Page: in.Page, PageSize: in.PageSize, Count: len(out)},
	}, nil
}

// transition valida y ejecuta el cambio de estado con su efecto sobre el stock.
// Un estado equivalente al actual (PLANNED/INITIATED) no hace nada.
func (uc *UseCase) transition(ctx context.Context, tx inventory.TxRepos, sh *entity.Shipment, target string, initiatorID int64, now time.Time) error {
	changed, err := sh.CheckTransition(target)
	if err != nil || !changed {
		return err
	}
	meta := inventory.ChangeMeta{InitiatorID: initiatorID, ShipmentID: &sh.ID}
	switch target {
	case entity.ShipmentStatusSent:
		if _, err := uc.ledger.Debit(ctx, tx, sh.StockItemID, sh.Quantity, meta); err != nil {
			return err
		}
		sh.MarkSent(now)
	case entity.ShipmentStatusDelivered:
		source, err := tx.StockItems.GetByID(ctx, sh.StockItemID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.NotFound("stock item", sh.StockItemID)
		}
		defaults := inventory.Defaults{ExpiryDate: source.ExpiryDate}
		if _, err := uc.ledger.CreditOrCreate(ctx, tx, *sh.RecipientWarehouseID, source.ProductID, source.GroupID, sh.Quantity, defaults, meta); err != nil {
			return err
		}
		sh.MarkDelivered(now)
	case entity.ShipmentStatusCancelled:
		sh.MarkCancelled(now)
	}
	return nil
}

// setDestination fija la bodega destino o la dirección externa; una limpia a la otra.
func (uc *UseCase) setDestination(ctx context.Context, tx inventory.TxRepos, sh *entity.Shipment, recipientCode *string, addr *dto.AddressDTO) error {
	if recipientCode != nil {
		recipient, err := warehouseByCode(ctx, tx, "recipient_warehouse_code", *recipientCode)
		if err != nil {
			return err
		}
		if recipient.ID == sh.SenderWarehouseID {
			return domain.Invalid("recipient_warehouse_code", "debe ser distinta de la bodega de origen")
		}
		id := recipient.ID
		sh.RecipientWarehouseID = &id
		sh.ExternalAddress = nil
		return nil
	}
	a := toAddress(addr)
	sh.ExternalAddress = &a
	sh.RecipientWarehouseID = nil
	return nil
}

func checkDestination(recipientCode *string, addr *dto.AddressDTO) error {
	hasRecipient := recipientCode != nil && strings.TrimSpace(*recipientCode) != ""
	switch {
	case hasRecipient && addr != nil:
		return domain.Invalid("address", "excluyente con recipient_warehouse_code")
	case !hasRecipient && addr == nil:
		return domain.Invalid("recipient_warehouse_code", "se requiere bodega destino o dirección")
	}
	return nil
}

// checkSourceItem verifica que el stock item exista, esté en la bodega de origen y activo.
func checkSourceItem(ctx context.Context, tx inventory.TxRepos, sh *entity.Shipment) error {
	item, err := tx.StockItems.GetByID(ctx, sh.StockItemID)
	if err != nil {
		return err
	}
	if item == nil || item.WarehouseID != sh.SenderWarehouseID {
		return domain.NotFound("stock item", sh.StockItemID)
	}
	if !item.IsActive {
		return domain.Invalid("stock_item_id", "el stock item está inactivo")
	}
	return nil
}

func warehouseByCode(ctx context.Context, tx inventory.TxRepos, field, code string) (*entity.Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Invalid(field, "es requerido")
	}
	wh, err := tx.Warehouses.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NotFound("warehouse", code)
	}
	return wh, nil
}

func lockShipment(ctx context.Context, tx inventory.TxRepos, id string) (*entity.Shipment, error) {
	sh, err := tx.Shipments.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, domain.NotFound("shipment", id)
	}
	return sh, nil
}
