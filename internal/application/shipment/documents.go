package shipment

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

// DeliveryDocument datos consolidados de un envío para sus documentos (remisión PDF, UBL).
type DeliveryDocument struct {
	Shipment  *entity.Shipment
	Sender    *entity.Warehouse
	Recipient *entity.Warehouse // nil cuando el destino es una dirección externa
	StockItem *entity.StockItem
	Product   *entity.Product
	Group     *entity.StockItemGroup
	IssuedAt  time.Time
}

// Destination devuelve el destino legible del envío.
func (d DeliveryDocument) Destination() string {
	if d.Recipient != nil {
		return d.Recipient.Code + " - " + d.Recipient.Name
	}
	if d.Shipment.ExternalAddress != nil {
		return d.Shipment.ExternalAddress.OneLine()
	}
	return ""
}

// DeliveryNoteGenerator genera la remisión (PDF) de un envío.
type DeliveryNoteGenerator interface {
	GenerateDeliveryNotePDF(ctx context.Context, doc DeliveryDocument) ([]byte, error)
}

// DespatchAdviceBuilder construye el aviso de despacho UBL 2.1 (XML) de un envío.
type DespatchAdviceBuilder interface {
	BuildDespatchAdvice(doc DeliveryDocument) ([]byte, error)
}

// DocumentsUseCase arma los documentos de un envío a partir de los repositorios.
type DocumentsUseCase struct {
	shipments  repository.ShipmentRepository
	warehouses repository.WarehouseRepository
	items      repository.StockItemRepository
	catalog    repository.CatalogRepository
	pdf        DeliveryNoteGenerator
	ubl        DespatchAdviceBuilder
	now        func() time.Time
}

// NewDocumentsUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentsUseCase(
	shipments repository.ShipmentRepository,
	warehouses repository.WarehouseRepository,
	items repository.StockItemRepository,
	catalog repository.CatalogRepository,
	pdf DeliveryNoteGenerator,
	ubl DespatchAdviceBuilder,
) *DocumentsUseCase {
	return &DocumentsUseCase{
		shipments:  shipments,
		warehouses: warehouses,
		items:      items,
		catalog:    catalog,
		pdf:        pdf,
		ubl:        ubl,
		now:        time.Now,
	}
}

// DeliveryNotePDF genera la remisión de un envío no cancelado.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el envío no existe.
//   - domain.ErrInvalidInput     si el envío está cancelado.
func (uc *DocumentsUseCase) DeliveryNotePDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if doc.Shipment.Status == entity.ShipmentStatusCancelled {
		return nil, "", domain.Invalid("status", "un envío cancelado no tiene remisión")
	}
	pdfBytes, err = uc.pdf.GenerateDeliveryNotePDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, "remision_" + shortID(id) + ".pdf", nil
}

// DespatchAdviceXML genera el DespatchAdvice UBL de un envío ya despachado (SENT o DELIVERED).
func (uc *DocumentsUseCase) DespatchAdviceXML(ctx context.Context, id string) (xmlBytes []byte, filename string, err error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch doc.Shipment.Status {
	case entity.ShipmentStatusSent, entity.ShipmentStatusDelivered:
	default:
		return nil, "", domain.Invalid("status", fmt.Sprintf("el envío está en estado %s, aún no ha sido despachado", doc.Shipment.Status))
	}
	xmlBytes, err = uc.ubl.BuildDespatchAdvice(*doc)
	if err != nil {
		return nil, "", fmt.Errorf("ubl: construir despatch advice: %w", err)
	}
	return xmlBytes, "despatch_advice_" + shortID(id) + ".xml", nil
}

func (uc *DocumentsUseCase) load(ctx context.Context, id string) (*DeliveryDocument, error) {
	sh, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener envío: %w", err)
	}
	if sh == nil {
		return nil, domain.NotFound("shipment", id)
	}
	doc := &DeliveryDocument{Shipment: sh, IssuedAt: uc.now()}

	if doc.Sender, err = uc.warehouses.GetByID(ctx, sh.SenderWarehouseID); err != nil {
		return nil, fmt.Errorf("obtener bodega origen: %w", err)
	}
	if doc.Sender == nil {
		return nil, domain.NotFound("warehouse", sh.SenderWarehouseID)
	}
	if sh.HasRecipientWarehouse() {
		if doc.Recipient, err = uc.warehouses.GetByID(ctx, *sh.RecipientWarehouseID); err != nil {
			return nil, fmt.Errorf("obtener bodega destino: %w", err)
		}
	}
	if doc.StockItem, err = uc.items.GetByID(ctx, sh.StockItemID); err != nil {
		return nil, fmt.Errorf("obtener stock item: %w", err)
	}
	if doc.StockItem == nil {
		return nil, domain.NotFound("stock item", sh.StockItemID)
	}
	// Producto y grupo solo enriquecen el documento; si faltan se usan los IDs.
	if doc.Product, err = uc.catalog.GetProductByID(ctx, doc.StockItem.ProductID); err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if doc.Group, err = uc.catalog.GetGroupByID(ctx, doc.StockItem.GroupID); err != nil {
		return nil, fmt.Errorf("obtener grupo: %w", err)
	}
	return doc, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
