package entity

import "time"

// Motivos de un cambio de stock.
const (
	ChangeReasonShipmentDebit  = "SHIPMENT_DEBIT"
	ChangeReasonShipmentCredit = "SHIPMENT_CREDIT"
	ChangeReasonAdminCreate    = "ADMIN_CREATE"
	ChangeReasonAdminAdjust    = "ADMIN_ADJUST"
	ChangeReasonAdminUpdate    = "ADMIN_UPDATE"
)

// StockChangeEvent registro de un cambio aplicado por el ledger a un StockItem.
// Se guarda en el outbox dentro de la misma transacción y luego se publica en Kafka.
type StockChangeEvent struct {
	ID            string
	StockItemID   string
	WarehouseID   string
	ProductID     string
	GroupID       string
	Reason        string
	Delta         int64 // negativo en débitos
	QuantityAfter int64
	StatusAfter   string
	ShipmentID    *string
	InitiatorID   int64
	OccurredAt    time.Time
	PublishedAt   *time.Time
}
