package dto

import "time"

// AddressDTO dirección externa de destino.
type AddressDTO struct {
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2,omitempty" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region,omitempty" validate:"max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=20"`
	Country    string `json:"country" validate:"required,len=2"`
}

// CreateShipmentRequest body para POST /api/shipments.
// Exactamente uno de recipient_warehouse_code / address debe venir informado.
type CreateShipmentRequest struct {
	SenderWarehouseCode    string      `json:"sender_warehouse_code" validate:"required"`
	RecipientWarehouseCode *string     `json:"recipient_warehouse_code,omitempty"`
	Address                *AddressDTO `json:"address,omitempty"`
	StockItemID            string      `json:"stock_item_id" validate:"required"`
	Quantity               int64       `json:"quantity" validate:"gt=0"`
	Direction              string      `json:"direction,omitempty" validate:"omitempty,oneof=OUTBOUND INBOUND"`
	Status                 string      `json:"status,omitempty" validate:"omitempty,oneof=PLANNED INITIATED SENT DELIVERED CANCELLED"`
}

// UpdateShipmentRequest body para PATCH /api/shipments/:id. Solo se aplican los campos presentes.
type UpdateShipmentRequest struct {
	RecipientWarehouseCode *string     `json:"recipient_warehouse_code,omitempty"`
	Address                *AddressDTO `json:"address,omitempty"`
	Quantity               *int64      `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Status                 *string     `json:"status,omitempty" validate:"omitempty,oneof=PLANNED INITIATED SENT DELIVERED CANCELLED"`
}

// IsEmpty indica si el patch no trae cambios.
func (r UpdateShipmentRequest) IsEmpty() bool {
	return r.RecipientWarehouseCode == nil && r.Address == nil && r.Quantity == nil && r.Status == nil
}

// ShipmentFilterRequest query de GET /api/shipments.
type ShipmentFilterRequest struct {
	SenderWarehouseID    string     `query:"sender_warehouse_id"`
	RecipientWarehouseID string     `query:"recipient_warehouse_id"`
	StockItemID          string     `query:"stock_item_id"`
	Status               string     `query:"status" validate:"omitempty,oneof=PLANNED INITIATED SENT DELIVERED CANCELLED"`
	Direction            string     `query:"direction" validate:"omitempty,oneof=OUTBOUND INBOUND"`
	CreatedFrom          *time.Time `query:"-"` // RFC3339, lo interpreta el handler
	CreatedTo            *time.Time `query:"-"`
	PageRequest
}

// ShipmentResponse salida de un envío.
type ShipmentResponse struct {
	ID                   string      `json:"id"`
	SenderWarehouseID    string      `json:"sender_warehouse_id"`
	RecipientWarehouseID *string     `json:"recipient_warehouse_id,omitempty"`
	Address              *AddressDTO `json:"address,omitempty"`
	StockItemID          string      `json:"stock_item_id"`
	Quantity             int64       `json:"quantity"`
	Direction            string      `json:"direction"`
	Status               string      `json:"status"`
	InitiatorID          int64       `json:"initiator_id"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
	DispatchedAt         *time.Time  `json:"dispatched_at,omitempty"`
	DeliveredAt          *time.Time  `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time  `json:"cancelled_at,omitempty"`
}

// ShipmentListResponse lista paginada de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
