package dto

import "time"

// CreateStockItemRequest body para POST /api/stock-items (alta administrativa).
type CreateStockItemRequest struct {
	ProductID   string     `json:"product_id" validate:"required"`
	GroupID     string     `json:"group_id" validate:"required"`
	WarehouseID string     `json:"warehouse_id" validate:"required"`
	SectionID   *string    `json:"section_id,omitempty"`
	Quantity    int64      `json:"quantity" validate:"gte=0"`
	IsActive    *bool      `json:"is_active,omitempty"` // por defecto true
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK RESERVED OUT_OF_SERVICE"`
}

// UpdateStockItemRequest body para PATCH /api/stock-items/:id.
type UpdateStockItemRequest struct {
	Quantity         *int64     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	ReservedQuantity *int64     `json:"reserved_quantity,omitempty" validate:"omitempty,gte=0"`
	IsActive         *bool      `json:"is_active,omitempty"`
	SectionID        *string    `json:"section_id,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK RESERVED OUT_OF_SERVICE"`
}

// StockItemFilterRequest query de GET /api/stock-items.
type StockItemFilterRequest struct {
	WarehouseID string `query:"warehouse_id"`
	ProductID   string `query:"product_id"`
	GroupID     string `query:"group_id"`
	SectionID   string `query:"section_id"`
	Status      string `query:"status" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK RESERVED OUT_OF_SERVICE"`
	IsActive    *bool  `query:"-"`
	PageRequest
}

// ResolveStockItemRequest query de GET /api/stock-items/resolve.
type ResolveStockItemRequest struct {
	WarehouseID string `query:"warehouse_id" json:"warehouse_id" validate:"required"`
	ProductID   string `query:"product_id" json:"product_id" validate:"required"`
	GroupID     string `query:"group_id" json:"group_id" validate:"required"`
}

// StockItemResponse salida de un StockItem.
type StockItemResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	GroupID           string     `json:"group_id"`
	WarehouseID       string     `json:"warehouse_id"`
	SectionID         *string    `json:"section_id,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	AvailableQuantity int64      `json:"available_quantity"`
	ReservedQuantity  int64      `json:"reserved_quantity"`
	Status            string     `json:"status"`
	StatusOverridden  bool       `json:"status_overridden"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StockItemListResponse lista paginada de StockItems.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
