package entity

import "time"

// Estados de un StockItem. AVAILABLE y OUT_OF_STOCK se derivan de la cantidad;
// RESERVED y OUT_OF_SERVICE solo se asignan por instrucción explícita.
const (
	StockStatusAvailable    = "AVAILABLE"
	StockStatusOutOfStock   = "OUT_OF_STOCK"
	StockStatusReserved     = "RESERVED"
	StockStatusOutOfService = "OUT_OF_SERVICE"
)

// StockItem representa la cantidad de un producto (variante/grupo) en una bodega,
// opcionalmente dentro de una sección de almacenamiento.
type StockItem struct {
	ID                string
	ProductID         string
	GroupID           string
	WarehouseID       string
	SectionID         *string
	ExpiryDate        *time.Time
	AvailableQuantity int64
	ReservedQuantity  int64
	Status            string
	StatusOverridden  bool // true si Status fue fijado por instrucción y no derivado
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DeriveStockStatus devuelve el estado que corresponde a una cantidad disponible.
func DeriveStockStatus(available int64) string {
	if available > 0 {
		return StockStatusAvailable
	}
	return StockStatusOutOfStock
}

// IsValidStockStatus indica si s es uno de los estados conocidos.
func IsValidStockStatus(s string) bool {
	switch s {
	case StockStatusAvailable, StockStatusOutOfStock, StockStatusReserved, StockStatusOutOfService:
		return true
	}
	return false
}

// IsOperationalStatus indica si s solo puede fijarse explícitamente (no se deriva de la cantidad).
func IsOperationalStatus(s string) bool {
	return s == StockStatusReserved || s == StockStatusOutOfService
}

// RecomputeStatus vuelve a derivar el estado a partir de la cantidad y limpia cualquier override.
func (s *StockItem) RecomputeStatus() {
	s.Status = DeriveStockStatus(s.AvailableQuantity)
	s.StatusOverridden = false
}

// OverrideStatus fija un estado operativo. Un estado derivable (AVAILABLE, OUT_OF_STOCK)
// no puede forzarse contra la cantidad: limpia el override y se recalcula.
func (s *StockItem) OverrideStatus(status string) {
	if IsOperationalStatus(status) {
		s.Status = status
		s.StatusOverridden = true
		return
	}
	s.RecomputeStatus()
}

// CanDebit indica si hay cantidad disponible suficiente para descontar qty.
func (s *StockItem) CanDebit(qty int64) bool {
	return qty > 0 && qty <= s.AvailableQuantity
}

// ApplyDebit descuenta qty y recalcula el estado. El llamador valida antes con CanDebit.
func (s *StockItem) ApplyDebit(qty int64, now time.Time) {
	s.AvailableQuantity -= qty
	s.RecomputeStatus()
	s.UpdatedAt = now
}

// ApplyCredit suma qty y recalcula el estado.
func (s *StockItem) ApplyCredit(qty int64, now time.Time) {
	s.AvailableQuantity += qty
	s.RecomputeStatus()
	s.UpdatedAt = now
}

// Clone devuelve una copia profunda (punteros incluidos).
func (s *StockItem) Clone() *StockItem {
	if s == nil {
		return nil
	}
	c := *s
	if s.SectionID != nil {
		v := *s.SectionID
		c.SectionID = &v
	}
	if s.ExpiryDate != nil {
		v := *s.ExpiryDate
		c.ExpiryDate = &v
	}
	return &c
}
