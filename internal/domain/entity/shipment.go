package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain"
)

// Estados del envío. PLANNED e INITIATED son equivalentes (pre-despacho): INITIATED es el
// estado por defecto cuando el destino es una bodega, PLANNED cuando es una dirección externa.
const (
	ShipmentStatusPlanned   = "PLANNED"
	ShipmentStatusInitiated = "INITIATED"
	ShipmentStatusSent      = "SENT"
	ShipmentStatusDelivered = "DELIVERED"
	ShipmentStatusCancelled = "CANCELLED"
)

// Dirección del envío respecto a la bodega emisora.
const (
	DirectionOutbound = "OUTBOUND"
	DirectionInbound  = "INBOUND"
)

// Shipment movimiento dirigido y cuantificado de un StockItem hacia otra bodega o una dirección externa.
type Shipment struct {
	ID                   string
	SenderWarehouseID    string
	RecipientWarehouseID *string  // excluyente con ExternalAddress
	ExternalAddress      *Address // excluyente con RecipientWarehouseID
	StockItemID          string
	Quantity             int64
	Direction            string
	Status               string
	InitiatorID          int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DispatchedAt         *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

// IsValidShipmentStatus indica si s es un estado conocido.
func IsValidShipmentStatus(s string) bool {
	switch s {
	case ShipmentStatusPlanned, ShipmentStatusInitiated, ShipmentStatusSent,
		ShipmentStatusDelivered, ShipmentStatusCancelled:
		return true
	}
	return false
}

// IsValidDirection indica si d es OUTBOUND o INBOUND.
func IsValidDirection(d string) bool {
	return d == DirectionOutbound || d == DirectionInbound
}

// IsPreDispatchStatus indica si s es PLANNED o INITIATED.
func IsPreDispatchStatus(s string) bool {
	return s == ShipmentStatusPlanned || s == ShipmentStatusInitiated
}

// IsTerminalStatus indica si s no admite más transiciones.
func IsTerminalStatus(s string) bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// InitialShipmentStatus estado de creación según el tipo de destino.
func InitialShipmentStatus(hasRecipientWarehouse bool) string {
	if hasRecipientWarehouse {
		return ShipmentStatusInitiated
	}
	return ShipmentStatusPlanned
}

// IsTerminal indica si el envío está en DELIVERED o CANCELLED.
func (s *Shipment) IsTerminal() bool { return IsTerminalStatus(s.Status) }

// IsPreDispatch indica si el envío aún no fue despachado.
func (s *Shipment) IsPreDispatch() bool { return IsPreDispatchStatus(s.Status) }

// HasRecipientWarehouse indica si el destino es una bodega.
func (s *Shipment) HasRecipientWarehouse() bool {
	return s.RecipientWarehouseID != nil && *s.RecipientWarehouseID != ""
}

// CheckTransition valida el paso del estado actual a target.
// Devuelve (false, nil) cuando target es equivalente al estado actual (sin transición).
func (s *Shipment) CheckTransition(target string) (bool, error) {
	if !IsValidShipmentStatus(target) {
		return false, domain.Invalid("status", fmt.Sprintf("desconocido: %q", target))
	}
	if s.IsTerminal() {
		return false, fmt.Errorf("%w: el envío está en estado terminal %s", domain.ErrInvalidTransition, s.Status)
	}
	if s.IsPreDispatch() && IsPreDispatchStatus(target) {
		return false, nil
	}
	if s.Status == target {
		return false, nil
	}
	switch target {
	case ShipmentStatusSent:
		if s.IsPreDispatch() {
			return true, nil
		}
	case ShipmentStatusDelivered:
		if s.Status == ShipmentStatusSent {
			if !s.HasRecipientWarehouse() {
				return false, fmt.Errorf("%w: un envío a dirección externa no puede recibirse en bodega", domain.ErrInvalidTransition)
			}
			return true, nil
		}
	case ShipmentStatusCancelled:
		return true, nil
	}
	return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.Status, target)
}

// MarkSent, MarkDelivered y MarkCancelled fijan el estado y la marca de tiempo correspondiente.
func (s *Shipment) MarkSent(now time.Time) {
	s.Status = ShipmentStatusSent
	s.DispatchedAt = &now
	s.UpdatedAt = now
}

func (s *Shipment) MarkDelivered(now time.Time) {
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &now
	s.UpdatedAt = now
}

func (s *Shipment) MarkCancelled(now time.Time) {
	s.Status = ShipmentStatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
}

// Clone devuelve una copia profunda.
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	c := *s
	if s.RecipientWarehouseID != nil {
		v := *s.RecipientWarehouseID
		c.RecipientWarehouseID = &v
	}
	if s.ExternalAddress != nil {
		v := *s.ExternalAddress
		c.ExternalAddress = &v
	}
	for _, p := range []**time.Time{&c.DispatchedAt, &c.DeliveredAt, &c.CancelledAt} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return &c
}
