package shipment

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

func toAddress(a *dto.AddressDTO) entity.Address {
	if a == nil {
		return entity.Address{}
	}
	return entity.Address{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		Region:     strings.TrimSpace(a.Region),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(a.Country)),
	}
}

// ToShipmentResponse mapea la entidad a su DTO.
func ToShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	if s == nil {
		return nil
	}
	resp := &dto.ShipmentResponse{
		ID:                   s.ID,
		SenderWarehouseID:    s.SenderWarehouseID,
		RecipientWarehouseID: s.RecipientWarehouseID,
		StockItemID:          s.StockItemID,
		Quantity:             s.Quantity,
		Direction:            s.Direction,
		Status:               s.Status,
		InitiatorID:          s.InitiatorID,
		CreatedAt:            s.CreatedAt.UTC(),
		UpdatedAt:            s.UpdatedAt.UTC(),
		DispatchedAt:         utcPtr(s.DispatchedAt),
		DeliveredAt:          utcPtr(s.DeliveredAt),
		CancelledAt:          utcPtr(s.CancelledAt),
	}
	if a := s.ExternalAddress; a != nil {
		resp.Address = &dto.AddressDTO{
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			Region:     a.Region,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	return resp
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
