package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshipment "github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

func sampleDocument() appshipment.DeliveryDocument {
	recipient := "wh-b"
	sent := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return appshipment.DeliveryDocument{
		Shipment: &entity.Shipment{
			ID:                   "4f1c2d3e-aaaa-bbbb-cccc-1234567890ab",
			SenderWarehouseID:    "wh-a",
			RecipientWarehouseID: &recipient,
			StockItemID:          "item-1",
			Quantity:             1500,
			Direction:            entity.DirectionOutbound,
			Status:               entity.ShipmentStatusSent,
			DispatchedAt:         &sent,
		},
		Sender:    &entity.Warehouse{ID: "wh-a", Code: "BOG", Name: "Bodega Bogotá", Address: "Cra 7 # 10-20"},
		Recipient: &entity.Warehouse{ID: "wh-b", Code: "MED", Name: "Bodega Medellín"},
		Product:   &entity.Product{ID: "prod-1", SKU: "SKU-001", Name: "Tornillo 1/4"},
		Group:     &entity.StockItemGroup{ID: "grp-1", Code: "LOTE-A", Name: "Lote A"},
		IssuedAt:  sent,
	}
}

func TestGenerateDeliveryNotePDF_GeneraPDF(t *testing.T) {
	out, err := NewMarotoDeliveryNoteGenerator().GenerateDeliveryNotePDF(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateDeliveryNotePDF_DocumentoIncompleto(t *testing.T) {
	doc := sampleDocument()
	doc.Product = nil
	_, err := NewMarotoDeliveryNoteGenerator().GenerateDeliveryNotePDF(context.Background(), doc)
	assert.Error(t, err)
}

func TestFormatQuantity(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1500:    "1.500",
		1000000: "1.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(in))
	}
}
