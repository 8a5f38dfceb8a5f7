// Package pdf genera la remisión (nota de entrega) de un envío entre bodegas
// o hacia una dirección externa.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega origen          │  N° Remisión + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN / DESTINO                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Grupo | Cantidad                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADO + fechas de despacho / entrega                       │
//	│  FOOTER: QR con el ID del envío + firmas                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appshipment "github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.ShipmentStatusPlanned:   "PLANEADO",
	entity.ShipmentStatusInitiated: "INICIADO",
	entity.ShipmentStatusSent:      "DESPACHADO",
	entity.ShipmentStatusDelivered: "ENTREGADO",
	entity.ShipmentStatusCancelled: "CANCELADO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoDeliveryNoteGenerator implementa shipment.DeliveryNoteGenerator usando Maroto v2.
type MarotoDeliveryNoteGenerator struct{}

var _ appshipment.DeliveryNoteGenerator = (*MarotoDeliveryNoteGenerator)(nil)

func NewMarotoDeliveryNoteGenerator() *MarotoDeliveryNoteGenerator {
	return &MarotoDeliveryNoteGenerator{}
}

// GenerateDeliveryNotePDF genera la remisión y devuelve sus bytes.
func (g *MarotoDeliveryNoteGenerator) GenerateDeliveryNotePDF(_ context.Context, doc appshipment.DeliveryDocument) ([]byte, error) {
	if doc.Shipment == nil || doc.Sender == nil || doc.Product == nil {
		return nil, fmt.Errorf("pdf: documento de envío incompleto")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de envío", true).
		WithAuthor(doc.Sender.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRow(doc))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(statusRow(doc.Shipment))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Shipment))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc appshipment.DeliveryDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Sender.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega: "+doc.Sender.Code, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REMISIÓN DE ENVÍO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(doc.Shipment.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: origen (izq) y destino (der).
func partiesRow(doc appshipment.DeliveryDocument) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("ORIGEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Sender.Code+" - "+doc.Sender.Name, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 6,
			}),
			text.New(nonEmpty(doc.Sender.Address, "—"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.Destination(), "—"), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 6,
			}),
			text.New(recipientDetail(doc), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Grupo", 3, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

func itemRow(doc appshipment.DeliveryDocument) core.Row {
	group := "—"
	if doc.Group != nil {
		group = doc.Group.Code
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(doc.Product.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(doc.Product.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(group, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(formatQuantity(doc.Shipment.Quantity), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func statusRow(s *entity.Shipment) core.Row {
	label := statusLabels[s.Status]
	if label == "" {
		label = s.Status
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("ESTADO: "+label, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(6).Add(
			text.New("Despachado: "+formatTime(s.DispatchedAt), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Entregado: "+formatTime(s.DeliveredAt), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// footerRow: QR con el ID completo del envío + espacio de firmas.
func footerRow(s *entity.Shipment) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Envío: "+s.ID, props.Text{Size: 7, Top: 2, Left: 3, Color: colorGray}),
			text.New("Entrega: ______________________", props.Text{Size: 9, Top: 18, Left: 3}),
			text.New("Recibe:  ______________________", props.Text{Size: 9, Top: 28, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func recipientDetail(doc appshipment.DeliveryDocument) string {
	if doc.Recipient != nil {
		return nonEmpty(doc.Recipient.Address, "—")
	}
	return "Dirección externa"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "REM-" + id[:8]
	}
	return "REM-" + id
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.UTC().Format("02/01/2006 15:04")
}

// formatQuantity inserta puntos de miles. Ej: 1000000 → "1.000.000"
func formatQuantity(q int64) string {
	s := strconv.FormatInt(q, 10)
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
