package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, sender_warehouse_id, recipient_warehouse_id,
	address_line1, address_line2, address_city, address_region, address_postal_code, address_country,
	stock_item_id, quantity, direction, status, initiator_id,
	created_at, updated_at, dispatched_at, delivered_at, cancelled_at`

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create inserta un envío.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	a := addressColumns(s.ExternalAddress)
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SenderWarehouseID, s.RecipientWarehouseID,
		a[0], a[1], a[2], a[3], a[4], a[5],
		s.StockItemID, s.Quantity, s.Direction, s.Status, s.InitiatorID,
		s.CreatedAt, s.UpdatedAt, s.DispatchedAt, s.DeliveredAt, s.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: shipment %s", domain.ErrDuplicate, s.ID)
		}
		return wrap("insert shipment", err)
	}
	return nil
}

// Update persiste destino, cantidad, estado, iniciador y marcas de tiempo.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	query := `
		UPDATE shipments SET
			recipient_warehouse_id = $2,
			address_line1 = $3, address_line2 = $4, address_city = $5,
			address_region = $6, address_postal_code = $7, address_country = $8,
			quantity = $9, status = $10, initiator_id = $11, updated_at = $12,
			dispatched_at = $13, delivered_at = $14, cancelled_at = $15
		WHERE id = $1`
	a := addressColumns(s.ExternalAddress)
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.RecipientWarehouseID,
		a[0], a[1], a[2], a[3], a[4], a[5],
		s.Quantity, s.Status, s.InitiatorID, s.UpdatedAt,
		s.DispatchedAt, s.DeliveredAt, s.CancelledAt,
	)
	if err != nil {
		return wrap("update shipment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("shipment", s.ID)
	}
	return nil
}

// GetByID obtiene un envío por ID. Retorna (nil, nil) si no existe.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, "get shipment", `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el envío y bloquea la fila (SELECT FOR UPDATE).
func (r *ShipmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, "get shipment for update", `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

// List devuelve envíos filtrados, más recientes primero.
func (r *ShipmentRepo) List(ctx context.Context, f repository.ShipmentFilter, limit, offset int) ([]*entity.Shipment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.SenderWarehouseID != "" {
		add("sender_warehouse_id = $%d", f.SenderWarehouseID)
	}
	if f.RecipientWarehouseID != "" {
		add("recipient_warehouse_id = $%d", f.RecipientWarehouseID)
	}
	if f.StockItemID != "" {
		add("stock_item_id = $%d", f.StockItemID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Direction != "" {
		add("direction = $%d", f.Direction)
	}
	if f.CreatedFrom != nil {
		add("created_at >= $%d", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		add("created_at <= $%d", *f.CreatedTo)
	}
	query := `SELECT ` + shipmentColumns + ` FROM shipments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list shipments", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, wrap("scan shipment", err)
		}
		list = append(list, s)
	}
	return list, wrap("list shipments", rows.Err())
}

func (r *ShipmentRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return s, nil
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var (
		s    entity.Shipment
		addr [6]*string
	)
	err := row.Scan(
		&s.ID, &s.SenderWarehouseID, &s.RecipientWarehouseID,
		&addr[0], &addr[1], &addr[2], &addr[3], &addr[4], &addr[5],
		&s.StockItemID, &s.Quantity, &s.Direction, &s.Status, &s.InitiatorID,
		&s.CreatedAt, &s.UpdatedAt, &s.DispatchedAt, &s.DeliveredAt, &s.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	if addr[0] != nil {
		s.ExternalAddress = &entity.Address{
			Line1:      deref(addr[0]),
			Line2:      deref(addr[1]),
			City:       deref(addr[2]),
			Region:     deref(addr[3]),
			PostalCode: deref(addr[4]),
			Country:    deref(addr[5]),
		}
	}
	return &s, nil
}

// addressColumns aplana la dirección; sin dirección todas las columnas quedan NULL.
func addressColumns(a *entity.Address) [6]*string {
	if a == nil {
		return [6]*string{}
	}
	return [6]*string{&a.Line1, &a.Line2, &a.City, &a.Region, &a.PostalCode, &a.Country}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
