package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

const stockEventColumns = `id, stock_item_id, warehouse_id, product_id, group_id, reason, delta,
	quantity_after, status_after, shipment_id, initiator_id, occurred_at, published_at`

// StockEventRepo outbox de eventos de stock sobre la tabla stock_change_events.
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository construye el adaptador del outbox.
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

// Append inserta los eventos con la misma Querier (tx) de la mutación que los origina.
func (r *StockEventRepo) Append(ctx context.Context, events ...*entity.StockChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	query := `INSERT INTO stock_change_events (` + stockEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for _, e := range events {
		_, err := r.q.Exec(ctx, query,
			e.ID, e.StockItemID, e.WarehouseID, e.ProductID, e.GroupID, e.Reason, e.Delta,
			e.QuantityAfter, e.StatusAfter, e.ShipmentID, e.InitiatorID, e.OccurredAt, e.PublishedAt,
		)
		if err != nil {
			return wrap("insert stock event", err)
		}
	}
	return nil
}

// ListPending devuelve eventos sin publicar en orden de ocurrencia. Dentro de una tx
// las filas quedan bloqueadas y otro relay las salta (SKIP LOCKED).
func (r *StockEventRepo) ListPending(ctx context.Context, limit int) ([]*entity.StockChangeEvent, error) {
	query := `SELECT ` + stockEventColumns + ` FROM stock_change_events
		WHERE published_at IS NULL
		ORDER BY occurred_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, wrap("list pending stock events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockChangeEvent, error) {
		var e entity.StockChangeEvent
		err := row.Scan(
			&e.ID, &e.StockItemID, &e.WarehouseID, &e.ProductID, &e.GroupID, &e.Reason, &e.Delta,
			&e.QuantityAfter, &e.StatusAfter, &e.ShipmentID, &e.InitiatorID, &e.OccurredAt, &e.PublishedAt,
		)
		return &e, err
	})
	if err != nil {
		return nil, wrap("scan stock events", err)
	}
	return events, nil
}

// MarkPublished marca los eventos como publicados.
func (r *StockEventRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE stock_change_events SET published_at = $2 WHERE id = ANY($1::uuid[]) AND published_at IS NULL`,
		ids, time.Now().UTC(),
	)
	return wrap("mark stock events published", err)
}
