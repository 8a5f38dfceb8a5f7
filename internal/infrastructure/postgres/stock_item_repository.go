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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, product_id, group_id, warehouse_id, section_id, expiry_date,
	available_quantity, reserved_quantity, status, status_overridden, is_active, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create inserta un StockItem. Una violación del índice único (bodega, producto, grupo) solo ocurre
// si otra transacción lo creó en paralelo: se reporta como conflicto para que el llamador reintente.
func (r *StockItemRepo) Create(ctx context.Context, s *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.GroupID, s.WarehouseID, s.SectionID, s.ExpiryDate,
		s.AvailableQuantity, s.ReservedQuantity, s.Status, s.StatusOverridden, s.IsActive,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: stock item creado en paralelo para bodega %s", domain.ErrConflict, s.WarehouseID)
		}
		return wrap("insert stock item", err)
	}
	return nil
}

// Update persiste cantidades, estado y atributos editables.
func (r *StockItemRepo) Update(ctx context.Context, s *entity.StockItem) error {
	query := `
		UPDATE stock_items SET
			section_id = $2, expiry_date = $3, available_quantity = $4, reserved_quantity = $5,
			status = $6, status_overridden = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.SectionID, s.ExpiryDate, s.AvailableQuantity, s.ReservedQuantity,
		s.Status, s.StatusOverridden, s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		return wrap("update stock item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("stock item", s.ID)
	}
	return nil
}

// GetByID obtiene un StockItem por ID. Retorna (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, "get stock item", `SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el StockItem y bloquea la fila (SELECT FOR UPDATE).
func (r *StockItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, "get stock item for update", `SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1 FOR UPDATE`, id)
}

// GetByKeyForUpdate busca por (bodega, producto, grupo) y bloquea la fila si existe.
func (r *StockItemRepo) GetByKeyForUpdate(ctx context.Context, warehouseID, productID, groupID string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items
		WHERE warehouse_id = $1 AND product_id = $2 AND group_id = $3
		FOR UPDATE`
	return r.getOne(ctx, "get stock item by key", query, warehouseID, productID, groupID)
}

// List devuelve StockItems filtrados, ordenados por fecha de creación.
func (r *StockItemRepo) List(ctx context.Context, f repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.GroupID != "" {
		add("group_id = $%d", f.GroupID)
	}
	if f.SectionID != "" {
		add("section_id = $%d", f.SectionID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.IsActive != nil {
		add("is_active = $%d", *f.IsActive)
	}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list stock items", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		s, err := scanStockItem(rows)
		if err != nil {
			return nil, wrap("scan stock item", err)
		}
		list = append(list, s)
	}
	return list, wrap("list stock items", rows.Err())
}

func (r *StockItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.StockItem, error) {
	s, err := scanStockItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return s, nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(
		&s.ID, &s.ProductID, &s.GroupID, &s.WarehouseID, &s.SectionID, &s.ExpiryDate,
		&s.AvailableQuantity, &s.ReservedQuantity, &s.Status, &s.StatusOverridden, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
