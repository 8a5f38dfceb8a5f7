package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, code, name, address, is_active, created_at, updated_at`

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `INSERT INTO warehouses (` + warehouseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name, w.Address, w.IsActive, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe la bodega %s", domain.ErrDuplicate, w.Code)
		}
		return wrap("insert warehouse", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID. Retorna (nil, nil) si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
}

// GetByCode obtiene una bodega por su código de negocio.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE code = $1`, code)
}

// List lista bodegas por código con paginación.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrap("list warehouses", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, wrap("scan warehouse", err)
		}
		list = append(list, w)
	}
	return list, wrap("list warehouses", rows.Err())
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, wrap("get warehouse", err)
	}
	return w, nil
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
