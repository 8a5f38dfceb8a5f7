package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + SELECT FOR UPDATE).
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 limita la espera por bloqueos de fila;
// al vencer, la operación falla con domain.ErrConflict.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros; el valor es un entero propio, no entrada de usuario.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return wrap("set lock_timeout", err)
		}
	}

	if err := fn(Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// Repos construye los repositorios sobre q (pool para lecturas directas, tx dentro de Run).
func Repos(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		StockItems: NewStockItemRepository(q),
		Shipments:  NewShipmentRepository(q),
		Events:     NewStockEventRepository(q),
		Warehouses: NewWarehouseRepository(q),
		Catalog:    NewCatalogRepository(q),
	}
}
