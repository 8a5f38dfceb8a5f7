package repository

import (
	"context"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// StockEventRepository outbox de eventos de cambio de stock.
// Append se ejecuta en la misma transacción que la mutación del ledger.
type StockEventRepository interface {
	Append(ctx context.Context, events ...*entity.StockChangeEvent) error
	// ListPending devuelve eventos no publicados en orden de ocurrencia, bloqueándolos
	// para que otro relay no los tome (FOR UPDATE SKIP LOCKED).
	ListPending(ctx context.Context, limit int) ([]*entity.StockChangeEvent, error)
	MarkPublished(ctx context.Context, ids []string) error
}
