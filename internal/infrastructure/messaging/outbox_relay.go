package messaging

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/rs/zerolog"
)

// EventPublisher destino de los eventos del outbox.
type EventPublisher interface {
	Publish(ctx context.Context, events []*entity.StockChangeEvent) error
}

// OutboxRelay toma eventos pendientes del outbox y los publica. Cada lote se
// procesa en una transacción: si la publicación falla se hace rollback y los
// eventos quedan pendientes para el siguiente ciclo.
type OutboxRelay struct {
	txRunner  inventory.TxRunner
	publisher EventPublisher
	interval  time.Duration
	batchSize int
	log       zerolog.Logger
}

func NewOutboxRelay(txRunner inventory.TxRunner, publisher EventPublisher, interval time.Duration, batchSize int, log zerolog.Logger) *OutboxRelay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		txRunner:  txRunner,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		log:       log.With().Str("component", "outbox_relay").Logger(),
	}
}

// Start ejecuta el relay hasta que ctx se cancele.
func (r *OutboxRelay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.log.Info().Dur("interval", r.interval).Int("batch_size", r.batchSize).Msg("outbox relay iniciado")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("outbox relay detenido")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.log.Error().Err(err).Msg("error publicando eventos de stock")
			}
		}
	}
}

// Flush publica un lote de eventos pendientes y devuelve cuántos se marcaron.
func (r *OutboxRelay) Flush(ctx context.Context) (int, error) {
	published := 0
	err := r.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		events, err := repos.Events.ListPending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		if err := r.publisher.Publish(ctx, events); err != nil {
			return err
		}
		ids := make([]string, 0, len(events))
		for _, ev := range events {
			ids = append(ids, ev.ID)
		}
		if err := repos.Events.MarkPublished(ctx, ids); err != nil {
			return err
		}
		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.log.Debug().Int("count", published).Msg("eventos de stock publicados")
	}
	return published, nil
}
