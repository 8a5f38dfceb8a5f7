package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

// MessageWriter subconjunto de *kafka.Writer usado por el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StockEventMessage payload JSON publicado por cada cambio de stock.
type StockEventMessage struct {
	EventID       string    `json:"event_id"`
	StockItemID   string    `json:"stock_item_id"`
	WarehouseID   string    `json:"warehouse_id"`
	ProductID     string    `json:"product_id"`
	GroupID       string    `json:"group_id"`
	Reason        string    `json:"reason"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantity_after"`
	StatusAfter   string    `json:"status_after"`
	ShipmentID    *string   `json:"shipment_id,omitempty"`
	InitiatorID   int64     `json:"initiator_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// KafkaPublisher publica eventos de stock en un topic, con clave stock_item_id
// para conservar el orden por ítem dentro de la partición.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter crea el writer de kafka-go para el topic de eventos de stock.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish envía los eventos en un único lote. Si falla, ningún evento debe
// considerarse publicado.
func (p *KafkaPublisher) Publish(ctx context.Context, events []*entity.StockChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(toMessage(ev))
		if err != nil {
			return fmt.Errorf("serializar evento %s: %w", ev.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.StockItemID),
			Value: payload,
			Time:  ev.OccurredAt,
			Headers: []kafka.Header{
				{Key: "reason", Value: []byte(ev.Reason)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publicar %d eventos en kafka: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(ev *entity.StockChangeEvent) StockEventMessage {
	return StockEventMessage{
		EventID:       ev.ID,
		StockItemID:   ev.StockItemID,
		WarehouseID:   ev.WarehouseID,
		ProductID:     ev.ProductID,
		GroupID:       ev.GroupID,
		Reason:        ev.Reason,
		Delta:         ev.Delta,
		QuantityAfter: ev.QuantityAfter,
		StatusAfter:   ev.StatusAfter,
		ShipmentID:    ev.ShipmentID,
		InitiatorID:   ev.InitiatorID,
		OccurredAt:    ev.OccurredAt.UTC(),
	}
}
