// Package events publishes sale notifications to NATS so downstream
// consumers (reporting, stock sync) see orders as they close.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// SaleEvent is the wire shape of an order.created message.
type SaleEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	Total      string    `json:"total"`
	ItemCount  int32     `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events. Implementations must not block checkout;
// callers treat publish failures as non-fatal.
type Publisher interface {
	PublishSale(ctx context.Context, order *domain.Order) error
}

// NatsPublisher publishes events over a NATS connection.
type NatsPublisher struct {
	conn    *nats.Conn
	subject string
}

func Connect(url, subject string) (*NatsPublisher, error) {
	const op = "events.connect"

	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, domain.Unavailable(err, op, "failed to connect to nats")
	}

	return &NatsPublisher{conn: conn, subject: subject}, nil
}

func (p *NatsPublisher) PublishSale(ctx context.Context, order *domain.Order) error {
	const op = "events.publish_sale"

	payload, err := json.Marshal(SaleEvent{
		OrderID:    order.ID,
		Total:      order.Total.StringFixed(2),
		ItemCount:  order.ItemCount(),
		OccurredAt: order.CreatedAt,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to encode sale event")
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return domain.Unavailable(err, op, "failed to publish sale event")
	}
	return nil
}

func (p *NatsPublisher) Close() {
	p.conn.Drain()
}

// NopPublisher discards events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishSale(context.Context, *domain.Order) error { return nil }
