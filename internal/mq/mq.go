// Package mq publishes order events to RabbitMQ.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyOrderPlaced is used for every checkout.
const RoutingKeyOrderPlaced = "order.placed"

// OrderPlaced is the wire message for a checkout.
type OrderPlaced struct {
	OrderID   string            `json:"order_id"`
	UserID    string            `json:"user_id"`
	Total     string            `json:"total"`
	Status    model.OrderStatus `json:"status"`
	ItemCount int               `json:"item_count"`
	Items     []OrderPlacedItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

type OrderPlacedItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// NewOrderPlaced converts an order to its wire form.
func NewOrderPlaced(o model.Order) OrderPlaced {
	msg := OrderPlaced{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total.StringFixed(2),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Items:     make([]OrderPlacedItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		msg.ItemCount += it.Quantity
		msg.Items = append(msg.Items, OrderPlacedItem{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}
	return msg
}

// Publisher owns one connection and channel.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects and declares the topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishOrderPlaced sends a persistent JSON message for o.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o model.Order) error {
	body, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     o.ID,
		CorrelationId: o.ID,
		Timestamp:     time.Now().UTC(),
		Headers: amqp.Table{
			"x-source": "storefront-simulator",
		},
	})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
