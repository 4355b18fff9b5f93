// Package notify delivers customer-facing order notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the fanout exchange consumed by the messaging workers
// (WhatsApp, SMS, push).
const Exchange = "customer_notifications"

// Notification is one message addressed to the customer of an order.
type Notification struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Phone       string    `json:"phone,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// Notifier sends customer notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Connection is the subset of an AMQP connection the publisher needs.
type Connection interface {
	Channel() (Channel, error)
	Close() error
}

// Channel is the subset of an AMQP channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes notifications to RabbitMQ.
type Publisher struct {
	conn    Connection
	timeout time.Duration

	mu       sync.Mutex
	declared bool
}

// NewPublisher creates a Publisher. Each publish is bounded by timeout.
func NewPublisher(conn Connection, timeout time.Duration) *Publisher {
	return &Publisher{conn: conn, timeout: timeout}
}

func (p *Publisher) Notify(ctx context.Context, n Notification) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := p.declareExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, Exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Timestamp:    n.SentAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// declareExchange declares the exchange until one attempt succeeds.
func (p *Publisher) declareExchange(ch Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.declared {
		return nil
	}
	if err := ch.ExchangeDeclare(Exchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	p.declared = true
	return nil
}

// LogNotifier writes notifications to the log. Used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("notify: order %s %s: %s", n.OrderNumber, n.Title, n.Message)
	return nil
}

type amqpConnection struct {
	conn *amqp.Connection
}

type amqpChannel struct {
	*amqp.Channel
}

// Dial connects to the broker at url.
func Dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return &amqpConnection{conn: conn}, nil
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return amqpChannel{ch}, nil
}

func (c *amqpConnection) Close() error {
	if c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
