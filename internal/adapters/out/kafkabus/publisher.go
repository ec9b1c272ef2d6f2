// Package kafkabus publishes order-changed events to a Kafka topic so other
// systems (POS display, analytics) can follow the order lifecycle. The bus is
// optional: with no brokers configured the publisher is disabled and every
// publish is a no-op.
package kafkabus

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"clickboucher/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Publisher implements ports.EventPublisher on a kafka-go writer. Messages
// are keyed by order ID so one order's transitions stay on one partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers (comma-separated)
// and topic. An empty broker list yields a disabled publisher.
func NewPublisher(brokersCSV, topic string) *Publisher {
	brokers := make([]string, 0)
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &Publisher{}
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Enabled reports whether a broker is configured.
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// orderChangedMessage is the wire form of an order transition.
type orderChangedMessage struct {
	OrderID string    `json:"order_id"`
	ShopID  string    `json:"shop_id"`
	Number  int64     `json:"number"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// Publish writes the event to the topic. Disabled publishers accept and drop
// everything.
func (p *Publisher) Publish(ctx context.Context, event ports.OrderChangedEvent) error {
	if p.writer == nil {
		return nil
	}

	data, err := json.Marshal(orderChangedMessage{
		OrderID: event.OrderID.String(),
		ShopID:  event.ShopID.String(),
		Number:  event.Number,
		Status:  event.Status.String(),
		At:      event.At,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Time:  event.At,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
