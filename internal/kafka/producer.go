package kafka

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokersSTR, topic string) *Producer {
	brokers := strings.Split(brokersSTR, ",")

	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (p *Producer) Close() error {
	return p.w.Close()
}

// PublishOrderPlaced emits the bare order number to the order-placed topic.
// Downstream listeners only need the number; the durable order row is the
// source of truth.
func (p *Producer) PublishOrderPlaced(ctx context.Context, orderNumber string) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderNumber),
		Value: []byte(orderNumber),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("text/plain")},
		},
	})
}
