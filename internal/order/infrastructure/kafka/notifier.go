package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/storeops/storefront/pkg/tracing"
)

// Notifier publishes an OrderConfirmed message for downstream consumers
// (confirmation emails and the like). Delivery is best-effort: callers are
// expected to discard any error it returns.
type Notifier struct {
	log    *slog.Logger
	writer *kafka.Writer
	topic  string
}

func NewNotifier(log *slog.Logger, brokers []string, topic string) *Notifier {
	return &Notifier{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		topic: topic,
	}
}

type orderConfirmed struct {
	OrderID int64 `json:"order_id"`
}

func (n *Notifier) NotifyConfirmed(ctx context.Context, orderID int64) error {
	payload, err := json.Marshal(orderConfirmed{OrderID: orderID})
	if err != nil {
		return err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte("OrderConfirmed")},
		{Key: "event_id", Value: []byte(uuid.NewString())},
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   n.topic,
		Key:     []byte(strconv.FormatInt(orderID, 10)),
		Value:   payload,
		Headers: headers,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	n.log.Info("order confirmation published", "order_id", orderID, "topic", n.topic)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
