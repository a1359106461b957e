package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// ErrNoMessage reports that a poll interval elapsed without a message.
// Callers use it to run periodic work, like time-based batch flushes,
// between deliveries.
var ErrNoMessage = errors.New("[KafkaIterator] no message within poll interval")

// KafkaMessageIterator reads one message at a time with a bounded poll
// so the owning loop regains control during idle stretches and on
// shutdown.
type KafkaMessageIterator struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewKafkaMessageIterator(ctx context.Context, consumer *kafka.Consumer) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Next returns the next message, ErrNoMessage on an idle poll, or the
// read error once the retry budget is spent.
func (it *KafkaMessageIterator) Next() (*kafka.Message, error) {
	if it.consumer == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if err := it.ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := it.consumer.ReadMessage(POLL_INTERVAL)
		if err == nil {
			return msg, nil
		}

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) {
			switch kafkaErr.Code() {
			case kafka.ErrTimedOut:
				// idle poll, hand control back to the caller
				return nil, ErrNoMessage
			case kafka.ErrAllBrokersDown:
				slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
				return nil, err
			}
		}

		slog.Warn("[KafkaIterator] Failed to read message, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", MAX_RETRIES),
			slog.String("error", err.Error()))

		select {
		case <-it.ctx.Done():
			return nil, it.ctx.Err()
		case <-time.After(RETRY_DELAY):
		}
	}

	return nil, errors.New("[KafkaIterator] Failed to read message after retries")
}
