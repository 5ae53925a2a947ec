package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

type KafkaMessageIterator struct {
	reader     messageReader
	retryDelay time.Duration
}

func NewKafkaMessageIterator(reader messageReader) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		reader:     reader,
		retryDelay: RETRY_DELAY,
	}
}

// Next polls for one message. It returns a nil message and nil error when
// the poll timed out so callers can do periodic work between messages.
func (it *KafkaMessageIterator) Next(ctx context.Context) (*kafka.Message, error) {
	if it.reader == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	for i := 0; i < MAX_RETRIES; i++ {
		select {
		case <-ctx.Done():
			slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
			return nil, ctx.Err()
		default:
		}

		msg, err := it.reader.ReadMessage(POLL_TIMEOUT)
		if err == nil {
			return msg, nil
		}

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) {
			switch kafkaErr.Code() {
			case kafka.ErrTimedOut:
				return nil, nil
			case kafka.ErrAllBrokersDown:
				slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
				return nil, err
			}
		}

		slog.Warn("[KafkaIterator] Failed to read message, retrying...",
			slog.Int("attempt", i+1),
			slog.Int("max_retries", MAX_RETRIES),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(it.retryDelay):
		}
	}
	return nil, errors.New("[KafkaIterator] Failed to read message after retries")
}
