package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/clients/kafka_client/utils"
)

type transactionalProducer interface {
	BeginTransaction() error
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
	Flush(timeoutMs int) int
	Close()
}

// Producer publishes JSON payloads inside Kafka transactions.
type Producer struct {
	producer transactionalProducer
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      TRANSACTIONAL_ID,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p}, nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishBatch serializes value and produces it to topic as a single
// transactional message.
func (p *Producer) PublishBatch(ctx context.Context, topic, key string, value any) error {
	jsonData, err := utils.SerializeToJSON(value)
	if err != nil {
		return err
	}

	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = p.producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
			return fmt.Errorf("[KafkaClient] failed to abort transaction after produce error: %w", abortErr)
		}
		return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
	}

	var commitErr error
	for i := 0; i < 3; i++ {
		commitErr = p.producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", commitErr.Error()))
	}
	if commitErr != nil {
		if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
			slog.Error("[KafkaClient] Failed to abort transaction", slog.String("error", abortErr.Error()))
		}
		return fmt.Errorf("[KafkaClient] failed to commit transaction after 3 retries: %w", commitErr)
	}

	slog.Info("[KafkaClient] Published batch to Kafka transactionally",
		slog.String("topic", topic),
		slog.String("key", key))
	return nil
}
