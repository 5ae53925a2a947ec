package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

func SerializeToJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[KafkaUtils] Failed to serialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

// DeserializeBatch decodes either a JSON array of T or a single T.
func DeserializeBatch[T any](data []byte) ([]T, error) {
	var batch []T
	if err := json.Unmarshal(data, &batch); err == nil {
		return batch, nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return []T{single}, nil
}

func HandleConsumerError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
