package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/models"
)

const (
	SENTIMENT_RESULTS_TABLE_NAME = "SentimentResults"

	maxBatchSize   = 25
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
	resultTTL      = 24 * time.Hour
)

// BatchWriter is the part of *dynamodb.Client the archive needs.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// PredictionArchive writes review predictions to DynamoDB with a TTL.
type PredictionArchive struct {
	client  BatchWriter
	table   string
	backoff time.Duration
	now     func() time.Time
}

func NewPredictionArchive(client BatchWriter, table string) *PredictionArchive {
	if table == "" {
		table = SENTIMENT_RESULTS_TABLE_NAME
	}
	return &PredictionArchive{
		client:  client,
		table:   table,
		backoff: initialBackoff,
		now:     time.Now,
	}
}

// BatchInsertPredictions writes predictions in chunks of 25, retrying
// unprocessed items with exponential backoff. Items still unprocessed
// after the retries are logged and counted, not returned as an error.
func (a *PredictionArchive) BatchInsertPredictions(ctx context.Context, predictions []models.ReviewPrediction) error {
	now := a.now()

	for i := 0; i < len(predictions); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+maxBatchSize, len(predictions))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, p := range predictions[i:end] {
			item, err := PredictionToDynamoDBItem(p, now)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := a.writeChunk(ctx, writeRequests); err != nil {
			metrics.ArchivedResultsTotal.WithLabelValues("error").Add(float64(len(writeRequests)))
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored predictions", slog.Int("count", len(predictions)))
	return nil
}

func (a *PredictionArchive) writeChunk(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			a.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write predictions: %w", err)
	}

	retryCount := 0
	backoff := a.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < maxRetries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed predictions...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[a.table])))

		out, err = a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}
		retryCount++
	}

	remaining := len(out.UnprocessedItems[a.table])
	if remaining > 0 {
		slog.Error("[DynamoDB] Some predictions failed after retries",
			slog.Int("remaining", remaining))
		metrics.ArchivedResultsTotal.WithLabelValues("dropped").Add(float64(remaining))
	}
	metrics.ArchivedResultsTotal.WithLabelValues("ok").Add(float64(len(writeRequests) - remaining))
	return nil
}

// PredictionToDynamoDBItem marshals p and stamps created_at and a 24h ttl.
func PredictionToDynamoDBItem(p models.ReviewPrediction, now time.Time) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMapWithOptions(p, func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal prediction %s: %w", p.ReviewID, err)
	}

	item["created_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)}
	item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(resultTTL).Unix(), 10)}
	return item, nil
}
