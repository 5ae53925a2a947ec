package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/clients/kafka_client/utils"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/models"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
	batching "github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/utils"
)

const (
	publishAttempts = 3
	shutdownTimeout = 10 * time.Second
)

type reviewPredictor interface {
	Predict(text string) (sentiment.PredictionResult, error)
}

type messageSource interface {
	Next(ctx context.Context) (*kafka.Message, error)
}

type messageCommitter interface {
	Commit(ctx context.Context, msg *kafka.Message) error
}

type batchPublisher interface {
	PublishBatch(ctx context.Context, topic, key string, value any) error
}

type predictionArchive interface {
	BatchInsertPredictions(ctx context.Context, predictions []models.ReviewPrediction) error
}

// ReviewConsumer reads review messages, classifies every review, publishes
// the predictions in batches and commits the source offsets once a batch
// is out.
type ReviewConsumer struct {
	predictor   reviewPredictor
	source      messageSource
	committer   messageCommitter
	publisher   batchPublisher
	archive     predictionArchive
	resultTopic string

	predictions  *batching.BatchBuffer[models.ReviewPrediction]
	pending      *batching.BatchBuffer[*kafka.Message]
	flushEvery   time.Duration
	publishDelay time.Duration
	now          func() time.Time
}

type ConsumerOption func(*ReviewConsumer)

// WithArchive also writes every published batch to archive.
func WithArchive(archive predictionArchive) ConsumerOption {
	return func(rc *ReviewConsumer) {
		rc.archive = archive
	}
}

func WithBatchSize(size int) ConsumerOption {
	return func(rc *ReviewConsumer) {
		rc.predictions = batching.NewBatchBuffer[models.ReviewPrediction](size)
	}
}

func WithFlushInterval(d time.Duration) ConsumerOption {
	return func(rc *ReviewConsumer) {
		rc.flushEvery = d
	}
}

func NewReviewConsumer(predictor reviewPredictor, source messageSource, committer messageCommitter, publisher batchPublisher, resultTopic string, opts ...ConsumerOption) *ReviewConsumer {
	rc := &ReviewConsumer{
		predictor:    predictor,
		source:       source,
		committer:    committer,
		publisher:    publisher,
		resultTopic:  resultTopic,
		predictions:  batching.NewBatchBuffer[models.ReviewPrediction](batching.BATCH_SIZE),
		pending:      batching.NewBatchBuffer[*kafka.Message](batching.BATCH_SIZE),
		flushEvery:   batching.BATCH_TIMEOUT,
		publishDelay: 2 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Run consumes until ctx is canceled, then flushes what is buffered.
func (rc *ReviewConsumer) Run(ctx context.Context) {
	slog.Info("[ReviewConsumer] Listening for messages...")

	ticker := time.NewTicker(rc.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ReviewConsumer] Stopping consumer...")
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			rc.flush(flushCtx)
			cancel()
			return
		case <-ticker.C:
			rc.flush(ctx)
		default:
			msg, err := rc.source.Next(ctx)
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				continue
			}

			rc.handleMessage(ctx, msg)
			if rc.predictions.Full() {
				rc.flush(ctx)
			}
		}
	}
}

func (rc *ReviewConsumer) handleMessage(ctx context.Context, msg *kafka.Message) {
	rc.pending.Add(msg)

	reviews, err := utils.DeserializeBatch[models.ReviewMessage](msg.Value)
	if err != nil {
		metrics.StreamMessagesTotal.WithLabelValues("undecodable").Inc()
		return
	}

	for _, review := range reviews {
		if review.ReviewID == "" {
			review.ReviewID = uuid.NewString()
		}

		result, err := rc.predictor.Predict(review.ReviewText)
		switch {
		case errors.Is(err, sentiment.ErrInvalidRequest):
			metrics.StreamMessagesTotal.WithLabelValues("invalid").Inc()
			slog.WarnContext(ctx, "[ReviewConsumer] Skipping review without text",
				slog.String("review_id", review.ReviewID))
			continue
		case err != nil:
			metrics.StreamMessagesTotal.WithLabelValues("failed").Inc()
			slog.ErrorContext(ctx, "[ReviewConsumer] Prediction failed",
				slog.String("review_id", review.ReviewID),
				slog.String("error", err.Error()))
			if result.Sentiment != sentiment.Error {
				result = sentiment.ErrorResult(err.Error())
			}
		default:
			metrics.StreamMessagesTotal.WithLabelValues("predicted").Inc()
		}

		rc.predictions.Add(models.NewReviewPrediction(review, result, rc.now()))
	}
}

// flush publishes buffered predictions, archives them and commits every
// message read since the last flush. When publishing fails the batch and
// its messages are requeued so no later commit can move the group offset
// past them.
func (rc *ReviewConsumer) flush(ctx context.Context) {
	batch := rc.predictions.GetAndClear()
	messages := rc.pending.GetAndClear()
	if len(messages) == 0 {
		return
	}

	if len(batch) > 0 {
		if err := rc.publish(ctx, batch); err != nil {
			slog.Error("[ReviewConsumer] Batch publishing failed, retrying on next flush",
				slog.Int("batch_size", len(batch)),
				slog.String("error", err.Error()))
			rc.predictions.Requeue(batch)
			rc.pending.Requeue(messages)
			return
		}

		if rc.archive != nil {
			if err := rc.archive.BatchInsertPredictions(ctx, batch); err != nil {
				slog.Error("[ReviewConsumer] Failed to archive predictions",
					slog.String("error", err.Error()))
			}
		}
	}

	for _, msg := range messages {
		if err := rc.committer.Commit(ctx, msg); err != nil {
			slog.Warn("[ReviewConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func (rc *ReviewConsumer) publish(ctx context.Context, batch []models.ReviewPrediction) error {
	key := uuid.NewString()

	var err error
	for i := 0; i < publishAttempts; i++ {
		if err = rc.publisher.PublishBatch(ctx, rc.resultTopic, key, batch); err == nil {
			slog.Info("[ReviewConsumer] Published prediction batch",
				slog.String("batch_id", key),
				slog.Int("batch_size", len(batch)))
			return nil
		}
		slog.Warn("[ReviewConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rc.publishDelay):
		}
	}
	return err
}
