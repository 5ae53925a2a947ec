package consumers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/models"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

// sliceSource hands out its messages, then cancels the run.
type sliceSource struct {
	messages []*kafka.Message
	cancel   context.CancelFunc
}

func (s *sliceSource) Next(context.Context) (*kafka.Message, error) {
	if len(s.messages) == 0 {
		s.cancel()
		return nil, nil
	}
	msg := s.messages[0]
	s.messages = s.messages[1:]
	return msg, nil
}

type recordingCommitter struct {
	committed []*kafka.Message
}

func (r *recordingCommitter) Commit(_ context.Context, msg *kafka.Message) error {
	r.committed = append(r.committed, msg)
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]models.ReviewPrediction
	err     error
	// failures makes the first n calls fail with err.
	failures int
	calls    int
}

func (r *recordingPublisher) PublishBatch(_ context.Context, topic, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil && (r.failures == 0 || r.calls <= r.failures) {
		return r.err
	}
	r.batches = append(r.batches, value.([]models.ReviewPrediction))
	return nil
}

type recordingArchive struct {
	archived []models.ReviewPrediction
	err      error
}

func (r *recordingArchive) BatchInsertPredictions(_ context.Context, p []models.ReviewPrediction) error {
	r.archived = append(r.archived, p...)
	return r.err
}

// labelPredictor maps review text straight to a label.
type labelPredictor struct{}

func (labelPredictor) Predict(text string) (sentiment.PredictionResult, error) {
	switch text {
	case "":
		return sentiment.PredictionResult{}, sentiment.ErrInvalidRequest
	case "boom":
		return sentiment.PredictionResult{}, errors.New("classifier failed")
	case "loved it":
		return sentiment.Decide(0.1, 0.9, sentiment.DefaultThreshold), nil
	default:
		return sentiment.Decide(0.9, 0.1, sentiment.DefaultThreshold), nil
	}
}

func message(value string) *kafka.Message {
	return &kafka.Message{Value: []byte(value)}
}

type harness struct {
	consumer  *ReviewConsumer
	committer *recordingCommitter
	publisher *recordingPublisher
	archive   *recordingArchive
}

func run(t *testing.T, messages []*kafka.Message, publisher *recordingPublisher, opts ...ConsumerOption) harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := harness{
		committer: &recordingCommitter{},
		publisher: publisher,
		archive:   &recordingArchive{},
	}
	source := &sliceSource{messages: messages, cancel: cancel}

	opts = append([]ConsumerOption{WithArchive(h.archive), WithFlushInterval(time.Hour)}, opts...)
	h.consumer = NewReviewConsumer(labelPredictor{}, source, h.committer, h.publisher, "review-predictions", opts...)
	h.consumer.publishDelay = time.Millisecond
	h.consumer.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	done := make(chan struct{})
	go func() {
		h.consumer.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
	return h
}

func TestReviewConsumer_PublishesArchivesAndCommits(t *testing.T) {
	batchMsg := message(`[{"review_id":"a","review_text":"loved it"},{"review_id":"b","review_text":"hated it"}]`)
	singleMsg := message(`{"review_id":"c","review_text":"loved it","source":"imdb"}`)

	h := run(t, []*kafka.Message{batchMsg, singleMsg}, &recordingPublisher{})

	require.Len(t, h.publisher.batches, 1)
	batch := h.publisher.batches[0]
	require.Len(t, batch, 3)
	assert.Equal(t, "a", batch[0].ReviewID)
	assert.Equal(t, sentiment.Positive, batch[0].Sentiment)
	assert.Equal(t, sentiment.Negative, batch[1].Sentiment)
	assert.Equal(t, "imdb", batch[2].Source)

	assert.Len(t, h.archive.archived, 3)
	assert.Equal(t, []*kafka.Message{batchMsg, singleMsg}, h.committer.committed)
}

func TestReviewConsumer_FlushesWhenBatchFull(t *testing.T) {
	msgs := []*kafka.Message{
		message(`{"review_id":"a","review_text":"loved it"}`),
		message(`{"review_id":"b","review_text":"loved it"}`),
		message(`{"review_id":"c","review_text":"loved it"}`),
	}

	h := run(t, msgs, &recordingPublisher{}, WithBatchSize(2))

	require.Len(t, h.publisher.batches, 2)
	assert.Len(t, h.publisher.batches[0], 2)
	assert.Len(t, h.publisher.batches[1], 1)
	assert.Len(t, h.committer.committed, 3)
}

func TestReviewConsumer_SkipsInvalidAndMarksFailures(t *testing.T) {
	msgs := []*kafka.Message{
		message(`not json`),
		message(`[{"review_id":"empty","review_text":""},{"review_text":"boom"}]`),
	}

	h := run(t, msgs, &recordingPublisher{})

	require.Len(t, h.publisher.batches, 1)
	batch := h.publisher.batches[0]
	require.Len(t, batch, 1)
	assert.NotEmpty(t, batch[0].ReviewID)
	assert.Equal(t, sentiment.Error, batch[0].Sentiment)
	assert.NotEmpty(t, batch[0].ErrorMessage)

	// Both messages are committed, including the undecodable one.
	assert.Len(t, h.committer.committed, 2)
}

func TestReviewConsumer_PublishFailureLeavesOffsets(t *testing.T) {
	msgs := []*kafka.Message{message(`{"review_id":"a","review_text":"loved it"}`)}

	h := run(t, msgs, &recordingPublisher{err: errors.New("broker unavailable")})

	assert.Equal(t, publishAttempts, h.publisher.calls)
	assert.Empty(t, h.archive.archived)
	assert.Empty(t, h.committer.committed)
}

func TestReviewConsumer_RetriesFailedBatchBeforeLaterOffsets(t *testing.T) {
	topic := "review-requests"
	at := func(offset kafka.Offset, value string) *kafka.Message {
		msg := message(value)
		msg.TopicPartition = kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: offset}
		return msg
	}
	first := at(10, `{"review_id":"a","review_text":"loved it"}`)
	second := at(11, `{"review_id":"b","review_text":"hated it"}`)

	publisher := &recordingPublisher{err: errors.New("broker unavailable"), failures: publishAttempts}
	h := run(t, []*kafka.Message{first, second}, publisher, WithBatchSize(1))

	require.Len(t, h.publisher.batches, 1)
	var ids []string
	for _, p := range h.publisher.batches[0] {
		ids = append(ids, p.ReviewID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, []*kafka.Message{first, second}, h.committer.committed)
	assert.Len(t, h.archive.archived, 2)
}

func TestReviewConsumer_ArchiveFailureStillCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	committer := &recordingCommitter{}
	archive := &recordingArchive{err: errors.New("throttled")}
	msg := message(`{"review_id":"a","review_text":"loved it"}`)
	source := &sliceSource{messages: []*kafka.Message{msg}, cancel: cancel}

	rc := NewReviewConsumer(labelPredictor{}, source, committer, &recordingPublisher{}, "review-predictions",
		WithArchive(archive), WithFlushInterval(time.Hour))
	rc.Run(ctx)

	assert.Len(t, archive.archived, 1)
	assert.Equal(t, []*kafka.Message{msg}, committer.committed)
}
