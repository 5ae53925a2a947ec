package clients

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

func TestPredictionKey(t *testing.T) {
	key := PredictionKey("A great film!")

	assert.True(t, strings.HasPrefix(key, VALKEY_PREDICTION_PREFIX))
	assert.Len(t, strings.TrimPrefix(key, VALKEY_PREDICTION_PREFIX), 64)
	assert.Equal(t, key, PredictionKey("A great film!"))
	assert.NotEqual(t, key, PredictionKey("a great film!"))
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE Operation against a key")))
}

func newMockedValkey(t *testing.T) (*ValkeyClient, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return &ValkeyClient{Client: client, ttl: time.Hour}, client
}

func TestGetPrediction(t *testing.T) {
	ctx := context.Background()
	want := sentiment.Decide(0.1, 0.9, sentiment.DefaultThreshold)
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("hit", func(t *testing.T) {
		vc, client := newMockedValkey(t)
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", PredictionKey("great"))).
			Return(mock.Result(mock.ValkeyString(string(payload))))

		got, ok := vc.GetPrediction(ctx, "great")
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("miss", func(t *testing.T) {
		vc, client := newMockedValkey(t)
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", PredictionKey("great"))).
			Return(mock.Result(mock.ValkeyNil()))

		_, ok := vc.GetPrediction(ctx, "great")
		assert.False(t, ok)
	})

	t.Run("undecodable entry is a miss", func(t *testing.T) {
		vc, client := newMockedValkey(t)
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", PredictionKey("great"))).
			Return(mock.Result(mock.ValkeyString("{not json")))

		got, ok := vc.GetPrediction(ctx, "great")
		assert.False(t, ok)
		assert.Equal(t, sentiment.PredictionResult{}, got)
	})

	t.Run("connection errors are retried", func(t *testing.T) {
		vc, client := newMockedValkey(t)
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", PredictionKey("great"))).
			Return(mock.ErrorResult(errors.New("dial tcp: connect: connection refused"))).
			Times(2)

		_, ok := vc.GetPrediction(ctx, "great")
		assert.False(t, ok)
	})
}

func TestStorePrediction(t *testing.T) {
	ctx := context.Background()

	t.Run("stores with ttl", func(t *testing.T) {
		vc, client := newMockedValkey(t)
		result := sentiment.Decide(0.9, 0.1, sentiment.DefaultThreshold)
		payload, err := json.Marshal(result)
		require.NoError(t, err)

		client.EXPECT().
			Do(gomock.Any(), mock.Match("SET", PredictionKey("awful"), string(payload), "EX", "3600")).
			Return(mock.Result(mock.ValkeyString("OK"))).
			Times(1)

		vc.StorePrediction(ctx, "awful", result)
	})

	t.Run("error results are never cached", func(t *testing.T) {
		vc, _ := newMockedValkey(t)
		// Any Do call fails the test: no expectation is registered.
		vc.StorePrediction(ctx, "awful", sentiment.ErrorResult("classifier failed"))
	})
}
