package clients

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

const VALKEY_PREDICTION_PREFIX = "cinemood:prediction:"

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// ValkeyClient caches prediction results keyed by a hash of the review
// text.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(ctx context.Context, opts ValkeyOptions) (*ValkeyClient, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address),
		slog.Duration("ttl", opts.TTL))

	return &ValkeyClient{Client: client, ttl: opts.TTL}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// PredictionKey derives the cache key for a review.
func PredictionKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return VALKEY_PREDICTION_PREFIX + hex.EncodeToString(sum[:])
}

// GetPrediction returns a cached result. Misses and errors both report
// false; errors are logged.
func (vc *ValkeyClient) GetPrediction(ctx context.Context, text string) (sentiment.PredictionResult, bool) {
	var result sentiment.PredictionResult

	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(PredictionKey(text)).Build(), 2)
	raw, err := res.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			metrics.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
			return result, false
		}
		metrics.CacheOpsTotal.WithLabelValues("get", "error").Inc()
		slog.WarnContext(ctx, "[ValkeyClient] Cache read failed",
			slog.String("error", err.Error()))
		return result, false
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		metrics.CacheOpsTotal.WithLabelValues("get", "error").Inc()
		slog.WarnContext(ctx, "[ValkeyClient] Discarding undecodable cache entry",
			slog.String("error", err.Error()))
		return sentiment.PredictionResult{}, false
	}

	metrics.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return result, true
}

// StorePrediction caches result for the configured TTL. Error results are
// never cached.
func (vc *ValkeyClient) StorePrediction(ctx context.Context, text string, result sentiment.PredictionResult) {
	if result.Sentiment == sentiment.Error {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		metrics.CacheOpsTotal.WithLabelValues("set", "error").Inc()
		return
	}

	cmd := vc.Client.B().Set().Key(PredictionKey(text)).Value(string(payload)).Ex(vc.ttl).Build()
	if err := vc.DoWithRetry(ctx, cmd, 2).Error(); err != nil {
		metrics.CacheOpsTotal.WithLabelValues("set", "error").Inc()
		slog.WarnContext(ctx, "[ValkeyClient] Cache write failed",
			slog.String("error", err.Error()))
		return
	}
	metrics.CacheOpsTotal.WithLabelValues("set", "ok").Inc()
}

// Ping checks connectivity for readiness probes.
func (vc *ValkeyClient) Ping(ctx context.Context) error {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return result
		case <-time.After(100 * time.Millisecond):
		}
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
