package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-simpler.org/env"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/textproc"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"dev"`
	Port      string `env:"PORT" default:"5001"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	EmbeddingsPath      string  `env:"EMBEDDINGS_PATH" default:"models/glove.6B.300d.txt"`
	EmbeddingDim        int     `env:"EMBEDDING_DIM" default:"300"`
	ClassifierPath      string  `env:"CLASSIFIER_PATH" default:"models/glove_embedding_svm_model.json"`
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD" default:"0.4"`
	StopwordsSource     string  `env:"STOPWORDS_SOURCE" default:"nltk"`

	CORSOrigins    string        `env:"CORS_ORIGINS" default:"*"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" default:"10s"`

	CacheEnabled   bool          `env:"CACHE_ENABLED" default:"false"`
	ValkeyAddress  string        `env:"VALKEY_INIT_ADDRESS" default:"localhost:6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool          `env:"VALKEY_TLS" default:"false"`
	CacheTTL       time.Duration `env:"CACHE_TTL" default:"24h"`

	ArchiveEnabled bool   `env:"ARCHIVE_ENABLED" default:"false"`
	AWSEndpoint    string `env:"AWS_ENDPOINT"`
	AWSRegion      string `env:"AWS_REGION" default:"us-west-2"`
	ArchiveTable   string `env:"ARCHIVE_TABLE" default:"SentimentResults"`

	KafkaBroker       string `env:"KAFKA_BROKER" default:"localhost:29092"`
	KafkaGroupID      string `env:"KAFKA_CONSUMER_GROUP_ID" default:"cinemood-consumer-group"`
	KafkaRequestTopic string `env:"KAFKA_REQUEST_TOPIC" default:"review-requests"`
	KafkaResultTopic  string `env:"KAFKA_RESULT_TOPIC" default:"review-predictions"`
}

// Load reads the configuration from the environment. Call LoadEnv first
// to pick up .env files.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func validate(cfg *Config) error {
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0, 1], got %g", cfg.ConfidenceThreshold)
	}
	if cfg.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", cfg.EmbeddingDim)
	}
	if _, err := textproc.NewStopwordSet(cfg.StopwordsSource); err != nil {
		return fmt.Errorf("STOPWORDS_SOURCE: %w", err)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.CacheEnabled && cfg.ValkeyAddress == "" {
		return errors.New("VALKEY_INIT_ADDRESS is required when CACHE_ENABLED is set")
	}
	if cfg.CacheEnabled && cfg.CacheTTL < time.Second {
		return errors.New("CACHE_TTL must be at least 1s")
	}
	if cfg.ArchiveEnabled && cfg.ArchiveTable == "" {
		return errors.New("ARCHIVE_TABLE is required when ARCHIVE_ENABLED is set")
	}
	return nil
}
