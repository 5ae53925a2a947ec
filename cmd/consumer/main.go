package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/config"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/clients"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/clients/kafka_client"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/consumers"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/db"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/logging"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictor, err := sentiment.LoadPredictor(sentiment.ModelConfig{
		EmbeddingsPath:  cfg.EmbeddingsPath,
		EmbeddingDim:    cfg.EmbeddingDim,
		ClassifierPath:  cfg.ClassifierPath,
		StopwordsSource: cfg.StopwordsSource,
		Threshold:       cfg.ConfidenceThreshold,
	})
	if err != nil {
		slog.Error("[Main] CRITICAL: models failed to load, refusing to consume",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	metrics.ModelsReady.Set(1)

	kafkaCfg := kafka_client.NewKafkaConfig(cfg)

	var producer *kafka_client.Producer
	for {
		producer, err = kafka_client.NewProducer(kafkaCfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	consumer, err := kafka_client.NewConsumer(kafkaCfg)
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		return
	}
	defer consumer.Close()

	var opts []consumers.ConsumerOption
	if cfg.ArchiveEnabled {
		awsCfg, err := clients.NewAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			slog.Error("[Main] Failed to configure archive", slog.String("error", err.Error()))
			return
		}
		archive := db.NewPredictionArchive(clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint), cfg.ArchiveTable)
		opts = append(opts, consumers.WithArchive(archive))
	}

	rc := consumers.NewReviewConsumer(
		predictor,
		kafka_client.NewKafkaMessageIterator(consumer),
		kafka_client.NewCommitHandler(consumer),
		producer,
		kafkaCfg.ResultTopic,
		opts...,
	)
	rc.Run(ctx)
	slog.Info("[Main] Consumer stopped")
}
