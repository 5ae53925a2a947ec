package sentiment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/classifier"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/embedding"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/textproc"
)

type ModelConfig struct {
	EmbeddingsPath  string
	EmbeddingDim    int
	ClassifierPath  string
	StopwordsSource string
	Threshold       float64
}

// LoadPredictor reads the embedding table and classifier artifact and
// wires them into a Predictor.
func LoadPredictor(cfg ModelConfig) (*Predictor, error) {
	start := time.Now()

	stopwords, err := textproc.NewStopwordSet(cfg.StopwordsSource)
	if err != nil {
		return nil, err
	}
	lemmatizer, err := textproc.NewEnglishLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer: %w", err)
	}

	table, err := embedding.LoadTable(cfg.EmbeddingsPath, cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	model, err := classifier.Load(cfg.ClassifierPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}

	p, err := NewPredictor(textproc.NewTokenizer(stopwords, lemmatizer), table, model, WithThreshold(cfg.Threshold))
	if err != nil {
		return nil, err
	}

	slog.Info("[Predictor] Models loaded",
		slog.Int("vocabulary", table.Len()),
		slog.Any("classes", model.Classes()),
		slog.Duration("elapsed", time.Since(start)))
	return p, nil
}
