package sentiment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/classifier"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/embedding"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/textproc"
)

var (
	// ErrModelUnavailable means the embeddings or the classifier failed to
	// load at startup.
	ErrModelUnavailable = errors.New("sentiment model unavailable")
	// ErrInvalidRequest means the review text is missing or empty.
	ErrInvalidRequest = errors.New("missing review text")
)

const modelUnavailableMessage = "Backend model or embeddings not loaded."

// Tokenizer splits normalized text into pipeline tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Predictor runs normalize -> tokenize -> embed -> classify -> decide. It
// holds only read-only collaborators and is safe for concurrent use.
type Predictor struct {
	tokenizer  Tokenizer
	aggregator *embedding.Aggregator
	classifier classifier.Classifier
	polarity   classifier.Polarity
	threshold  float64
	loadErr    error
}

type Option func(*Predictor)

func WithThreshold(threshold float64) Option {
	return func(p *Predictor) {
		p.threshold = threshold
	}
}

func WithAggregatorOptions(opts ...embedding.AggregatorOption) Option {
	return func(p *Predictor) {
		p.aggregator = embedding.NewAggregator(p.aggregator.Lookup(), opts...)
	}
}

// NewPredictor wires the pipeline around the loaded models. It fails if
// the classifier does not expose negative and positive classes or if its
// input size differs from the embedding dimension.
func NewPredictor(tokenizer Tokenizer, lookup embedding.Lookup, clf classifier.Classifier, opts ...Option) (*Predictor, error) {
	if tokenizer == nil || lookup == nil || clf == nil {
		return nil, errors.New("tokenizer, embeddings and classifier are required")
	}

	polarity, err := classifier.ResolvePolarity(clf)
	if err != nil {
		return nil, err
	}

	if sized, ok := clf.(interface{ Dimension() int }); ok && sized.Dimension() != lookup.Dimension() {
		return nil, fmt.Errorf("classifier expects %d features but embeddings have %d", sized.Dimension(), lookup.Dimension())
	}

	p := &Predictor{
		tokenizer:  tokenizer,
		aggregator: embedding.NewAggregator(lookup),
		classifier: clf,
		polarity:   polarity,
		threshold:  DefaultThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.threshold < 0 || p.threshold > 1 {
		return nil, fmt.Errorf("threshold %g outside [0, 1]", p.threshold)
	}
	return p, nil
}

// Unavailable returns a predictor that answers every request with
// ErrModelUnavailable.
func Unavailable(reason error) *Predictor {
	if reason == nil {
		reason = ErrModelUnavailable
	}
	return &Predictor{threshold: DefaultThreshold, loadErr: reason}
}

// Ready reports whether the models loaded.
func (p *Predictor) Ready() bool {
	return p.loadErr == nil && p.classifier != nil && p.aggregator != nil
}

// LoadError returns the startup failure, if any.
func (p *Predictor) LoadError() error {
	return p.loadErr
}

func (p *Predictor) Threshold() float64 {
	return p.threshold
}

// Predict classifies one review.
func (p *Predictor) Predict(text string) (PredictionResult, error) {
	if !p.Ready() {
		return ErrorResult(modelUnavailableMessage), fmt.Errorf("%w: %v", ErrModelUnavailable, p.loadErr)
	}
	if text == "" {
		return PredictionResult{}, ErrInvalidRequest
	}

	normalized := textproc.Normalize(text)
	tokens := p.tokenizer.Tokenize(normalized)
	vector := p.aggregator.Embed(tokens)

	probs, err := p.classifier.PredictProba(vector)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("classifier failed: %w", err)
	}
	if len(probs) != 2 {
		return PredictionResult{}, fmt.Errorf("classifier returned %d probabilities, want 2", len(probs))
	}

	result := Decide(probs[p.polarity.Negative], probs[p.polarity.Positive], p.threshold)

	slog.Debug("[Predictor] Review classified",
		slog.Int("tokens", len(tokens)),
		slog.String("sentiment", string(result.Sentiment)),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}
