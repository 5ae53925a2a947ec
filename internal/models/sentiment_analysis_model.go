package models

import (
	"time"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

// ReviewMessage is one review on the request stream.
type ReviewMessage struct {
	ReviewID    string    `json:"review_id"`
	ReviewText  string    `json:"review_text"`
	Source      string    `json:"source,omitempty"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

// ReviewPrediction is the stream and archive record for a classified
// review. The archive marshals it through its json tags.
type ReviewPrediction struct {
	ReviewID      string                  `json:"review_id"`
	Source        string                  `json:"source,omitempty"`
	Sentiment     sentiment.Label         `json:"sentiment"`
	Confidence    float64                 `json:"confidence"`
	Probabilities sentiment.Probabilities `json:"probabilities"`
	ErrorMessage  string                  `json:"error_message,omitempty"`
	PredictedAt   time.Time               `json:"predicted_at"`
}

// NewReviewPrediction copies result into a record for msg.
func NewReviewPrediction(msg ReviewMessage, result sentiment.PredictionResult, at time.Time) ReviewPrediction {
	return ReviewPrediction{
		ReviewID:      msg.ReviewID,
		Source:        msg.Source,
		Sentiment:     result.Sentiment,
		Confidence:    result.Confidence,
		Probabilities: result.Probabilities,
		ErrorMessage:  result.ErrorMessage,
		PredictedAt:   at.UTC(),
	}
}
