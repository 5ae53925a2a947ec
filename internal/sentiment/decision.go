package sentiment

import "math"

// DefaultThreshold is the minimum probability margin required to call a
// review Positive or Negative.
const DefaultThreshold = 0.4

type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
	Error    Label = "Error"
)

type Probabilities struct {
	Negative float64 `json:"negative"`
	Positive float64 `json:"positive"`
}

// PredictionResult is the outcome of one prediction. ErrorMessage is only
// set when Sentiment is Error.
type PredictionResult struct {
	Sentiment     Label         `json:"sentiment"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

// Decide turns class probabilities into a label. The confidence is the
// absolute margin between the two probabilities; margins below threshold
// are Neutral. With a threshold of 0 an exact tie falls through to
// Negative.
func Decide(probNegative, probPositive, threshold float64) PredictionResult {
	confidence := math.Abs(probPositive - probNegative)

	var label Label
	switch {
	case confidence < threshold:
		label = Neutral
	case probPositive > probNegative:
		label = Positive
	default:
		label = Negative
	}

	return PredictionResult{
		Sentiment:  label,
		Confidence: confidence,
		Probabilities: Probabilities{
			Negative: probNegative,
			Positive: probPositive,
		},
	}
}

// ErrorResult is returned in place of a prediction when the models are
// not available.
func ErrorResult(message string) PredictionResult {
	return PredictionResult{
		Sentiment:    Error,
		ErrorMessage: message,
	}
}
