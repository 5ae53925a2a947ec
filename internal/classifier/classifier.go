package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	KindLinearSVC = "linear_svc"
	KindRBFSVC    = "rbf_svc"
	KindLogistic  = "logistic"
)

const (
	LabelNegative = "negative"
	LabelPositive = "positive"
)

// Classifier is a pretrained binary probabilistic classifier.
// PredictProba returns one probability per entry of Classes, in the same
// order.
type Classifier interface {
	PredictProba(x []float64) ([]float64, error)
	Classes() []string
}

// Artifact is the JSON document exported by the training job.
type Artifact struct {
	Kind      string   `json:"kind"`
	Classes   []string `json:"classes"`
	Dimension int      `json:"dimension"`

	Coef      []float64 `json:"coef,omitempty"`
	Intercept float64   `json:"intercept"`

	SupportVectors [][]float64 `json:"support_vectors,omitempty"`
	DualCoef       []float64   `json:"dual_coef,omitempty"`
	Gamma          float64     `json:"gamma,omitempty"`

	ProbA float64 `json:"prob_a,omitempty"`
	ProbB float64 `json:"prob_b,omitempty"`
}

// Model evaluates an Artifact. The decision value is oriented towards
// Classes()[1].
type Model struct {
	artifact Artifact
}

// Load reads and validates a classifier artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode classifier: %w", err)
	}

	m, err := New(a)
	if err != nil {
		return nil, err
	}

	slog.Info("[Classifier] Classifier loaded",
		slog.String("path", path),
		slog.String("kind", a.Kind),
		slog.Any("classes", a.Classes),
		slog.Int("dimension", a.Dimension))
	return m, nil
}

// New validates a and returns a model evaluating it.
func New(a Artifact) (*Model, error) {
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier artifact: %w", err)
	}
	return &Model{artifact: a}, nil
}

func (m *Model) Classes() []string {
	return append([]string(nil), m.artifact.Classes...)
}

func (m *Model) Dimension() int { return m.artifact.Dimension }

func (m *Model) PredictProba(x []float64) ([]float64, error) {
	if len(x) != m.artifact.Dimension {
		return nil, fmt.Errorf("input has %d features, classifier expects %d", len(x), m.artifact.Dimension)
	}

	f := m.decision(x)
	var p1 float64
	switch m.artifact.Kind {
	case KindLogistic:
		p1 = sigmoid(f)
	default:
		p1 = platt(f, m.artifact.ProbA, m.artifact.ProbB)
	}
	if math.IsNaN(p1) {
		return nil, errors.New("classifier produced NaN probability")
	}
	return []float64{1 - p1, p1}, nil
}

func (m *Model) decision(x []float64) float64 {
	a := m.artifact
	switch a.Kind {
	case KindRBFSVC:
		sum := a.Intercept
		for i, sv := range a.SupportVectors {
			d := floats.Distance(sv, x, 2)
			sum += a.DualCoef[i] * math.Exp(-a.Gamma*d*d)
		}
		return sum
	default:
		return floats.Dot(a.Coef, x) + a.Intercept
	}
}

// platt is libsvm's numerically stable sigmoid 1/(1+exp(A*f+B)).
func platt(f, a, b float64) float64 {
	fApB := f*a + b
	if fApB >= 0 {
		e := math.Exp(-fApB)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(fApB))
}

func sigmoid(f float64) float64 {
	return platt(f, -1, 0)
}

func (a Artifact) validate() error {
	if len(a.Classes) != 2 {
		return fmt.Errorf("expected 2 classes, got %d", len(a.Classes))
	}
	if a.Dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", a.Dimension)
	}
	if !finite(a.Intercept) || !finite(a.ProbA) || !finite(a.ProbB) || !finite(a.Gamma) {
		return errors.New("non-finite scalar parameter")
	}

	switch a.Kind {
	case KindLinearSVC, KindLogistic:
		if len(a.Coef) != a.Dimension {
			return fmt.Errorf("coef has %d values, want %d", len(a.Coef), a.Dimension)
		}
		if !allFinite(a.Coef) {
			return errors.New("non-finite coefficient")
		}
	case KindRBFSVC:
		if len(a.SupportVectors) == 0 {
			return errors.New("no support vectors")
		}
		if len(a.DualCoef) != len(a.SupportVectors) {
			return fmt.Errorf("dual_coef has %d values for %d support vectors", len(a.DualCoef), len(a.SupportVectors))
		}
		if a.Gamma <= 0 {
			return fmt.Errorf("gamma must be positive, got %g", a.Gamma)
		}
		for i, sv := range a.SupportVectors {
			if len(sv) != a.Dimension {
				return fmt.Errorf("support vector %d has %d values, want %d", i, len(sv), a.Dimension)
			}
			if !allFinite(sv) {
				return fmt.Errorf("support vector %d is not finite", i)
			}
		}
		if !allFinite(a.DualCoef) {
			return errors.New("non-finite dual coefficient")
		}
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}

	if a.Kind != KindLogistic && a.ProbA == 0 {
		return errors.New("svc artifact is missing Platt scaling (prob_a)")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Polarity holds the positions of the negative and positive labels in a
// classifier's output.
type Polarity struct {
	Negative int
	Positive int
}

// ResolvePolarity locates the negative and positive labels in
// clf.Classes(). Label matching ignores case and surrounding space.
func ResolvePolarity(clf Classifier) (Polarity, error) {
	classes := clf.Classes()
	if len(classes) != 2 {
		return Polarity{}, fmt.Errorf("expected a binary classifier, got classes %v", classes)
	}

	p := Polarity{Negative: -1, Positive: -1}
	for i, c := range classes {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case LabelNegative:
			p.Negative = i
		case LabelPositive:
			p.Positive = i
		}
	}
	if p.Negative < 0 || p.Positive < 0 {
		return Polarity{}, fmt.Errorf("classifier classes %v must be %q and %q", classes, LabelNegative, LabelPositive)
	}
	return p, nil
}
