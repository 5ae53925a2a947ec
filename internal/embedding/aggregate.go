package embedding

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// FallbackStdDev is the standard deviation of the noise vector returned
// when no token of a document is in the vocabulary.
const FallbackStdDev = 0.01

// Aggregator turns a token sequence into a document vector by averaging
// the embeddings of its in-vocabulary tokens.
type Aggregator struct {
	lookup Lookup
	src    rand.Source
}

type AggregatorOption func(*Aggregator)

// WithSource fixes the randomness used for the out-of-vocabulary
// fallback. The source is serialized internally so it may be shared
// between goroutines.
func WithSource(src rand.Source) AggregatorOption {
	return func(a *Aggregator) {
		a.src = &lockedSource{src: src}
	}
}

func NewAggregator(lookup Lookup, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{lookup: lookup}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Lookup() Lookup {
	return a.lookup
}

// Dimension is the length of every vector returned by Embed.
func (a *Aggregator) Dimension() int {
	return a.lookup.Dimension()
}

// Embed returns the mean embedding of tokens. When no token is known the
// result is drawn from N(0, FallbackStdDev) instead of the zero vector.
// The returned slice is owned by the caller.
func (a *Aggregator) Embed(tokens []string) []float64 {
	dim := a.lookup.Dimension()
	doc := make([]float64, dim)
	row := make([]float64, dim)

	count := 0
	for _, token := range tokens {
		vec, ok := a.lookup.Vector(token)
		if !ok {
			continue
		}
		for i, v := range vec {
			row[i] = float64(v)
		}
		floats.Add(doc, row)
		count++
	}

	if count == 0 {
		return a.fallback(dim)
	}

	floats.Scale(1/float64(count), doc)
	return doc
}

func (a *Aggregator) fallback(dim int) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: FallbackStdDev, Src: a.src}
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = dist.Rand()
	}
	return vec
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
