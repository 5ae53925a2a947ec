package embedding

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// VectorSize is the dimension of the GloVe vectors the classifier was
// trained on.
const VectorSize = 300

// Lookup maps a token to its pretrained embedding.
type Lookup interface {
	Vector(word string) ([]float32, bool)
	Dimension() int
}

// Table is an in-memory word embedding table. It is never mutated after
// loading and is safe for concurrent reads.
type Table struct {
	dim     int
	vectors map[string][]float32
}

// NewTable builds a table from already-decoded vectors. Every vector must
// have length dim.
func NewTable(dim int, vectors map[string][]float32) (*Table, error) {
	for word, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector for %q has %d values, want %d", word, len(vec), dim)
		}
	}
	return &Table{dim: dim, vectors: vectors}, nil
}

func (t *Table) Vector(word string) ([]float32, bool) {
	vec, ok := t.vectors[word]
	return vec, ok
}

func (t *Table) Dimension() int { return t.dim }

// Len returns the vocabulary size.
func (t *Table) Len() int { return len(t.vectors) }

// LoadTable reads a GloVe or word2vec text file. Paths ending in .gz are
// decompressed on the fly.
func LoadTable(path string, dim int) (*Table, error) {
	start := time.Now()
	slog.Info("[Embeddings] Loading word embeddings", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	table, err := ReadTable(r, dim)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	slog.Info("[Embeddings] Word embeddings loaded",
		slog.Int("vocabulary", table.Len()),
		slog.Int("dimension", dim),
		slog.Duration("elapsed", time.Since(start)))
	return table, nil
}

// ReadTable parses "word v1 ... vN" rows. A leading word2vec "count dim"
// header is accepted and checked against dim.
func ReadTable(r io.Reader, dim int) (*Table, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dim)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	vectors := make(map[string][]float32)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if line == 1 && len(fields) == 2 {
			headerDim, err := strconv.Atoi(fields[1])
			if err == nil {
				if headerDim != dim {
					return nil, fmt.Errorf("header declares dimension %d, want %d", headerDim, dim)
				}
				continue
			}
		}

		if len(fields) != dim+1 {
			return nil, fmt.Errorf("line %d: got %d values, want %d", line, len(fields)-1, dim)
		}

		vec := make([]float32, dim)
		for i, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: value %d: %w", line, i+1, err)
			}
			vec[i] = float32(v)
		}
		vectors[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("no vectors found")
	}

	return &Table{dim: dim, vectors: vectors}, nil
}
