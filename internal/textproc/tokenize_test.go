package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suffixLemmatizer struct{}

// Lemma strips a plural "s" so tests do not depend on dictionary contents.
func (suffixLemmatizer) Lemma(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func newTestTokenizer() *Tokenizer {
	return NewTokenizer(NLTKStopwords(), suffixLemmatizer{})
}

func TestMarkerPrefix(t *testing.T) {
	tests := []struct {
		token  string
		prefix string
		ok     bool
	}{
		{"NOT_good", "NOT_", true},
		{"NO_way", "NO_", true},
		{"NEVER_again", "NEVER_", true},
		{"EXCL", "EXCL", true},
		{"SARCASM", "SARCASM", true},
		{"SARC_RIGHT", "SARC_RIGHT", true},
		{"LAUGH", "LAUGH", true},
		{"LOL", "LOL", true},
		{"HAPPY_EMOTICON", "HAPPY_EMOTICON", true},
		{"SAD_EMOTICON", "SAD_EMOTICON", true},
		{"QUOTE", "QUOTE", true},
		{"not_care", "", false},
		{"good", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			prefix, ok := MarkerPrefix(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestTokenize_MarkersStopwordsAndLemmas(t *testing.T) {
	tok := newTestTokenizer()

	got := tok.Tokenize("this movie was NOT_good NOT_at all EXCL")
	assert.Equal(t, []string{"movie", "NOT_good", "NOT_at", "EXCL"}, got)

	got = tok.Tokenize("the reviews were great great great")
	assert.Equal(t, []string{"review", "great", "great", "great"}, got, "duplicates survive")
}

func TestTokenize_MarkersAreNotLemmatized(t *testing.T) {
	tok := newTestTokenizer()
	got := tok.Tokenize("NOT_things SARCASM LAUGHS")
	assert.Equal(t, []string{"NOT_things", "SARCASM", "LAUGHS"}, got)
}

func TestTokenize_Empty(t *testing.T) {
	tok := newTestTokenizer()
	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   "))
	assert.Empty(t, tok.Tokenize("the and of"))
}

func TestPipelineScenario_NegationProducesMarker(t *testing.T) {
	tok := newTestTokenizer()
	tokens := tok.Tokenize(Normalize("This movie wasn't good, not at all!"))

	found := false
	for _, tk := range tokens {
		if strings.HasPrefix(tk, "NOT_") {
			found = true
		}
	}
	assert.True(t, found, "tokens: %v", tokens)
	assert.Contains(t, tokens, "NOT_good")
}

func TestTokenize_SplitsTreebankContractions(t *testing.T) {
	tok := newTestTokenizer()

	assert.Equal(t, []string{"stand"}, tok.Tokenize("i cannot stand it"))
	assert.Equal(t, []string{"gon", "na", "watch"}, tok.Tokenize("gonna watch"))
	assert.Equal(t, []string{"wan", "na", "cry"}, tok.Tokenize("wanna cry"))
}

func TestEnglishLemmatizer(t *testing.T) {
	lem, err := NewEnglishLemmatizer()
	require.NoError(t, err)

	tok := NewTokenizer(NLTKStopwords(), lem)
	got := tok.Tokenize("movies NOT_movies")
	assert.Equal(t, []string{"movie", "NOT_movies"}, got)
}

func TestEnglishLemmatizer_OnlyNounsChange(t *testing.T) {
	lem, err := NewEnglishLemmatizer()
	require.NoError(t, err)

	tok := NewTokenizer(NLTKStopwords(), lem)
	got := tok.Tokenize(Normalize("Better than expected, I loved it. Worse sequels came later."))
	assert.Equal(t, []string{"better", "expected", "loved", "worse", "sequel", "came", "later"}, got)
}

func TestNewStopwordSet(t *testing.T) {
	nltk, err := NewStopwordSet(StopwordsNLTK)
	require.NoError(t, err)
	assert.True(t, nltk.Contains("the"))
	assert.True(t, nltk.Contains("not"))
	assert.False(t, nltk.Contains("movie"))

	ext, err := NewStopwordSet(StopwordsExtended)
	require.NoError(t, err)
	assert.True(t, ext.Contains("the"))
	assert.False(t, ext.Contains(""))

	_, err = NewStopwordSet("klingon")
	assert.Error(t, err)
}
