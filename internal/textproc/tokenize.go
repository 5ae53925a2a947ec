package textproc

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// MarkerPrefixes lists the synthetic token prefixes injected by Normalize,
// in the order they are checked.
var MarkerPrefixes = []string{
	"NOT_", "NO_", "NEVER_", "EXCL", "SARCASM", "QUOTE", "LOL", "LAUGH",
	"SARC_RIGHT", "HAPPY_EMOTICON", "SAD_EMOTICON",
}

// MarkerPrefix returns the first marker prefix token starts with.
func MarkerPrefix(token string) (string, bool) {
	for _, prefix := range MarkerPrefixes {
		if strings.HasPrefix(token, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// contractions are the fused forms the Penn Treebank convention splits in
// two, keyed by lowercase word with the length of the first half.
var contractions = map[string]int{
	"cannot": 3,
	"gimme":  3,
	"gonna":  3,
	"gotta":  3,
	"lemme":  3,
	"wanna":  3,
}

// Tokenizer splits normalized text into marker and ordinary tokens.
type Tokenizer struct {
	stopwords  StopwordSet
	lemmatizer Lemmatizer
}

func NewTokenizer(stopwords StopwordSet, lemmatizer Lemmatizer) *Tokenizer {
	return &Tokenizer{stopwords: stopwords, lemmatizer: lemmatizer}
}

// Tokenize keeps marker tokens verbatim, drops stopwords and lemmatizes
// everything else. Token order and duplicates are preserved.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if _, ok := MarkerPrefix(word); ok {
			tokens = append(tokens, word)
			continue
		}
		if t.stopwords.Contains(word) {
			continue
		}
		tokens = append(tokens, t.lemmatizer.Lemma(word))
	}
	return tokens
}

func splitWords(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return strings.Fields(text)
	}

	toks := doc.Tokens()
	words := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Text == "" {
			continue
		}
		if n, ok := contractions[strings.ToLower(tok.Text)]; ok {
			words = append(words, tok.Text[:n], tok.Text[n:])
			continue
		}
		words = append(words, tok.Text)
	}
	return words
}
