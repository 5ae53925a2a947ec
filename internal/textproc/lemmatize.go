package textproc

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// nounSuffixes are the WordNet noun detachment rules, checked in order.
var nounSuffixes = []struct{ old, new string }{
	{"s", ""},
	{"ses", "s"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
}

// irregularNouns holds plurals the suffix rules cannot reach.
var irregularNouns = map[string][]string{
	"children":  {"child"},
	"feet":      {"foot"},
	"geese":     {"goose"},
	"teeth":     {"tooth"},
	"mice":      {"mouse"},
	"lice":      {"louse"},
	"oxen":      {"ox"},
	"knives":    {"knife"},
	"wives":     {"wife"},
	"lives":     {"life"},
	"leaves":    {"leaf"},
	"wolves":    {"wolf"},
	"halves":    {"half"},
	"selves":    {"self"},
	"shelves":   {"shelf"},
	"thieves":   {"thief"},
	"crises":    {"crisis"},
	"analyses":  {"analysis"},
	"theses":    {"thesis"},
	"criteria":  {"criterion"},
	"phenomena": {"phenomenon"},
	"data":      {"datum"},
}

// NounLemmatizer reduces plural nouns to their singular form and leaves
// every other word untouched. A candidate form counts only if known
// reports it; the shortest known candidate wins, the word itself when
// none is known.
type NounLemmatizer struct {
	known func(word string) bool
}

func NewNounLemmatizer(known func(word string) bool) *NounLemmatizer {
	return &NounLemmatizer{known: known}
}

// NewEnglishLemmatizer backs the noun rules with the golem English
// dictionary as vocabulary.
func NewEnglishLemmatizer() (Lemmatizer, error) {
	dict, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load english lemma dictionary: %w", err)
	}
	return NewNounLemmatizer(dict.InDict), nil
}

func (l *NounLemmatizer) Lemma(word string) string {
	candidates := []string{word}
	if irregular, ok := irregularNouns[word]; ok {
		candidates = append(candidates, irregular...)
	} else {
		for _, rule := range nounSuffixes {
			if strings.HasSuffix(word, rule.old) {
				candidates = append(candidates, word[:len(word)-len(rule.old)]+rule.new)
			}
		}
	}

	best := ""
	for _, c := range candidates {
		if c == "" || !l.known(c) {
			continue
		}
		if best == "" || len(c) < len(best) {
			best = c
		}
	}
	if best == "" {
		return word
	}
	return best
}
