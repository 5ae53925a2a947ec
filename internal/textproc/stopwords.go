package textproc

import (
	"fmt"
	"strings"

	"github.com/bbalet/stopwords"
)

// StopwordSet reports whether a lower-case token carries no sentiment
// signal and should be dropped before lemmatization.
type StopwordSet interface {
	Contains(word string) bool
}

const (
	StopwordsNLTK     = "nltk"
	StopwordsExtended = "extended"
)

// NewStopwordSet returns the stopword set registered under source.
func NewStopwordSet(source string) (StopwordSet, error) {
	switch source {
	case "", StopwordsNLTK:
		return NLTKStopwords(), nil
	case StopwordsExtended:
		return ExtendedStopwords{}, nil
	default:
		return nil, fmt.Errorf("unknown stopword source %q", source)
	}
}

type wordSet map[string]struct{}

func (s wordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

var nltkSet = func() wordSet {
	set := make(wordSet, len(nltkEnglish))
	for _, w := range nltkEnglish {
		set[w] = struct{}{}
	}
	return set
}()

// NLTKStopwords returns the NLTK English stopword corpus the classifier
// was trained against.
func NLTKStopwords() StopwordSet {
	return nltkSet
}

// ExtendedStopwords uses the larger English list shipped with
// github.com/bbalet/stopwords.
type ExtendedStopwords struct{}

func (ExtendedStopwords) Contains(word string) bool {
	if word == "" {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
}

var nltkEnglish = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
	"yourselves", "he", "him", "his", "himself", "she", "she's", "her",
	"hers", "herself", "it", "it's", "its", "itself", "they", "them",
	"their", "theirs", "themselves", "what", "which", "who", "whom",
	"this", "that", "that'll", "these", "those", "am", "is", "are", "was",
	"were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or",
	"because", "as", "until", "while", "of", "at", "by", "for", "with",
	"about", "against", "between", "into", "through", "during", "before",
	"after", "above", "below", "to", "from", "up", "down", "in", "out",
	"on", "off", "over", "under", "again", "further", "then", "once",
	"here", "there", "when", "where", "why", "how", "all", "any", "both",
	"each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "don't", "should", "should've", "now",
	"d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "aren't",
	"couldn", "couldn't", "didn", "didn't", "doesn", "doesn't", "hadn",
	"hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't", "ma",
	"mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan",
	"shan't", "shouldn", "shouldn't", "wasn", "wasn't", "weren",
	"weren't", "won", "won't", "wouldn", "wouldn't",
}
