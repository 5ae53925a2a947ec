package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// BaselineMargin is the |compound| score a lexicon verdict needs before it
// stops being Neutral.
const BaselineMargin = 0.20

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
)

// LexiconBaseline scores reviews with VADER. It is used to sanity-check
// the embedding classifier offline, never on the request path.
type LexiconBaseline struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconBaseline() *LexiconBaseline {
	return &LexiconBaseline{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score in [-1, 1] and the matching label.
func (b *LexiconBaseline) Score(text string) (float64, Label) {
	plain := MarkdownToText(text)
	compound := b.analyzer.PolarityScores(plain).Compound

	switch {
	case compound >= BaselineMargin:
		return compound, Positive
	case compound <= -BaselineMargin:
		return compound, Negative
	default:
		return compound, Neutral
	}
}

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = markdownLink.ReplaceAllString(input, "$1")
	return bareURL.ReplaceAllString(input, "")
}

// MarkdownToText renders markdown and flattens it to a single line of
// plain text.
func MarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{})))
	plain := html.UnescapeString(htmlTag.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plain), " ")
}
