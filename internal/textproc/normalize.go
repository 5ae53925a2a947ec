package textproc

import (
	"regexp"
	"strings"
)

// Rule is one regular-expression rewrite in the normalization cascade.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply rewrites every non-overlapping match of the rule in text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

func rule(name, pattern, replacement string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// The rules run in order and later rules see the output of earlier ones.
// "n't " becomes " not " which the next rule then tags as NOT_, and the
// SARCASM rule re-matches the '!' runs that EXCL already consumed. The
// trained classifier has seen exactly this output so neither overlap is
// corrected here.
var (
	negationRules = []Rule{
		rule("contraction", `n't\s`, " not "),
		rule("not", `not\s`, " NOT_"),
		rule("no", `no\s`, " NO_"),
		rule("never", `never\s`, " NEVER_"),
	}

	sarcasmRules = []Rule{
		rule("exclamation", `\s*[!]+\s*`, " EXCL "),
		rule("sarcasm", `\s*[?!]+\s*`, " SARCASM "),
		rule("quote", `"(.+?)"`, " QUOTE ${1} QUOTE "),
		rule("lol", `\s*lol\s*`, " LOL "),
		rule("laugh", `\s*haha+\s*`, " LAUGH "),
		rule("sarcastic_right", `\s*right+\s*[.?!]`, " SARC_RIGHT "),
	}

	cleanupRules = []Rule{
		rule("html", `<.*?>`, ""),
		rule("happy_emoticon", `:-?\)`, " HAPPY_EMOTICON "),
		rule("sad_emoticon", `:-?\(`, " SAD_EMOTICON "),
		rule("charset", `[^a-zA-Z\s_]`, " "),
		rule("whitespace", `\s+`, " "),
	}
)

// Rules returns the complete cascade in application order, excluding the
// initial lower-casing.
func Rules() []Rule {
	all := make([]Rule, 0, len(negationRules)+len(sarcasmRules)+len(cleanupRules))
	all = append(all, negationRules...)
	all = append(all, sarcasmRules...)
	all = append(all, cleanupRules...)
	return all
}

var cascade = Rules()

// Normalize lower-cases text, injects negation, sarcasm and emoticon
// markers, strips markup and every character outside [a-zA-Z\s_], and
// collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	for _, r := range cascade {
		text = r.Apply(text)
	}
	return strings.TrimSpace(text)
}
