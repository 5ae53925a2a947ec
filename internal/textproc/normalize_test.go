package textproc

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Cascade(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "contraction is re-tagged by the not rule",
			input: "This movie wasn't good, not at all!",
			want:  "this movie was NOT_good NOT_at all EXCL",
		},
		{
			name:  "don't",
			input: "I don't know",
			want:  "i do NOT_know",
		},
		{
			name:  "exclamation runs are tagged before sarcasm",
			input: "It was great!!! Really?!",
			want:  "it was great EXCL really SARCASM EXCL",
		},
		{
			name:  "quotes lol html and emoticons",
			input: `I "loved" it lol :) <br/> right?`,
			want:  "i QUOTE loved QUOTE it LOL HAPPY_EMOTICON right SARCASM",
		},
		{
			name:  "laugh no never and sad emoticon",
			input: "hahaha no way, never again :-(",
			want:  "LAUGH ha NO_way NEVER_again SAD_EMOTICON",
		},
		{
			name:  "sarcastic right followed by a period",
			input: "Oh right. Best movie ever.",
			want:  "oh SARC_RIGHT best movie ever",
		},
		{
			name:  "no inside a word",
			input: "piano music",
			want:  "pia NO_music",
		},
		{
			name:  "digits and punctuation are dropped",
			input: "10/10 would watch again...",
			want:  "would watch again",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!!",
			want:  "EXCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_OutputCharset(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-zA-Z_ ]*$`)
	inputs := []string{
		"Ça m'a plu — 5 étoiles!",
		"<p>Terrible</p> :( :-) ???",
		"tabs\tand\nnewlines  everywhere",
		`"unterminated quote`,
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.Regexp(t, allowed, out, "input %q", in)
		assert.NotContains(t, out, "  ")
	}
}

func TestNormalize_IdempotentOnStableInput(t *testing.T) {
	stable := []string{
		"great acting and a fine plot",
		"the soundtrack was wonderful",
	}
	for _, s := range stable {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalize_NotIdempotentOnMarkers(t *testing.T) {
	once := Normalize("i do not care")
	assert.Equal(t, "i do NOT_care", once)
	// Lower-casing folds the marker and the glued word is never re-tagged.
	assert.Equal(t, "i do not_care", Normalize(once))

	// A trailing "no" gains a marker only once whitespace follows it.
	assert.Equal(t, "no", Normalize("no"))
	assert.Equal(t, "NO_thanks", Normalize("no thanks"))
}

func TestRules_Order(t *testing.T) {
	names := make([]string, 0)
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"contraction", "not", "no", "never",
		"exclamation", "sarcasm", "quote", "lol", "laugh", "sarcastic_right",
		"html", "happy_emoticon", "sad_emoticon", "charset", "whitespace",
	}, names)
}
