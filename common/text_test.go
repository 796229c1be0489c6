package common

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \t\n ", want: ""},
		{name: "plain text untouched", in: "hello world", want: "hello world"},
		{name: "punctuation kept", in: "Wait, what?! Yes - no.", want: "Wait, what?! Yes - no."},
		{name: "symbols replaced", in: "[Music] hello@world #tag", want: "Music hello world tag"},
		{name: "whitespace collapsed", in: "a\n\nb\t\tc   d", want: "a b c d"},
		{name: "trimmed", in: "   >>hi<<   ", want: "hi"},
		{name: "underscore is a word char", in: "snake_case", want: "snake_case"},
		{name: "unicode letters kept", in: "café — naïve 東京", want: "café naïve 東京"},
		{name: "digits kept", in: "top 10 (2024)", want: "top 10 2024"},
		{name: "apostrophes replaced", in: "don't", want: "don t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

var normalizeCorpus = []string{
	"",
	"hello world",
	"  [Applause]  so... we're back!!  ",
	"emoji 🎉 party 🎉🎉",
	"tabs\tand\nnewlines\r\n",
	"mixed: a/b\\c|d*e&f^g%h$i",
	"\xff\xfe invalid utf8 \xc3",
	"non-breaking space and em space",
	"Ünïcödé — “quotes” ‘single’",
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range normalizeCorpus {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NeverGrowsAndStaysInAlphabet(t *testing.T) {
	for _, in := range normalizeCorpus {
		out := Normalize(in)
		assert.LessOrEqual(t, len(out), len(in), "input %q", in)
		for _, r := range out {
			allowed := unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' ||
				strings.ContainsRune("_.,!?-", r)
			assert.True(t, allowed, "unexpected rune %q in %q", r, out)
		}
		assert.NotContains(t, out, "  ")
		assert.Equal(t, strings.TrimSpace(out), out)
	}
}

func TestWordsPerChunk(t *testing.T) {
	assert.Equal(t, 1333, WordsPerChunk(8000))
	assert.Equal(t, 1333, WordsPerChunk(0))
	assert.Equal(t, 1333, WordsPerChunk(-5))
	assert.Equal(t, 10, WordsPerChunk(60))
	assert.Equal(t, 1, WordsPerChunk(3))
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		words     int
		maxTokens int
		want      int
	}{
		{name: "single partial chunk", words: 5, maxTokens: 60, want: 1},
		{name: "exact multiple", words: 20, maxTokens: 60, want: 2},
		{name: "remainder chunk", words: 21, maxTokens: 60, want: 3},
		{name: "default budget", words: 2700, maxTokens: 0, want: 3},
		{name: "tiny budget one word each", words: 4, maxTokens: 1, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := make([]string, tt.words)
			for i := range words {
				words[i] = fmt.Sprintf("w%d", i)
			}
			text := strings.Join(words, "  \n")

			chunks := Chunk(text, tt.maxTokens)
			require.Len(t, chunks, tt.want)

			per := WordsPerChunk(tt.maxTokens)
			assert.Equal(t, (tt.words+per-1)/per, len(chunks))
			for _, c := range chunks {
				assert.LessOrEqual(t, len(strings.Fields(c)), per)
			}

			assert.Equal(t, words, strings.Fields(strings.Join(chunks, " ")))
		})
	}
}

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, Chunk("", 8000))
	assert.Empty(t, Chunk("   \n\t ", 8000))
	assert.NotNil(t, Chunk("", 8000))
}
