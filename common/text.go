package common

import (
	"strings"
	"unicode"
)

// DefaultMaxTokens is the token budget used by Chunk when none is given.
const DefaultMaxTokens = 8000

// wordsPerToken is the empirical divisor turning a token budget into a word
// count: an average word is about five characters plus a space.
const wordsPerToken = 6

// Normalize replaces every rune that is not a word character, whitespace or
// one of ". , ! ? -" with a space, collapses whitespace runs to a single
// space and trims the result. It never fails and is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if keepRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func keepRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '_', '.', ',', '!', '?', '-':
		return true
	}
	return false
}

// WordsPerChunk returns how many words fit into one chunk for the given
// token budget. Non-positive budgets fall back to DefaultMaxTokens.
func WordsPerChunk(maxTokens int) int {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return max(1, maxTokens/wordsPerToken)
}

// Chunk splits text into whitespace-delimited word groups of at most
// WordsPerChunk(maxTokens) words each, space-joined, preserving order.
// Words are never split. Blank input yields an empty slice.
func Chunk(text string, maxTokens int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	size := WordsPerChunk(maxTokens)
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
