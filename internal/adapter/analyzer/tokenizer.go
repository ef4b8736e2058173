package analyzer

import (
	"unicode"
)

// ApproxName is the encoding name that selects the word-count heuristic.
const ApproxName = "approx"

// Tokenizer estimates token counts without a BPE vocabulary.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// CountTokens returns an approximate token count for LLM budget estimation.
func (t *Tokenizer) CountTokens(text string) int {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}
	// Rough estimate: average word is about 1.3 tokens
	return int(float64(len(words)) * 1.3)
}

func (t *Tokenizer) Name() string {
	return ApproxName
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	start := -1

	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}

	return words
}
