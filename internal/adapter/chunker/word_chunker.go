package chunker

import (
	"fmt"
	"strings"

	"docsum/internal/domain"
	"docsum/internal/port"
)

// WordChunker greedily packs whitespace-separated words into chunks.
//
// After each word the whole candidate is measured; once it exceeds maxTokens
// the candidate is closed with that word still in it. The overshoot is bounded
// by the last word of each chunk.
type WordChunker struct {
	maxTokens int
	tokenizer port.Tokenizer
}

// NewWordChunker creates a chunker. A maxTokens of zero puts every word in its
// own chunk.
func NewWordChunker(maxTokens int, tokenizer port.Tokenizer) (*WordChunker, error) {
	if maxTokens < 0 {
		return nil, fmt.Errorf("max tokens must not be negative: %d", maxTokens)
	}
	if tokenizer == nil {
		return nil, fmt.Errorf("tokenizer is required")
	}
	return &WordChunker{
		maxTokens: maxTokens,
		tokenizer: tokenizer,
	}, nil
}

func (c *WordChunker) Chunk(text string) ([]domain.Chunk, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var (
		chunks  []domain.Chunk
		current []string
	)

	for _, word := range words {
		current = append(current, word)

		candidate := strings.Join(current, " ")
		tokens := c.tokenizer.CountTokens(candidate)
		if tokens > c.maxTokens {
			chunks = append(chunks, domain.Chunk{
				Index:  len(chunks),
				Text:   candidate,
				Tokens: tokens,
			})
			current = current[:0]
		}
	}

	if len(current) > 0 {
		candidate := strings.Join(current, " ")
		chunks = append(chunks, domain.Chunk{
			Index:  len(chunks),
			Text:   candidate,
			Tokens: c.tokenizer.CountTokens(candidate),
		})
	}

	return chunks, nil
}

// MaxTokens returns the configured per-chunk budget.
func (c *WordChunker) MaxTokens() int {
	return c.maxTokens
}
