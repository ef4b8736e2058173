package analyzer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"docsum/internal/port"
)

// DefaultEncodingModel approximates the tokenization of current chat models.
const DefaultEncodingModel = "gpt-3.5-turbo"

var loaderOnce sync.Once

// Tiktoken counts tokens with an OpenAI BPE encoding.
type Tiktoken struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewTiktoken resolves name as a model name first, then as an encoding name
// such as "cl100k_base". The vocabularies are embedded, no download happens.
func NewTiktoken(name string) (*Tiktoken, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	if name == "" {
		name = DefaultEncodingModel
	}

	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		var encErr error
		enc, encErr = tiktoken.GetEncoding(name)
		if encErr != nil {
			return nil, fmt.Errorf("unknown model or encoding %q: %w", name, err)
		}
	}

	return &Tiktoken{name: name, enc: enc}, nil
}

// CountTokens encodes text, treating special-token markers as ordinary tokens.
func (t *Tiktoken) CountTokens(text string) int {
	return len(t.enc.Encode(text, []string{"all"}, nil))
}

func (t *Tiktoken) Name() string {
	return t.name
}

// New returns the approx heuristic for "approx", otherwise a tiktoken encoding.
func New(encoding string) (port.Tokenizer, error) {
	if strings.EqualFold(strings.TrimSpace(encoding), ApproxName) {
		return NewTokenizer(), nil
	}
	return NewTiktoken(strings.TrimSpace(encoding))
}
