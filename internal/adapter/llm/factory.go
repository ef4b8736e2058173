// Package llm holds the remote completion backends.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3/option"

	"docsum/internal/port"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Options selects and configures a completion backend.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// New creates the Completer for opts.Provider.
func New(ctx context.Context, opts Options) (port.Completer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		var reqOpts []option.RequestOption
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		return NewOpenAICompleter(opts.APIKey, opts.Model, reqOpts...)
	case ProviderGemini:
		return NewGeminiCompleter(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
}
