package port

import "context"

// Prompt is a single chat-style completion request.
type Prompt struct {
	System      string
	User        string
	Temperature float64
}

// Completer sends prompts to a remote language model.
type Completer interface {
	// Complete returns the model's reply text for the prompt.
	Complete(ctx context.Context, prompt Prompt) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
