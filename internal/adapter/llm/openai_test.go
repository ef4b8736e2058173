package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"docsum/internal/port"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, content string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompleterComplete(t *testing.T) {
	var seen chatRequest
	srv := newChatServer(t, http.StatusOK, "  the summary \n", &seen)

	c, err := New(context.Background(), Options{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o",
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Complete(context.Background(), port.Prompt{
		System:      "be brief",
		User:        "summarize this",
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the summary" {
		t.Errorf("expected trimmed reply, got %q", got)
	}

	if seen.Model != "gpt-4o" {
		t.Errorf("unexpected model: %s", seen.Model)
	}
	if seen.Temperature != 0.2 {
		t.Errorf("unexpected temperature: %v", seen.Temperature)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != "system" || seen.Messages[1].Content != "summarize this" {
		t.Errorf("unexpected messages: %+v", seen.Messages)
	}
	if c.ModelName() != "gpt-4o" {
		t.Errorf("unexpected model name: %s", c.ModelName())
	}
}

func TestOpenAICompleterServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), Options{Model: "gpt-4o", APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Complete(context.Background(), port.Prompt{User: "x"}); err == nil {
		t.Fatal("expected error from failing server")
	}
	if calls != 1 {
		t.Errorf("expected the client not to retry on its own, got %d calls", calls)
	}
}

func TestOpenAICompleterEmptyReply(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, "   ", nil)

	c, err := NewOpenAICompleter("test-key", "gpt-4o", option.WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Complete(context.Background(), port.Prompt{User: "x"}); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"openai without key", Options{Provider: ProviderOpenAI, Model: "gpt-4o"}},
		{"openai without model", Options{Provider: ProviderOpenAI, APIKey: "k"}},
		{"gemini without key", Options{Provider: ProviderGemini, Model: "gemini-2.5-flash"}},
		{"unknown provider", Options{Provider: "llama", Model: "m", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}
