package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"docsum/internal/domain"
	"docsum/internal/port"
)

const (
	chunkSystemPrompt = "You are a concise, faithful document summarizer. " +
		"Capture key points, structure, and any action items."
	chunkUserPrefix = "Summarize the following text:\n\n"

	synthesisSystemPrompt = "Synthesize multiple partial summaries into one cohesive, " +
		"non-redundant summary with headings and bullets."
	synthesisUserPrefix = "Combine these partial summaries into one coherent summary:\n"

	summaryTemperature = 0.2

	DefaultRetries = 3
	DefaultBackoff = 8 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SummarizeOptions tunes a SummarizeUseCase. Zero values select the defaults.
type SummarizeOptions struct {
	Retries  int
	Backoff  time.Duration
	Sleep    SleepFunc
	Cache    port.SummaryCache
	Progress func(done, total int)
	Logger   *slog.Logger
}

// SummarizeUseCase turns chunks into partial summaries and a final summary.
type SummarizeUseCase struct {
	completer port.Completer
	retries   int
	backoff   time.Duration
	sleep     SleepFunc
	cache     port.SummaryCache
	progress  func(done, total int)
	log       *slog.Logger
}

// NewSummarizeUseCase creates a new summarize use case.
func NewSummarizeUseCase(completer port.Completer, opts SummarizeOptions) *SummarizeUseCase {
	u := &SummarizeUseCase{
		completer: completer,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
		sleep:     opts.Sleep,
		cache:     opts.Cache,
		progress:  opts.Progress,
		log:       opts.Logger,
	}
	if u.retries <= 0 {
		u.retries = DefaultRetries
	}
	if u.backoff <= 0 {
		u.backoff = DefaultBackoff
	}
	if u.sleep == nil {
		u.sleep = sleepContext
	}
	if u.log == nil {
		u.log = slog.Default()
	}
	return u
}

// SummarizeOne performs a single summarization request for one chunk.
func (u *SummarizeUseCase) SummarizeOne(ctx context.Context, chunk string) (string, error) {
	out, err := u.completer.Complete(ctx, port.Prompt{
		System:      chunkSystemPrompt,
		User:        chunkUserPrefix + chunk,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", domain.NewServiceError("summarize chunk", err)
	}
	return strings.TrimSpace(out), nil
}

// SummarizeWithRetry calls SummarizeOne up to the configured number of
// attempts, sleeping backoff*n after the n-th failure. The last error is
// returned as is.
func (u *SummarizeUseCase) SummarizeWithRetry(ctx context.Context, chunk string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= u.retries; attempt++ {
		out, err := u.SummarizeOne(ctx, chunk)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == u.retries {
			break
		}

		wait := u.backoff * time.Duration(attempt)
		u.log.WarnContext(ctx, "summary attempt failed, retrying",
			"attempt", attempt,
			"of", u.retries,
			"wait", wait,
			"error", err,
		)
		if err := u.sleep(ctx, wait); err != nil {
			return "", errors.Join(lastErr, err)
		}
	}
	return "", lastErr
}

// SummarizeAll summarizes chunks in order and, when there is more than one,
// merges the partial summaries with a single synthesis request.
func (u *SummarizeUseCase) SummarizeAll(ctx context.Context, chunks []domain.Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", domain.ErrNothingToSummarize
	}

	if u.progress != nil {
		u.progress(0, len(chunks))
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		u.log.InfoContext(ctx, "Summarizing chunk",
			"chunk", i+1,
			"total", len(chunks),
			"tokens", chunk.Tokens,
		)

		partial, err := u.partial(ctx, chunk.Text)
		if err != nil {
			return "", err
		}
		partials = append(partials, partial)

		if u.progress != nil {
			u.progress(i+1, len(chunks))
		}
	}

	if len(partials) == 1 {
		return partials[0], nil
	}
	return u.synthesize(ctx, partials)
}

func (u *SummarizeUseCase) partial(ctx context.Context, text string) (string, error) {
	model := u.completer.ModelName()
	if u.cache != nil {
		if cached, ok := u.cache.Get(model, text); ok {
			u.log.DebugContext(ctx, "partial summary cache hit", "model", model)
			return cached, nil
		}
	}

	out, err := u.SummarizeWithRetry(ctx, text)
	if err != nil {
		return "", err
	}

	if u.cache != nil {
		u.cache.Put(model, text, out)
	}
	return out, nil
}

func (u *SummarizeUseCase) synthesize(ctx context.Context, partials []string) (string, error) {
	u.log.InfoContext(ctx, "Synthesizing final summary", "partials", len(partials))

	out, err := u.completer.Complete(ctx, port.Prompt{
		System:      synthesisSystemPrompt,
		User:        SynthesisPrompt(partials),
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", domain.NewServiceError("synthesize", err)
	}
	return strings.TrimSpace(out), nil
}

// SynthesisPrompt builds the user message of the synthesis request.
func SynthesisPrompt(partials []string) string {
	items := make([]string, len(partials))
	for i, p := range partials {
		items[i] = "- " + p
	}
	return synthesisUserPrefix + strings.Join(items, "\n\n")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
