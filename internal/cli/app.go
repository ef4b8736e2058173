package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"docsum/internal/adapter/analyzer"
	"docsum/internal/adapter/cache"
	"docsum/internal/adapter/chunker"
	"docsum/internal/adapter/extractor"
	"docsum/internal/adapter/fs"
	"docsum/internal/adapter/llm"
	"docsum/internal/usecase"
)

func newChunker() (*chunker.WordChunker, error) {
	tok, err := analyzer.New(cfg.Chunk.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return chunker.NewWordChunker(cfg.Chunk.MaxTokens, tok)
}

// newPipeline wires extraction, chunking and summarization. walkExcludes are
// added to the configured exclude patterns for directory runs.
func newPipeline(ctx context.Context, walkExcludes []string) (*usecase.DocumentUseCase, error) {
	chk, err := newChunker()
	if err != nil {
		return nil, err
	}

	completer, err := llm.New(ctx, llm.Options{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.APIKey(env),
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	opts := usecase.SummarizeOptions{
		Retries: cfg.LLM.Retries,
		Backoff: cfg.LLM.Backoff,
		Logger:  slog.Default(),
	}
	if cfg.Cache.Enabled {
		opts.Cache = cache.NewSummaryCache(cfg.Cache.Size, cfg.Cache.TTL)
	}
	if !noProgress {
		opts.Progress = chunkProgress()
	}
	summarizer := usecase.NewSummarizeUseCase(completer, opts)

	walker := fs.NewWalker(cfg.Walk.Includes, append(append([]string{}, cfg.Walk.Excludes...), walkExcludes...))

	return usecase.NewDocumentUseCase(extractor.Default(), chk, summarizer, walker, slog.Default()), nil
}

// chunkProgress returns a progress callback that starts a new bar for every
// document.
func chunkProgress() func(done, total int) {
	var bar *progressbar.ProgressBar

	return func(done, total int) {
		if done == 0 || bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Summarizing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		_ = bar.Set(done)
	}
}

// outputExclude returns the walk pattern that keeps outDir's own summaries out
// of a run over dir, or "" when outDir lies outside dir.
func outputExclude(dir, outDir string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absDir, absOut)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel) + "/**"
}
