package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docsum/internal/domain"
	"docsum/internal/port"
)

// SummarySink receives each successful summary of a directory run.
type SummarySink func(ctx context.Context, summary domain.Summary) error

// FileFailure records a document that could not be summarized.
type FileFailure struct {
	Path string
	Err  error
}

// DirResult contains the results of a directory run.
type DirResult struct {
	Processed int
	Succeeded int
	Failures  []FileFailure
}

// DocumentUseCase runs extraction, chunking and summarization for documents.
type DocumentUseCase struct {
	extractor  port.Extractor
	chunker    port.Chunker
	summarizer *SummarizeUseCase
	walker     port.FileWalker
	log        *slog.Logger
}

// NewDocumentUseCase creates a new document use case.
func NewDocumentUseCase(
	extractor port.Extractor,
	chunker port.Chunker,
	summarizer *SummarizeUseCase,
	walker port.FileWalker,
	log *slog.Logger,
) *DocumentUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentUseCase{
		extractor:  extractor,
		chunker:    chunker,
		summarizer: summarizer,
		walker:     walker,
		log:        log,
	}
}

// Plan extracts a document and splits it into chunks without calling the model.
func (u *DocumentUseCase) Plan(ctx context.Context, path string) ([]domain.Chunk, error) {
	if !domain.IsSupported(path) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedExtension, domain.Ext(path))
	}

	text, err := u.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks, err := u.chunker.Chunk(text)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", path, err)
	}
	return chunks, nil
}

// SummarizePath produces the final summary of a single document.
func (u *DocumentUseCase) SummarizePath(ctx context.Context, path string) (domain.Summary, error) {
	chunks, err := u.Plan(ctx, path)
	if err != nil {
		return domain.Summary{}, err
	}

	u.log.InfoContext(ctx, "summarizing document",
		"path", path,
		"chunks", len(chunks),
	)

	text, err := u.summarizer.SummarizeAll(ctx, chunks)
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summary{
		Path:        path,
		Text:        text,
		Chunks:      len(chunks),
		Synthesized: len(chunks) > 1,
	}, nil
}

// SummarizeDir summarizes every supported document under dir. A failing
// document is logged and recorded, and the run moves on to the next one.
// Only a walk failure or cancellation aborts the run.
func (u *DocumentUseCase) SummarizeDir(ctx context.Context, dir string, sink SummarySink) (*DirResult, error) {
	files, err := u.walker.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &DirResult{}
	for _, file := range files {
		if !domain.IsSupported(file.Path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := file.Path
		result.Processed++

		summary, err := u.SummarizePath(ctx, path)
		if err == nil && sink != nil {
			err = sink(ctx, summary)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return result, err
			}
			u.log.ErrorContext(ctx, "failed to summarize document",
				"path", path,
				"error", err,
			)
			result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
			continue
		}
		result.Succeeded++
	}

	u.log.InfoContext(ctx, "directory complete",
		"dir", dir,
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", len(result.Failures),
	)
	return result, nil
}
