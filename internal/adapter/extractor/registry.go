// Package extractor turns document files into plain text.
//
// Every failure is reported as *domain.UnreadableError so callers only need to
// display the reason, never inspect the underlying library error.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"docsum/internal/domain"
	"docsum/internal/port"
)

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]port.Extractor
}

// NewRegistry creates a Registry. Later extractors win on duplicate extensions.
func NewRegistry(extractors ...port.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]port.Extractor)}
	for _, x := range extractors {
		for _, ext := range x.Extensions() {
			r.byExt[ext] = x
		}
	}
	return r
}

// Default returns a Registry for PDF, DOCX and plain text files.
func Default() *Registry {
	return NewRegistry(NewPDFExtractor(), NewDOCXExtractor(), NewTextExtractor())
}

// Extract reads path with the extractor registered for its extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := domain.Ext(path)
	x, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExtension, ext)
	}
	return x.Extract(ctx, path)
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// readError maps an I/O error to an UnreadableError with a readable reason.
func readError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return domain.Unreadable(path, "permission denied", err)
	case errors.Is(err, fs.ErrNotExist):
		return domain.Unreadable(path, "file does not exist", err)
	default:
		return domain.Unreadable(path, fmt.Sprintf("read failed: %v", err), err)
	}
}
