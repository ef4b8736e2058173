package port

import "context"

// Extractor returns the plain text of a document file.
type Extractor interface {
	// Extract reads the file at path. Failures are *domain.UnreadableError.
	Extract(ctx context.Context, path string) (string, error)

	// Extensions returns the lower-cased extensions, with dot, this extractor handles.
	Extensions() []string
}
