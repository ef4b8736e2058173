package extractor

import (
	"bytes"
	"context"
	"os"
	"unicode/utf8"

	"docsum/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextExtractor reads UTF-8 plain text files.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extensions() []string {
	return []string{".txt"}
}

func (e *TextExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", readError(path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", domain.Unreadable(path, "file is not valid UTF-8 text", nil)
	}

	return string(data), nil
}
