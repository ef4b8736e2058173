// Package writer persists final summaries in the supported output formats.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docsum/internal/port"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatDocx     = "docx"
)

// New returns the writer for format.
func New(format string) (port.SummaryWriter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "txt":
		return TextWriter{}, nil
	case FormatMarkdown, "md":
		return MarkdownWriter{}, nil
	case FormatDocx:
		return DocxWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ForPath picks a writer from the extension of an explicit output path,
// falling back to format.
func ForPath(path, format string) (port.SummaryWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return DocxWriter{}, nil
	case ".md":
		return MarkdownWriter{}, nil
	}
	return New(format)
}

// OutputPath returns <dir>/<stem>.summary<ext> for a source document.
func OutputPath(dir, source string, w port.SummaryWriter) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+".summary"+w.Ext())
}

// TextWriter writes the summary verbatim.
type TextWriter struct{}

func (TextWriter) Ext() string { return ".txt" }

func (TextWriter) Write(path, _ string, summary string) error {
	return writeFile(path, []byte(summary))
}

// MarkdownWriter prefixes the summary with a level-one heading.
type MarkdownWriter struct{}

func (MarkdownWriter) Ext() string { return ".md" }

func (MarkdownWriter) Write(path, title, summary string) error {
	content := fmt.Sprintf("# %s\n\n%s\n", title, strings.TrimSpace(summary))
	return writeFile(path, []byte(content))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
