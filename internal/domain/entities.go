package domain

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the document extensions an extractor exists for.
var SupportedExtensions = []string{".pdf", ".txt", ".docx"}

// Chunk is a token-bounded run of words taken from extracted text.
type Chunk struct {
	Index  int
	Text   string
	Tokens int
}

// Words returns the number of whitespace-separated words in the chunk.
func (c Chunk) Words() int {
	return len(strings.Fields(c.Text))
}

// Summary is the final result for one document.
type Summary struct {
	Path        string
	Text        string
	Chunks      int
	Synthesized bool
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsSupported reports whether path has one of SupportedExtensions.
func IsSupported(path string) bool {
	ext := Ext(path)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
