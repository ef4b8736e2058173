package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsum/internal/domain"
)

const reasonPasswordProtected = "document is password protected"

// PDFExtractor reads the text layer of PDF documents page by page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract joins the plain text of every page with newlines. A page without a
// content stream contributes an empty line.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.Unreadable(path, fmt.Sprintf("corrupt PDF: %v", r), nil)
		}
	}()

	f, r, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return "", pdfError(path, err)
	}

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.Unreadable(path, fmt.Sprintf("extract page %d: %v", i, err), err)
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

func pdfError(path string, err error) error {
	if errors.Is(err, pdf.ErrInvalidPassword) || mentionsPassword(err) {
		return domain.Unreadable(path, reasonPasswordProtected, err)
	}
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return readError(path, err)
	}
	return domain.Unreadable(path, fmt.Sprintf("not a readable PDF: %v", err), err)
}

// mentionsPassword matches encryption failures the underlying libraries only
// report as text.
func mentionsPassword(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
