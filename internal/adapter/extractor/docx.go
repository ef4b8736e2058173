package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"docsum/internal/domain"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart  = "word/document.xml"
)

// Encrypted Office files are OLE compound documents, not zip packages.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DOCXExtractor reads paragraph text from Word documents.
type DOCXExtractor struct{}

func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

func (e *DOCXExtractor) Extensions() []string {
	return []string{".docx"}
}

// Extract returns every non-blank paragraph in document order, one per line.
func (e *DOCXExtractor) Extract(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", readError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", readError(path, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return "", containerError(path, f, err)
	}

	var part *zip.File
	for _, zf := range zr.File {
		if zf.Name == documentPart {
			part = zf
			break
		}
	}
	if part == nil {
		return "", domain.Unreadable(path, "missing "+documentPart, nil)
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.Unreadable(path, fmt.Sprintf("open %s: %v", documentPart, err), err)
	}
	defer rc.Close()

	paragraphs, err := parseParagraphs(rc)
	if err != nil {
		return "", domain.Unreadable(path, fmt.Sprintf("parse %s: %v", documentPart, err), err)
	}

	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n"), nil
}

func containerError(path string, r io.ReaderAt, err error) error {
	if mentionsPassword(err) {
		return domain.Unreadable(path, reasonPasswordProtected, err)
	}
	if errors.Is(err, zip.ErrFormat) {
		header := make([]byte, len(oleSignature))
		if _, readErr := r.ReadAt(header, 0); readErr == nil && bytes.Equal(header, oleSignature) {
			return domain.Unreadable(path, reasonPasswordProtected, err)
		}
		return domain.Unreadable(path, "not a valid DOCX (zip) container", err)
	}
	return domain.Unreadable(path, fmt.Sprintf("corrupt DOCX: %v", err), err)
}

// parseParagraphs collects the text of each w:p element. Paragraphs nested in
// text boxes are emitted before the paragraph that contains them.
func parseParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []*strings.Builder
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if len(stack) == 0 {
					continue
				}
				paragraphs = append(paragraphs, stack[len(stack)-1].String())
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if inText && len(stack) > 0 {
				stack[len(stack)-1].Write(el)
			}
		}
	}

	return paragraphs, nil
}
