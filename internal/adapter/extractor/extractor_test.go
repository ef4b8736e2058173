package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsum/internal/domain"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertUnreadable(t *testing.T, err error, wantReason string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var unreadable *domain.UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected *domain.UnreadableError, got %T: %v", err, err)
	}
	if !strings.Contains(unreadable.Reason, wantReason) {
		t.Errorf("expected reason containing %q, got %q", wantReason, unreadable.Reason)
	}
}

func TestTextExtractor(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("\xEF\xBB\xBFhello\nworld"))

	text, err := NewTextExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello\nworld" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestTextExtractorInvalidUTF8(t *testing.T) {
	path := writeFile(t, "latin1.txt", []byte{'c', 'a', 'f', 0xE9, ' ', 0xFF})

	_, err := NewTextExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "UTF-8")
}

func TestTextExtractorMissingFile(t *testing.T) {
	_, err := NewTextExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assertUnreadable(t, err, "does not exist")
}

func TestTextExtractorPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	path := writeFile(t, "secret.txt", []byte("hidden"))
	if err := os.Chmod(path, 0); err != nil {
		t.Fatal(err)
	}

	_, err := NewTextExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "permission denied")
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`<?xml version="1.0"?><Types/>`)); err != nil {
		t.Fatal(err)
	}
	if documentXML != "" {
		w, err = zw.Create(documentPart)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(documentXML)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDOCXExtractor(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> report</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:p></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t><w:tab/><w:t>value</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
    <w:p><w:r><w:t>Action: ship it</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeFile(t, "report.docx", buildDOCX(t, documentXML))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Quarterly report\nCell\tvalue\nAction: ship it"
	if text != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", text, want)
	}
}

func TestDOCXExtractorMissingDocumentPart(t *testing.T) {
	path := writeFile(t, "empty.docx", buildDOCX(t, ""))

	_, err := NewDOCXExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "missing word/document.xml")
}

func TestDOCXExtractorNotZip(t *testing.T) {
	path := writeFile(t, "fake.docx", []byte("this is not a zip archive at all"))

	_, err := NewDOCXExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "not a valid DOCX")
}

func TestDOCXExtractorEncrypted(t *testing.T) {
	data := append(append([]byte{}, oleSignature...), make([]byte, 512)...)
	path := writeFile(t, "locked.docx", data)

	_, err := NewDOCXExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "password protected")
}

// buildEncryptedPDF writes a minimal PDF whose trailer declares standard
// security with a user password, so the empty password is rejected.
func buildEncryptedPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 3)
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")

	xref := buf.Len()
	buf.WriteString("xref\n0 3\n")
	buf.WriteString("0000000000 65535 f \n")
	fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[1])
	fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[2])

	o := strings.Repeat("AB", 32)
	u := strings.Repeat("CD", 32)
	id := strings.Repeat("01", 16)
	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size 3 /Root 1 0 R /Encrypt << /Filter /Standard /V 1 /R 2 /Length 40 /P -4 /O <%s> /U <%s> >> /ID [<%s> <%s>] >>\n", o, u, id, id)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

// buildPDF writes an uncompressed PDF with one page per entry. An empty entry
// becomes a page with no content stream.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 font, then a page object and a content
	// stream per page.
	n := 3 + 2*len(pages)
	offsets := make([]int, n+1)
	obj := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		pageID, contentID := 4+2*i, 5+2*i
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if text != "" {
			page += fmt.Sprintf(" /Contents %d 0 R", contentID)
		}
		obj(pageID, page+" >>")

		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", n+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= n; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", n+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

func pdfLines(t *testing.T, text string) []string {
	t.Helper()
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

func TestPDFExtractorJoinsPages(t *testing.T) {
	path := writeFile(t, "doc.pdf", buildPDF([]string{"Hello page one", "Third page"}))

	text, err := NewPDFExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Hello page one", "Third page"}
	got := pdfLines(t, text)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected pages %q, got %q", want, got)
	}
}

func TestPDFExtractorBlankPage(t *testing.T) {
	path := writeFile(t, "doc.pdf", buildPDF([]string{"Hello page one", "", "Third page"}))

	text, err := NewPDFExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("a page without content must not fail the document: %v", err)
	}

	want := []string{"Hello page one", "", "Third page"}
	got := pdfLines(t, text)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected pages %q, got %q", want, got)
	}
}

func TestPDFExtractorPasswordProtected(t *testing.T) {
	path := writeFile(t, "locked.pdf", buildEncryptedPDF())

	_, err := NewPDFExtractor().Extract(context.Background(), path)
	assertUnreadable(t, err, "password protected")
	if !strings.Contains(err.Error(), "password protected") {
		t.Errorf("expected message to mention password protection, got %q", err.Error())
	}
}

func TestPDFExtractorCorrupt(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("definitely not a pdf"))

	_, err := NewPDFExtractor().Extract(context.Background(), path)
	if !domain.IsUnreadable(err) {
		t.Fatalf("expected unreadable error, got %v", err)
	}
}

func TestPDFExtractorMissingFile(t *testing.T) {
	_, err := NewPDFExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	assertUnreadable(t, err, "does not exist")
}

func TestRegistryDispatch(t *testing.T) {
	reg := Default()

	want := []string{".docx", ".pdf", ".txt"}
	got := reg.Extensions()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}

	path := writeFile(t, "UPPER.TXT", []byte("case insensitive"))
	text, err := reg.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "case insensitive" {
		t.Errorf("unexpected text: %q", text)
	}

	_, err = reg.Extract(context.Background(), "slides.pptx")
	if !errors.Is(err, domain.ErrUnsupportedExtension) {
		t.Errorf("expected ErrUnsupportedExtension, got %v", err)
	}
}
