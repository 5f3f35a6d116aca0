package document

import (
	"errors"
	"testing"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		name, filename, declared string
		data                     []byte
		want                     string
	}{
		{"declared pdf", "resume.bin", "application/pdf", nil, MimePDF},
		{"declared with params", "r", "text/plain; charset=utf-8", nil, MimeText},
		{"docx by extension", "resume.DOCX", "application/octet-stream", nil, MimeDOCX},
		{"markdown by extension", "resume.md", "", nil, MimeText},
		{"sniffed text", "resume", "", []byte("Jane Doe\nGo engineer"), MimeText},
		{"sniffed pdf", "resume", "", []byte("%PDF-1.7\n"), MimePDF},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DetectType(c.filename, c.declared, c.data); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	got, err := ExtractText(MimeText, []byte("I am a software engineer."))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != "I am a software engineer." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := ExtractText("image/png", []byte{0x89, 'P', 'N', 'G'})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	if _, err := ExtractText(MimePDF, []byte("this is definitely not a pdf document")); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestWordXMLText(t *testing.T) {
	xmlDoc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := wordXMLText(xmlDoc)
	if err != nil {
		t.Fatalf("wordXMLText failed: %v", err)
	}
	if got != "Jane Doe\nSkills:\tGo" {
		t.Fatalf("unexpected text %q", got)
	}
}
