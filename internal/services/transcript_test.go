package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractTXT(t *testing.T) {
	extractor := NewTranscriptExtractor()

	got, err := extractor.Extract("lecture.txt", []byte("Hello\r\nworld\r\n\r\n\r\n\r\nagain  \n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "Hello\nworld\n\nagain"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractTXTEmpty(t *testing.T) {
	extractor := NewTranscriptExtractor()
	if _, err := extractor.Extract("empty.txt", []byte("  \n\n  ")); err == nil {
		t.Error("Expected error for empty transcript")
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	extractor := NewTranscriptExtractor()
	if _, err := extractor.Extract("slides.pptx", []byte("x")); err == nil {
		t.Error("Expected error for unsupported file type")
	}
}

func TestExtractDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0"?>` +
		`<w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph &amp; more</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second</w:t><w:br/><w:t>line</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	buf := bytes.Buffer{}
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to build docx: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("Failed to build docx: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to build docx: %v", err)
	}

	got, err := NewTranscriptExtractor().Extract("notes.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "First paragraph & more") {
		t.Errorf("Expected first paragraph in %q", got)
	}
	if !strings.Contains(got, "Second\nline") {
		t.Errorf("Expected break to become a newline in %q", got)
	}
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	buf := bytes.Buffer{}
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<w:styles/>"))
	zw.Close()

	if _, err := NewTranscriptExtractor().Extract("notes.docx", buf.Bytes()); err == nil {
		t.Error("Expected error when document.xml is missing")
	}
}

func TestStripDOCXML(t *testing.T) {
	got := stripDOCXML([]byte(`<w:p><w:r><w:t>a &lt;b&gt; &quot;c&quot;</w:t></w:r></w:p>`))
	want := "a <b> \"c\"\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
