package extract

import (
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := New()

	extraction, err := e.Extract("notes.txt", []byte("The capital of India is New Delhi."))
	if err != nil {
		t.Fatal(err)
	}
	if extraction.Text != "The capital of India is New Delhi." {
		t.Errorf("unexpected text: %q", extraction.Text)
	}
	if extraction.SkippedPages != 0 {
		t.Errorf("plain text must not report skipped pages, got %d", extraction.SkippedPages)
	}
}

func TestExtractDropsInvalidUTF8(t *testing.T) {
	e := New()

	data := []byte("valid \xff\xfe text")
	extraction, err := e.Extract("notes.md", data)
	if err != nil {
		t.Fatal(err)
	}
	if extraction.Text != "valid  text" {
		t.Errorf("expected invalid bytes dropped, got %q", extraction.Text)
	}
}

func TestExtractUnknownExtensionAsText(t *testing.T) {
	e := New()

	extraction, err := e.Extract("data.bin", []byte("still treated as text"))
	if err != nil {
		t.Fatal(err)
	}
	if extraction.Text != "still treated as text" {
		t.Errorf("unexpected text: %q", extraction.Text)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	e := New()

	if _, err := e.Extract("broken.pdf", []byte("this is not a pdf")); err == nil {
		t.Error("expected error for unparsable pdf bytes")
	}
	if _, err := e.Extract("CASED.PDF", []byte("%PDF-garbage")); err == nil {
		t.Error("expected pdf path to apply regardless of extension case")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := New()

	extraction, err := e.Extract("empty.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if extraction.Text != "" {
		t.Errorf("expected empty text, got %q", extraction.Text)
	}
}

func TestExtractKeepsUnicodeText(t *testing.T) {
	e := New()

	input := "температура кипения воды 100 °C"
	extraction, err := e.Extract("notes.txt", []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(extraction.Text, "кипения") {
		t.Errorf("valid unicode was altered: %q", extraction.Text)
	}
}
