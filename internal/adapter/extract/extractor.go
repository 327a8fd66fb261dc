package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"studyrag/internal/domain"
)

// Extractor converts raw document bytes into plain text. PDF documents are
// parsed page by page; everything else is treated as UTF-8 text with invalid
// bytes dropped.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(key string, data []byte) (domain.Extraction, error) {
	if strings.HasSuffix(strings.ToLower(key), ".pdf") {
		return extractPDF(data)
	}

	return domain.Extraction{
		Text: strings.ToValidUTF8(string(data), ""),
	}, nil
}

// extractPDF concatenates per-page text with newline separators. A page that
// fails to extract contributes an empty string and is counted in
// SkippedPages instead of aborting the document.
func extractPDF(data []byte) (domain.Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	skipped := 0

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			skipped++
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			skipped++
			continue
		}
		pages = append(pages, text)
	}

	return domain.Extraction{
		Text:         strings.Join(pages, "\n"),
		SkippedPages: skipped,
	}, nil
}
