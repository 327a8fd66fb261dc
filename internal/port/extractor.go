package port

import "studyrag/internal/domain"

// Extractor turns raw document bytes into plain text. The key is used only
// for format sniffing.
type Extractor interface {
	Extract(key string, data []byte) (domain.Extraction, error)
}
