package llm

import (
	"context"

	"docanalyzer-backend/internal/doctype"
)

// Extraction methods recorded in processing info.
const (
	MethodLLM    = "llm"
	MethodRule   = "rule"
	MethodHybrid = "hybrid"
)

// Alternative is a lower-ranked classification candidate.
type Alternative struct {
	Type       string  `json:"document_type"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult is the classifier's verdict for one document.
// Type carries the provider's raw label; callers map it onto the closed
// doctype set.
type ClassificationResult struct {
	Type          string
	Confidence    float64
	Justification string
	Alternatives  []Alternative
}

// ExtractionResult carries the raw metadata object a backend produced,
// before schema validation and sentinel filling.
type ExtractionResult struct {
	Fields map[string]any
	Method string
	Errors []string
}

// Classifier assigns a document type to extracted text.
type Classifier interface {
	Classify(ctx context.Context, text string) (ClassificationResult, error)
}

// Extractor pulls type-specific metadata out of extracted text.
type Extractor interface {
	Extract(ctx context.Context, text string, t doctype.Type) (ExtractionResult, error)
}
