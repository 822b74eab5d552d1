package llm

import (
	_ "embed"
	"strings"

	"docanalyzer-backend/internal/doctype"
)

var (
	//go:embed prompts/classification_system.txt
	classificationSystem string
	//go:embed prompts/classification_user.txt
	classificationUser string
	//go:embed prompts/contract_extraction_system.txt
	contractExtractionSystem string
	//go:embed prompts/invoice_extraction_system.txt
	invoiceExtractionSystem string
	//go:embed prompts/earnings_report_extraction_system.txt
	earningsExtractionSystem string
	//go:embed prompts/extraction_user.txt
	extractionUser string
)

const contentPlaceholder = "{DOCUMENT_CONTENT}"

// Classification looks at the head of the document only; extraction gets a
// larger window because line items and terms appear late in the text.
const (
	classificationMaxChars = 2000
	extractionMaxChars     = 8000
)

// Message is one chat turn sent to a provider.
type Message struct {
	Role    string
	Content string
}

// ClassificationMessages renders the classification prompt for the given text.
func ClassificationMessages(text string) []Message {
	return []Message{
		{Role: "system", Content: classificationSystem},
		{Role: "user", Content: strings.ReplaceAll(classificationUser, contentPlaceholder, truncate(text, classificationMaxChars))},
	}
}

// ExtractionMessages renders the extraction prompt for the given type.
// The second return is false when the type has no extraction template.
func ExtractionMessages(t doctype.Type, text string) ([]Message, bool) {
	var system string
	switch t {
	case doctype.Contract:
		system = contractExtractionSystem
	case doctype.Invoice:
		system = invoiceExtractionSystem
	case doctype.EarningsReport:
		system = earningsExtractionSystem
	default:
		return nil, false
	}
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: strings.ReplaceAll(extractionUser, contentPlaceholder, truncate(text, extractionMaxChars))},
	}, true
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
