package doctype

import "strings"

// Type is the closed set of document categories the analyzer understands.
type Type string

const (
	Contract       Type = "contract"
	Invoice        Type = "invoice"
	EarningsReport Type = "earnings_report"
	Unknown        Type = "unknown"
)

// SentinelUnknown fills metadata fields the extractor did not return.
const SentinelUnknown = "unknown"

// Supported returns every type in declaration order.
func Supported() []Type {
	return []Type{Contract, Invoice, EarningsReport, Unknown}
}

// Parse maps a free-form classifier label onto the closed type set.
// Unrecognized labels map to Unknown.
func Parse(label string) Type {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "contract":
		return Contract
	case "invoice":
		return Invoice
	// Earlier classifier prompts labeled earnings reports "financial" or
	// "business report"; accept those spellings too.
	case "earnings_report", "earnings report", "financial", "business report":
		return EarningsReport
	default:
		return Unknown
	}
}

// Known reports whether t names a concrete document category.
func (t Type) Known() bool {
	switch t {
	case Contract, Invoice, EarningsReport:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }
