package doctype

import (
	"encoding/json"
	"fmt"
)

// Number is a numeric metadata field that degrades to the "unknown" sentinel.
// It marshals as a JSON number when known and as the sentinel string when not,
// so records never silently omit a field the schema requires.
type Number struct {
	Value float64
	Known bool
}

// KnownNumber wraps a concrete value.
func KnownNumber(v float64) Number {
	return Number{Value: v, Known: true}
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Known {
		return json.Marshal(SentinelUnknown)
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*n = Number{Value: v, Known: true}
		return nil
	}
	// Anything non-numeric (including the sentinel) reads back as unknown.
	*n = Number{}
	return nil
}

// ContractMetadata carries the field set for contracts.
type ContractMetadata struct {
	EffectiveDate   string            `json:"effective_date"`
	TerminationDate string            `json:"termination_date"`
	Parties         map[string]string `json:"parties"`
	KeyTerms        []string          `json:"key_terms"`
}

// LineItem is a single invoice line.
type LineItem struct {
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unit_price"`
	TotalPrice  Number `json:"total_price"`
}

// InvoiceStatus values accepted for the invoice "status" field.
var InvoiceStatuses = []string{"PAID", "UNPAID", "PARTIALLY_PAID", "OVERDUE", "UNKNOWN"}

// InvoiceMetadata carries the field set for invoices.
type InvoiceMetadata struct {
	Vendor    string     `json:"vendor"`
	Amount    Number     `json:"amount"`
	Currency  string     `json:"currency"`
	DueDate   string     `json:"due_date"`
	Status    string     `json:"status"`
	LineItems []LineItem `json:"line_items"`
}

// EarningsReportMetadata carries the field set for earnings reports.
type EarningsReportMetadata struct {
	CompanyName      string         `json:"company_name"`
	ReportingPeriod  string         `json:"reporting_period"`
	KeyMetrics       map[string]any `json:"key_metrics"`
	ExecutiveSummary string         `json:"executive_summary"`
}

// Metadata is a tagged union over the per-type field sets. At most one variant
// is set; an empty union (unknown type or failed extraction) marshals as {}.
type Metadata struct {
	Contract *ContractMetadata
	Invoice  *InvoiceMetadata
	Earnings *EarningsReportMetadata
}

// IsZero reports whether no variant is set.
func (m Metadata) IsZero() bool {
	return m.Contract == nil && m.Invoice == nil && m.Earnings == nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Contract != nil:
		return json.Marshal(m.Contract)
	case m.Invoice != nil:
		return json.Marshal(m.Invoice)
	case m.Earnings != nil:
		return json.Marshal(m.Earnings)
	default:
		return []byte("{}"), nil
	}
}

// DecodeMetadata reads a serialized metadata object back into the variant for
// the given type. Unknown types yield an empty union.
func DecodeMetadata(t Type, raw json.RawMessage) (Metadata, error) {
	if len(raw) == 0 {
		return Metadata{}, nil
	}
	switch t {
	case Contract:
		var v ContractMetadata
		if err := json.Unmarshal(raw, &v); err != nil {
			return Metadata{}, fmt.Errorf("decode contract metadata: %w", err)
		}
		return Metadata{Contract: &v}, nil
	case Invoice:
		var v InvoiceMetadata
		if err := json.Unmarshal(raw, &v); err != nil {
			return Metadata{}, fmt.Errorf("decode invoice metadata: %w", err)
		}
		return Metadata{Invoice: &v}, nil
	case EarningsReport:
		var v EarningsReportMetadata
		if err := json.Unmarshal(raw, &v); err != nil {
			return Metadata{}, fmt.Errorf("decode earnings report metadata: %w", err)
		}
		return Metadata{Earnings: &v}, nil
	default:
		return Metadata{}, nil
	}
}
