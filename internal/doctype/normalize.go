package doctype

import (
	"fmt"
	"strings"
)

// Normalize coerces raw extractor output into the typed variant for t.
// Every field the type defines is present afterwards; absent or malformed
// fields are filled with the "unknown" sentinel and reported in the returned
// error list. Keys outside the type's field set are dropped.
func Normalize(t Type, fields map[string]any) (Metadata, []string) {
	switch t {
	case Contract:
		return normalizeContract(fields)
	case Invoice:
		return normalizeInvoice(fields)
	case EarningsReport:
		return normalizeEarnings(fields)
	default:
		return Metadata{}, nil
	}
}

func normalizeContract(fields map[string]any) (Metadata, []string) {
	var errs []string
	meta := ContractMetadata{
		EffectiveDate:   stringField(fields, "effective_date", Contract, &errs),
		TerminationDate: stringField(fields, "termination_date", Contract, &errs),
		Parties:         map[string]string{},
		KeyTerms:        []string{},
	}

	if raw, ok := fields["parties"]; ok {
		switch v := raw.(type) {
		case map[string]any:
			for name, role := range v {
				if s, ok := role.(string); ok {
					meta.Parties[name] = s
				} else {
					meta.Parties[name] = SentinelUnknown
					errs = append(errs, fmt.Sprintf("contract metadata: party %q has non-string role, using %q", name, SentinelUnknown))
				}
			}
		case []any:
			// Older prompt versions returned parties as a flat list of names.
			for _, item := range v {
				if s, ok := item.(string); ok {
					meta.Parties[s] = SentinelUnknown
				}
			}
		default:
			errs = append(errs, fmt.Sprintf("contract metadata: malformed field %q, using empty mapping", "parties"))
		}
	} else {
		errs = append(errs, missingField(Contract, "parties"))
	}

	if raw, ok := fields["key_terms"]; ok {
		if list, ok := raw.([]any); ok {
			for _, item := range list {
				if s, ok := item.(string); ok {
					meta.KeyTerms = append(meta.KeyTerms, s)
				}
			}
		} else {
			errs = append(errs, fmt.Sprintf("contract metadata: malformed field %q, using empty list", "key_terms"))
		}
	} else {
		errs = append(errs, missingField(Contract, "key_terms"))
	}

	return Metadata{Contract: &meta}, errs
}

func normalizeInvoice(fields map[string]any) (Metadata, []string) {
	var errs []string
	meta := InvoiceMetadata{
		Vendor:    stringField(fields, "vendor", Invoice, &errs),
		Amount:    numberField(fields, "amount", Invoice, &errs),
		Currency:  stringField(fields, "currency", Invoice, &errs),
		DueDate:   stringField(fields, "due_date", Invoice, &errs),
		LineItems: []LineItem{},
	}

	status := strings.ToUpper(strings.TrimSpace(stringField(fields, "status", Invoice, &errs)))
	if !validInvoiceStatus(status) {
		if status != strings.ToUpper(SentinelUnknown) {
			errs = append(errs, fmt.Sprintf("invoice metadata: status %q outside allowed set, using UNKNOWN", status))
		}
		status = "UNKNOWN"
	}
	meta.Status = status

	if raw, ok := fields["line_items"]; ok {
		if list, ok := raw.([]any); ok {
			for i, item := range list {
				entry, ok := item.(map[string]any)
				if !ok {
					errs = append(errs, fmt.Sprintf("invoice metadata: line item %d is not an object, dropped", i))
					continue
				}
				var itemErrs []string
				line := LineItem{
					Description: stringField(entry, "description", Invoice, &itemErrs),
					Quantity:    numberField(entry, "quantity", Invoice, &itemErrs),
					UnitPrice:   numberField(entry, "unit_price", Invoice, &itemErrs),
					TotalPrice:  numberField(entry, "total_price", Invoice, &itemErrs),
				}
				// Legacy prompt shape: {description, amount}.
				if !line.TotalPrice.Known {
					if amount, ok := entry["amount"].(float64); ok {
						line.TotalPrice = KnownNumber(amount)
					}
				}
				meta.LineItems = append(meta.LineItems, line)
			}
		} else {
			errs = append(errs, fmt.Sprintf("invoice metadata: malformed field %q, using empty list", "line_items"))
		}
	} else {
		errs = append(errs, missingField(Invoice, "line_items"))
	}

	return Metadata{Invoice: &meta}, errs
}

func normalizeEarnings(fields map[string]any) (Metadata, []string) {
	var errs []string
	meta := EarningsReportMetadata{
		CompanyName:      stringField(fields, "company_name", EarningsReport, &errs),
		ReportingPeriod:  stringField(fields, "reporting_period", EarningsReport, &errs),
		KeyMetrics:       map[string]any{},
		ExecutiveSummary: stringField(fields, "executive_summary", EarningsReport, &errs),
	}

	if raw, ok := fields["key_metrics"]; ok {
		switch v := raw.(type) {
		case map[string]any:
			meta.KeyMetrics = v
		case []any:
			// Legacy prompt shape: free-text list of metrics.
			for i, item := range v {
				if s, ok := item.(string); ok {
					meta.KeyMetrics[fmt.Sprintf("metric_%d", i+1)] = s
				}
			}
		default:
			errs = append(errs, fmt.Sprintf("earnings_report metadata: malformed field %q, using empty mapping", "key_metrics"))
		}
	} else {
		errs = append(errs, missingField(EarningsReport, "key_metrics"))
	}

	return Metadata{Earnings: &meta}, errs
}

func stringField(fields map[string]any, key string, t Type, errs *[]string) string {
	raw, ok := fields[key]
	if !ok {
		*errs = append(*errs, missingField(t, key))
		return SentinelUnknown
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		*errs = append(*errs, fmt.Sprintf("%s metadata: malformed field %q, using %q", t, key, SentinelUnknown))
		return SentinelUnknown
	}
	return strings.TrimSpace(s)
}

func numberField(fields map[string]any, key string, t Type, errs *[]string) Number {
	raw, ok := fields[key]
	if !ok {
		*errs = append(*errs, missingField(t, key))
		return Number{}
	}
	switch v := raw.(type) {
	case float64:
		return KnownNumber(v)
	case int:
		return KnownNumber(float64(v))
	default:
		*errs = append(*errs, fmt.Sprintf("%s metadata: malformed field %q, using %q", t, key, SentinelUnknown))
		return Number{}
	}
}

func missingField(t Type, key string) string {
	return fmt.Sprintf("%s metadata: missing field %q, using %q", t, key, SentinelUnknown)
}

func validInvoiceStatus(s string) bool {
	for _, status := range InvoiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}
