package rule

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/llm"
)

// Extractor is a pattern-based fallback for environments without an LLM
// provider. It fills what the patterns can reach; validation downstream
// fills the rest with sentinels.
type Extractor struct{}

var (
	amountPattern   = regexp.MustCompile(`(?i)(?:total|amount due|grand total)\s*[:\s]\s*([\d,]+(?:\.\d+)?)\s*([A-Z]{3})?`)
	currencyPattern = regexp.MustCompile(`\b(USD|EUR|GBP|CAD|AUD|JPY)\b`)
	datePattern     = regexp.MustCompile(`(?i)(?:due|due date)\s*[:\s]\s*(\d{4}-\d{2}-\d{2})`)
	statusPattern   = regexp.MustCompile(`(?i)status\s*[:\s]\s*(PAID|UNPAID|PARTIALLY_PAID|OVERDUE)`)
	vendorPattern   = regexp.MustCompile(`(?im)^(?:from|vendor|billed by)\s*[:\s]\s*(.+)$`)
	periodPattern   = regexp.MustCompile(`(?i)\b(Q[1-4]\s*\d{4}|FY\s*\d{4})\b`)
	isoDatePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

func (Extractor) Extract(ctx context.Context, text string, t doctype.Type) (llm.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return llm.ExtractionResult{}, err
	}

	fields := map[string]any{}
	switch t {
	case doctype.Invoice:
		if m := vendorPattern.FindStringSubmatch(text); m != nil {
			fields["vendor"] = strings.TrimSpace(m[1])
		}
		if m := amountPattern.FindStringSubmatch(text); m != nil {
			if amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				fields["amount"] = amount
			}
			if m[2] != "" {
				fields["currency"] = m[2]
			}
		}
		if _, ok := fields["currency"]; !ok {
			if m := currencyPattern.FindString(text); m != "" {
				fields["currency"] = m
			}
		}
		if m := datePattern.FindStringSubmatch(text); m != nil {
			fields["due_date"] = m[1]
		}
		if m := statusPattern.FindStringSubmatch(text); m != nil {
			fields["status"] = strings.ToUpper(m[1])
		}
	case doctype.Contract:
		dates := isoDatePattern.FindAllString(text, 2)
		if len(dates) > 0 {
			fields["effective_date"] = dates[0]
		}
		if len(dates) > 1 {
			fields["termination_date"] = dates[1]
		}
	case doctype.EarningsReport:
		if m := periodPattern.FindString(text); m != "" {
			fields["reporting_period"] = m
		}
	}

	return llm.ExtractionResult{Fields: fields, Method: llm.MethodRule}, nil
}

var _ llm.Extractor = Extractor{}
