package doctype

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMapsCommonLabels(t *testing.T) {
	cases := map[string]Type{
		"contract":        Contract,
		"Invoice":         Invoice,
		"earnings_report": EarningsReport,
		"earnings report": EarningsReport,
		"financial":       EarningsReport,
		"business report": EarningsReport,
		"memo":            Unknown,
		"":                Unknown,
	}
	for label, want := range cases {
		if got := Parse(label); got != want {
			t.Fatalf("Parse(%q): expected %s, got %s", label, want, got)
		}
	}
}

func TestKnownExcludesUnknown(t *testing.T) {
	if Unknown.Known() {
		t.Fatal("unknown type must not be known")
	}
	for _, typ := range []Type{Contract, Invoice, EarningsReport} {
		if !typ.Known() {
			t.Fatalf("expected %s to be known", typ)
		}
	}
}

func TestNumberMarshalsSentinelWhenUnknown(t *testing.T) {
	got, err := json.Marshal(Number{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `"unknown"` {
		t.Fatalf("expected sentinel, got %s", got)
	}

	got, err = json.Marshal(KnownNumber(250))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != "250" {
		t.Fatalf("expected 250, got %s", got)
	}
}

func TestNumberUnmarshalRoundTrip(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte("99.5"), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !n.Known || n.Value != 99.5 {
		t.Fatalf("expected known 99.5, got %+v", n)
	}

	if err := json.Unmarshal([]byte(`"unknown"`), &n); err != nil {
		t.Fatalf("unmarshal sentinel: %v", err)
	}
	if n.Known {
		t.Fatalf("expected unknown number, got %+v", n)
	}
}

func TestNormalizeInvoiceFillsMissingCurrency(t *testing.T) {
	fields := map[string]any{
		"vendor":     "Acme Corp",
		"amount":     250.0,
		"due_date":   "2024-03-01",
		"status":     "PAID",
		"line_items": []any{},
	}

	meta, errs := Normalize(Invoice, fields)
	inv := meta.Invoice
	if inv == nil {
		t.Fatal("expected invoice metadata")
	}
	if inv.Currency != SentinelUnknown {
		t.Fatalf("expected sentinel currency, got %q", inv.Currency)
	}
	if inv.Vendor != "Acme Corp" || !inv.Amount.Known || inv.Amount.Value != 250 {
		t.Fatalf("unexpected metadata: %+v", inv)
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "currency") {
		t.Fatalf("expected one currency error, got %v", errs)
	}
}

func TestNormalizeInvoiceRejectsBogusStatus(t *testing.T) {
	fields := map[string]any{
		"vendor":     "Acme Corp",
		"amount":     10.0,
		"currency":   "USD",
		"due_date":   "2024-03-01",
		"status":     "maybe paid",
		"line_items": []any{},
	}

	meta, errs := Normalize(Invoice, fields)
	if meta.Invoice.Status != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN status, got %q", meta.Invoice.Status)
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e, "status") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a status error, got %v", errs)
	}
}

func TestNormalizeContractLegacyPartiesList(t *testing.T) {
	fields := map[string]any{
		"effective_date":   "2024-01-01",
		"termination_date": "2025-01-01",
		"parties":          []any{"Acme Corp", "Globex"},
		"key_terms":        []any{"net 30"},
	}

	meta, errs := Normalize(Contract, fields)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	parties := meta.Contract.Parties
	if len(parties) != 2 || parties["Acme Corp"] != SentinelUnknown {
		t.Fatalf("unexpected parties: %v", parties)
	}
}

func TestNormalizeEmptyFieldsUsesAllSentinels(t *testing.T) {
	meta, errs := Normalize(EarningsReport, nil)
	er := meta.Earnings
	if er == nil {
		t.Fatal("expected earnings metadata")
	}
	if er.CompanyName != SentinelUnknown || er.ReportingPeriod != SentinelUnknown || er.ExecutiveSummary != SentinelUnknown {
		t.Fatalf("expected sentinels, got %+v", er)
	}
	if len(er.KeyMetrics) != 0 {
		t.Fatalf("expected empty key metrics, got %v", er.KeyMetrics)
	}
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %v", errs)
	}
}

func TestValidateFieldsFlagsMissingKeys(t *testing.T) {
	err := ValidateFields(Invoice, map[string]any{"vendor": "Acme Corp"})
	if err == nil {
		t.Fatal("expected validation error for missing keys")
	}

	full := map[string]any{
		"vendor":     "Acme Corp",
		"amount":     250.0,
		"currency":   "USD",
		"due_date":   "2024-03-01",
		"status":     "PAID",
		"line_items": []any{},
	}
	if err := ValidateFields(Invoice, full); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}
}

func TestDecodeMetadataByType(t *testing.T) {
	raw := []byte(`{"vendor":"Acme Corp","amount":250,"currency":"USD","due_date":"2024-03-01","status":"PAID","line_items":[]}`)
	meta, err := DecodeMetadata(Invoice, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Invoice == nil || meta.Invoice.Vendor != "Acme Corp" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	meta, err = DecodeMetadata(Unknown, []byte(`{}`))
	if err != nil {
		t.Fatalf("decode unknown: %v", err)
	}
	if !meta.IsZero() {
		t.Fatalf("expected empty metadata for unknown type, got %+v", meta)
	}
}
