package rule

import (
	"context"
	"testing"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/llm"
)

const invoiceText = `INVOICE #2024-117
From: Acme Corp
Bill To: Globex Inc
Total: 1,250.00 USD
Due date: 2024-03-01
Status: PAID`

func TestClassifierScoresInvoice(t *testing.T) {
	got, err := Classifier{}.Classify(context.Background(), invoiceText)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Type != "invoice" {
		t.Fatalf("expected invoice, got %s", got.Type)
	}
	if got.Confidence <= 0 || got.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", got.Confidence)
	}
}

func TestClassifierUnknownForUnmatchedText(t *testing.T) {
	got, err := Classifier{}.Classify(context.Background(), "weekly grocery list: apples, milk, bread")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Type != "unknown" || got.Confidence != 0 {
		t.Fatalf("expected unknown/0, got %+v", got)
	}
}

func TestClassifierRanksDeterministically(t *testing.T) {
	// One keyword hit each for contract and invoice: equal scores must
	// resolve the same way on every run.
	text := "The agreement covers payment."
	for i := 0; i < 20; i++ {
		got, err := Classifier{}.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if got.Type != "contract" {
			t.Fatalf("run %d: expected contract to win the tie, got %s", i, got.Type)
		}
		if len(got.Alternatives) != 1 || got.Alternatives[0].Type != "invoice" {
			t.Fatalf("run %d: unexpected alternatives: %+v", i, got.Alternatives)
		}
	}
}

func TestClassifierAlternativesOrderedByScore(t *testing.T) {
	text := "This agreement between the parties sets the effective date. Invoice payment follows. Revenue grew."
	got, err := Classifier{}.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Type != "contract" {
		t.Fatalf("expected contract, got %s", got.Type)
	}
	for i := 1; i < len(got.Alternatives); i++ {
		if got.Alternatives[i-1].Confidence < got.Alternatives[i].Confidence {
			t.Fatalf("alternatives not ranked: %+v", got.Alternatives)
		}
	}
	if got.Confidence < got.Alternatives[0].Confidence {
		t.Fatalf("winner must outrank alternatives: %+v", got)
	}
}

func TestExtractorInvoiceFields(t *testing.T) {
	got, err := Extractor{}.Extract(context.Background(), invoiceText, doctype.Invoice)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Method != llm.MethodRule {
		t.Fatalf("expected rule method, got %q", got.Method)
	}
	if got.Fields["vendor"] != "Acme Corp" {
		t.Fatalf("expected vendor, got %v", got.Fields["vendor"])
	}
	if got.Fields["amount"] != 1250.0 {
		t.Fatalf("expected amount 1250, got %v", got.Fields["amount"])
	}
	if got.Fields["currency"] != "USD" || got.Fields["due_date"] != "2024-03-01" || got.Fields["status"] != "PAID" {
		t.Fatalf("unexpected fields: %v", got.Fields)
	}
}

func TestExtractorContractDates(t *testing.T) {
	text := "This agreement is effective 2024-01-15 and terminates 2025-01-14."
	got, err := Extractor{}.Extract(context.Background(), text, doctype.Contract)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Fields["effective_date"] != "2024-01-15" || got.Fields["termination_date"] != "2025-01-14" {
		t.Fatalf("unexpected fields: %v", got.Fields)
	}
}

func TestExtractorEarningsPeriod(t *testing.T) {
	got, err := Extractor{}.Extract(context.Background(), "Results for Q3 2025 exceeded guidance.", doctype.EarningsReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Fields["reporting_period"] != "Q3 2025" {
		t.Fatalf("unexpected fields: %v", got.Fields)
	}
}
