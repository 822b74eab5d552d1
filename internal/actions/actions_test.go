package actions

import (
	"testing"
	"time"

	"docanalyzer-backend/internal/doctype"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestForTypeInvoiceCatalog(t *testing.T) {
	got := ForType(doctype.Invoice, now)
	if len(got) != 4 {
		t.Fatalf("expected 4 invoice actions, got %d", len(got))
	}

	first := got[0]
	if first.Title != "Verify Invoice Details" || first.Priority != "high" {
		t.Fatalf("unexpected first action: %+v", first)
	}
	if first.Deadline != "2026-03-04" {
		t.Fatalf("expected deadline 3 days out, got %s", first.Deadline)
	}
	if got[3].Title != "File for Records" || got[3].Deadline != "2026-03-11" {
		t.Fatalf("unexpected last action: %+v", got[3])
	}
	for _, a := range got {
		if a.Status != StatusPending {
			t.Fatalf("expected pending status, got %q", a.Status)
		}
		if a.ActionID == "" {
			t.Fatal("expected action id")
		}
	}
}

func TestForTypeEarningsReportHasFiveActions(t *testing.T) {
	got := ForType(doctype.EarningsReport, now)
	if len(got) != 5 {
		t.Fatalf("expected 5 actions, got %d", len(got))
	}
	if got[2].Title != "Board Presentation" || got[2].Deadline != "2026-03-15" {
		t.Fatalf("unexpected action: %+v", got[2])
	}
}

func TestForTypeUnknownFallback(t *testing.T) {
	unknown := ForType(doctype.Unknown, now)
	if len(unknown) != 2 || unknown[0].Title != "Document Review" {
		t.Fatalf("unexpected unknown actions: %+v", unknown)
	}

	// Unrecognized values degrade to the unknown catalog.
	odd := ForType(doctype.Type("receipt"), now)
	if len(odd) != 2 || odd[1].Title != "Classification Review" {
		t.Fatalf("unexpected fallback actions: %+v", odd)
	}
}

func TestForTypeMintsFreshIDs(t *testing.T) {
	a := ForType(doctype.Contract, now)
	b := ForType(doctype.Contract, now)
	if a[0].ActionID == b[0].ActionID {
		t.Fatal("expected distinct action ids per generation")
	}
}
