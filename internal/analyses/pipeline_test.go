package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/resilience"
)

type fakeClassifier struct {
	mu     sync.Mutex
	calls  int
	result llm.ClassificationResult
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (llm.ClassificationResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result, f.err
}

type fakeExtractor struct {
	result llm.ExtractionResult
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string, t doctype.Type) (llm.ExtractionResult, error) {
	return f.result, f.err
}

type fakeStore struct {
	mu      sync.Mutex
	records []*Record
	err     error
}

func (f *fakeStore) Store(ctx context.Context, rec *Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.DocumentID = fmt.Sprintf("00000000-0000-4000-8000-%012d", len(f.records)+1)
	rec.StoredAt = time.Now().UTC()
	f.records = append(f.records, rec)
	return rec.DocumentID, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.DocumentID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) List(ctx context.Context) ([]Summary, error) { return []Summary{}, nil }
func (f *fakeStore) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}
func (f *fakeStore) Stats(ctx context.Context) (Stats, error) { return Stats{}, nil }

func newTestPipeline(c llm.Classifier, e llm.Extractor, store Store) *Pipeline {
	p := NewPipeline(c, e, store, nil, nil, 2)
	p.extractText = func(ctx context.Context, path string) (string, error) {
		return "Invoice from Acme Corp. Total: 250.00 USD. Due 2024-03-01. Status: PAID.", nil
	}
	return p
}

func TestProcessSingleInvoiceFlow(t *testing.T) {
	classifier := &fakeClassifier{result: llm.ClassificationResult{
		Type:          "invoice",
		Confidence:    0.92,
		Justification: "mentions invoice total and due date",
	}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{
		Fields: map[string]any{
			"vendor":     "Acme Corp",
			"amount":     250.0,
			"due_date":   "2024-03-01",
			"status":     "PAID",
			"line_items": []any{},
		},
		Method: llm.MethodLLM,
	}}
	store := &fakeStore{}

	rec, err := newTestPipeline(classifier, extractor, store).ProcessSingle(context.Background(), "/tmp/doc.pdf", "invoice-march.pdf")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.DocumentID == "" {
		t.Fatal("expected record to be stored with an id")
	}
	if rec.Classification.Type != doctype.Invoice || rec.Classification.Confidence != 0.92 {
		t.Fatalf("unexpected classification: %+v", rec.Classification)
	}
	inv := rec.Metadata.Invoice
	if inv == nil {
		t.Fatal("expected invoice metadata")
	}
	if inv.Vendor != "Acme Corp" || inv.Amount.Value != 250 || inv.Status != "PAID" {
		t.Fatalf("unexpected metadata: %+v", inv)
	}
	// Extractor omitted currency: sentinel plus a recorded error, not a failure.
	if inv.Currency != doctype.SentinelUnknown {
		t.Fatalf("expected sentinel currency, got %q", inv.Currency)
	}
	joined := strings.Join(rec.ProcessingInfo.Errors, "\n")
	if !strings.Contains(joined, "currency") {
		t.Fatalf("expected currency error, got %v", rec.ProcessingInfo.Errors)
	}
	if rec.ProcessingInfo.ExtractionMethod != llm.MethodLLM {
		t.Fatalf("expected llm extraction method, got %q", rec.ProcessingInfo.ExtractionMethod)
	}
}

func TestProcessSingleClassificationFailureStillStores(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("provider http status 500")}
	store := &fakeStore{}

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		BreakerEnabled:      false,
	})
	p := newTestPipeline(classifier, &fakeExtractor{}, store)
	p.exec = exec

	rec, err := p.ProcessSingle(context.Background(), "/tmp/doc.pdf", "mystery.pdf")
	if err != nil {
		t.Fatalf("storage must still succeed, got %v", err)
	}
	if classifier.calls != 3 {
		t.Fatalf("expected 3 classification attempts, got %d", classifier.calls)
	}
	if rec.Classification.Type != doctype.Unknown || rec.Classification.Confidence != 0 {
		t.Fatalf("expected unknown/0 classification, got %+v", rec.Classification)
	}
	if !rec.Metadata.IsZero() {
		t.Fatalf("expected no metadata for unknown type, got %+v", rec.Metadata)
	}
	joined := strings.Join(rec.ProcessingInfo.Errors, "\n")
	if !strings.Contains(joined, "classification failed") {
		t.Fatalf("expected classification error, got %v", rec.ProcessingInfo.Errors)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected record to be stored, got %d", len(store.records))
	}
}

func TestProcessSingleClampsConfidence(t *testing.T) {
	classifier := &fakeClassifier{result: llm.ClassificationResult{Type: "contract", Confidence: 92}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{Fields: map[string]any{}, Method: llm.MethodLLM}}

	rec, err := newTestPipeline(classifier, extractor, &fakeStore{}).ProcessSingle(context.Background(), "/tmp/doc.pdf", "a.pdf")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Classification.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", rec.Classification.Confidence)
	}
	joined := strings.Join(rec.ProcessingInfo.Errors, "\n")
	if !strings.Contains(joined, "out of range") {
		t.Fatalf("expected clamp error, got %v", rec.ProcessingInfo.Errors)
	}
}

func TestProcessSingleTextExtractionFailure(t *testing.T) {
	classifier := &fakeClassifier{result: llm.ClassificationResult{Type: "invoice", Confidence: 0.9}}
	p := newTestPipeline(classifier, &fakeExtractor{}, &fakeStore{})
	p.extractText = func(ctx context.Context, path string) (string, error) {
		return "", errors.New("document contains no extractable text")
	}

	rec, err := p.ProcessSingle(context.Background(), "/tmp/empty.pdf", "empty.pdf")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if classifier.calls != 0 {
		t.Fatal("classifier must not run without text")
	}
	if rec.Classification.Type != doctype.Unknown {
		t.Fatalf("expected unknown type, got %s", rec.Classification.Type)
	}
	joined := strings.Join(rec.ProcessingInfo.Errors, "\n")
	if !strings.Contains(joined, "text extraction failed") {
		t.Fatalf("expected extraction error, got %v", rec.ProcessingInfo.Errors)
	}
}

func TestProcessSingleStoreFailure(t *testing.T) {
	classifier := &fakeClassifier{result: llm.ClassificationResult{Type: "invoice", Confidence: 0.9}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{Fields: map[string]any{}, Method: llm.MethodLLM}}
	store := &fakeStore{err: errors.New("disk full")}

	_, err := newTestPipeline(classifier, extractor, store).ProcessSingle(context.Background(), "/tmp/doc.pdf", "a.pdf")
	if err == nil || !strings.Contains(err.Error(), "store analysis") {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestProcessBatchKeepsInputOrder(t *testing.T) {
	classifier := &fakeClassifier{result: llm.ClassificationResult{Type: "invoice", Confidence: 0.9}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{Fields: map[string]any{}, Method: llm.MethodLLM}}
	store := &fakeStore{}

	paths := []string{"/tmp/a.pdf", "/tmp/b.pdf", "/tmp/c.pdf", "/tmp/d.pdf"}
	results := newTestPipeline(classifier, extractor, store).ProcessBatch(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("position %d: expected %s, got %s", i, paths[i], res.Path)
		}
		if res.Record == nil || res.Error != "" {
			t.Fatalf("position %d: unexpected result %+v", i, res)
		}
	}
	if len(store.records) != len(paths) {
		t.Fatalf("expected %d stored records, got %d", len(paths), len(store.records))
	}
}
