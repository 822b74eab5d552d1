package analyses

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/resilience"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/telemetry"
)

// Pipeline runs the full analysis chain: text extraction, classification,
// metadata extraction, validation, persistence. Every step short of
// persistence degrades gracefully; a record is always produced and stored,
// with failures accumulated in processing_info.errors. Only a storage failure
// is returned as an error.
type Pipeline struct {
	classifier llm.Classifier
	extractor  llm.Extractor
	store      Store
	exec       *resilience.Executor
	metrics    *metrics.Metrics
	maxConc    int

	extractText func(ctx context.Context, path string) (string, error)
	now         func() time.Time
}

func NewPipeline(
	classifier llm.Classifier,
	extractor llm.Extractor,
	store Store,
	exec *resilience.Executor,
	m *metrics.Metrics,
	maxConcurrency int,
) *Pipeline {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Pipeline{
		classifier:  classifier,
		extractor:   extractor,
		store:       store,
		exec:        exec,
		metrics:     m,
		maxConc:     maxConcurrency,
		extractText: extract.Text,
		now:         time.Now,
	}
}

// ProcessSingle analyzes one PDF and persists the resulting record. The
// returned record is always populated; the error is non-nil only when the
// record could not be stored.
func (p *Pipeline) ProcessSingle(ctx context.Context, path, originalName string) (*Record, error) {
	start := p.now()
	if p.metrics != nil {
		p.metrics.AnalysisStarted()
	}

	rec := &Record{
		Filename:         filepath.Base(path),
		OriginalFilename: originalName,
		Classification:   Classification{Type: doctype.Unknown},
		ProcessingInfo: ProcessingInfo{
			ExtractionMethod: llm.MethodLLM,
			Errors:           []string{},
		},
	}
	addErr := func(format string, args ...any) {
		rec.ProcessingInfo.Errors = append(rec.ProcessingInfo.Errors, fmt.Sprintf(format, args...))
	}

	text, err := p.extractText(ctx, path)
	if err != nil {
		addErr("text extraction failed: %v", err)
	} else {
		p.classify(ctx, text, rec, addErr)
		if rec.Classification.Type.Known() {
			p.extractMetadata(ctx, text, rec, addErr)
		}
	}

	rec.ProcessingInfo.ProcessingTimeSeconds = p.now().Sub(start).Seconds()

	id, err := p.store.Store(ctx, rec)
	if err != nil {
		if p.metrics != nil {
			p.metrics.AnalysisFailed()
		}
		return rec, fmt.Errorf("store analysis: %w", err)
	}
	rec.DocumentID = id

	duration := p.now().Sub(start)
	if p.metrics != nil {
		p.metrics.AnalysisCompleted(duration)
	}
	telemetry.Info("pipeline.complete", map[string]any{
		"documentId": rec.DocumentID,
		"type":       string(rec.Classification.Type),
		"durationMs": duration.Milliseconds(),
		"errors":     len(rec.ProcessingInfo.Errors),
	})
	return rec, nil
}

func (p *Pipeline) classify(ctx context.Context, text string, rec *Record, addErr func(string, ...any)) {
	var result llm.ClassificationResult
	err := p.run(ctx, "llm.classify", func(ctx context.Context) error {
		r, err := p.classifier.Classify(ctx, text)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		addErr("classification failed: %v", err)
		return
	}

	rec.Classification.Type = doctype.Parse(result.Type)
	rec.Classification.Justification = result.Justification
	rec.Classification.Alternatives = result.Alternatives

	confidence := result.Confidence
	if confidence < 0 || confidence > 1 {
		addErr("confidence %v out of range, clamped", confidence)
		if confidence < 0 {
			confidence = 0
		} else {
			confidence = 1
		}
	}
	rec.Classification.Confidence = confidence
}

func (p *Pipeline) extractMetadata(ctx context.Context, text string, rec *Record, addErr func(string, ...any)) {
	docType := rec.Classification.Type

	var result llm.ExtractionResult
	err := p.run(ctx, "llm.extract", func(ctx context.Context) error {
		r, err := p.extractor.Extract(ctx, text, docType)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		addErr("metadata extraction failed: %v", err)
	} else {
		if result.Method != "" {
			rec.ProcessingInfo.ExtractionMethod = result.Method
		}
		rec.ProcessingInfo.Errors = append(rec.ProcessingInfo.Errors, result.Errors...)
	}

	// Validation always runs so every schema key is present in the stored
	// metadata, with sentinels filling whatever the extractor missed.
	if err := doctype.ValidateFields(docType, result.Fields); err != nil {
		addErr("metadata validation: %v", err)
	}
	meta, normErrs := doctype.Normalize(docType, result.Fields)
	rec.ProcessingInfo.Errors = append(rec.ProcessingInfo.Errors, normErrs...)
	rec.Metadata = meta
}

func (p *Pipeline) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	if p.exec == nil {
		return fn(ctx)
	}
	return p.exec.Execute(ctx, operation, fn, llmErrorClassifier)
}

// BatchResult pairs an input path with its outcome. Record is nil only when
// Error is set.
type BatchResult struct {
	Path   string  `json:"path"`
	Record *Record `json:"record,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ProcessBatch analyzes the given paths with bounded concurrency. Results
// keep input order, and one failing document never aborts the rest.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))

	var g errgroup.Group
	g.SetLimit(p.maxConc)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rec, err := p.ProcessSingle(ctx, path, filepath.Base(path))
			res := BatchResult{Path: path, Record: rec}
			if err != nil {
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()
	return results
}
