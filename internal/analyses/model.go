package analyses

import (
	"encoding/json"
	"time"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/llm"
)

// Classification is the outcome of the document-type step. Confidence is
// normalized to [0,1] before a record is persisted.
type Classification struct {
	Type          doctype.Type      `json:"type"`
	Confidence    float64           `json:"confidence"`
	Justification string            `json:"justification,omitempty"`
	Alternatives  []llm.Alternative `json:"alternatives,omitempty"`
}

// ProcessingInfo accumulates diagnostics from a pipeline run. Errors is never
// nil so the serialized form always carries an array.
type ProcessingInfo struct {
	ProcessingTimeSeconds float64  `json:"processing_time_seconds"`
	ExtractionMethod      string   `json:"extraction_method"`
	Errors                []string `json:"errors"`
}

// Record is the unit of persistence: one analyzed document.
type Record struct {
	DocumentID       string           `json:"document_id"`
	Filename         string           `json:"filename"`
	OriginalFilename string           `json:"original_filename"`
	Classification   Classification   `json:"classification"`
	Metadata         doctype.Metadata `json:"metadata"`
	ProcessingInfo   ProcessingInfo   `json:"processing_info"`
	StoredAt         time.Time        `json:"stored_at"`
}

// UnmarshalJSON decodes the metadata payload according to the classified
// document type, since the metadata shape is type-dependent.
func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	aux := struct {
		*alias
		Metadata json.RawMessage `json:"metadata"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	meta, err := doctype.DecodeMetadata(r.Classification.Type, aux.Metadata)
	if err != nil {
		return err
	}
	r.Metadata = meta
	return nil
}

// Summary is the listing projection of a stored record.
type Summary struct {
	DocumentID     string       `json:"document_id"`
	Filename       string       `json:"filename"`
	Classification doctype.Type `json:"classification"`
	StoredAt       time.Time    `json:"stored_at"`
	FileSize       int64        `json:"file_size"`
}

// Stats describes the backing store as a whole.
type Stats struct {
	TotalDocuments   int     `json:"total_documents"`
	TotalSizeBytes   int64   `json:"total_size_bytes"`
	TotalSizeMB      float64 `json:"total_size_mb"`
	StorageDirectory string  `json:"storage_directory"`
}
