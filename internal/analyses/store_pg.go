package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"docanalyzer-backend/internal/doctype"
)

// PGStore persists records in the analyses table. The full record is kept as
// JSONB alongside a few indexed columns for listing without deserialization.
type PGStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

func (s *PGStore) Store(ctx context.Context, rec *Record) (string, error) {
	if rec.DocumentID == "" {
		rec.DocumentID = uuid.NewString()
	}
	rec.StoredAt = s.now().UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	const q = `
		INSERT INTO analyses (id, filename, original_filename, doc_type, confidence, record, size_bytes, stored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.db.ExecContext(ctx, q,
		rec.DocumentID, rec.Filename, rec.OriginalFilename,
		string(rec.Classification.Type), rec.Classification.Confidence,
		data, int64(len(data)), rec.StoredAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return rec.DocumentID, nil
}

func (s *PGStore) Get(ctx context.Context, documentID string) (*Record, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, ErrNotFound
	}
	const q = `SELECT record FROM analyses WHERE id = $1`
	var data []byte
	if err := s.db.QueryRowContext(ctx, q, documentID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", documentID, err)
	}
	return &rec, nil
}

func (s *PGStore) List(ctx context.Context) ([]Summary, error) {
	const q = `
		SELECT id, filename, doc_type, stored_at, size_bytes
		FROM analyses
		ORDER BY stored_at DESC, id ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var docType string
		if err := rows.Scan(&s.DocumentID, &s.Filename, &docType, &s.StoredAt, &s.FileSize); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		s.Classification = doctype.Type(docType)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

func (s *PGStore) Delete(ctx context.Context, documentID string) (bool, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, documentID)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return n > 0, nil
}

func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM analyses`
	stats := Stats{StorageDirectory: "postgres"}
	if err := s.db.QueryRowContext(ctx, q).Scan(&stats.TotalDocuments, &stats.TotalSizeBytes); err != nil {
		return Stats{}, fmt.Errorf("storage stats: %w", err)
	}
	stats.TotalSizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	return stats, nil
}

var _ Store = (*PGStore)(nil)
