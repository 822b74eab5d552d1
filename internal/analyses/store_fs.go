package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"docanalyzer-backend/internal/shared/telemetry"
)

// FSStore keeps one JSON file per record under a single directory. Writes go
// through a temp file and rename so readers never observe a partial record.
type FSStore struct {
	dir string
	now func() time.Time
}

// NewFSStore creates the storage directory if needed and returns a store
// rooted at its absolute path.
func NewFSStore(dir string) (*FSStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	telemetry.Info("store.fs.init", map[string]any{"dir": abs})
	return &FSStore{dir: abs, now: time.Now}, nil
}

func (s *FSStore) path(documentID string) string {
	return filepath.Join(s.dir, documentID+".json")
}

func (s *FSStore) Store(ctx context.Context, rec *Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec.DocumentID == "" {
		rec.DocumentID = uuid.NewString()
	}
	rec.StoredAt = s.now().UTC()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(rec.DocumentID)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("store record: %w", err)
	}
	return rec.DocumentID, nil
}

func (s *FSStore) Get(ctx context.Context, documentID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.path(documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", documentID, err)
	}
	return &rec, nil
}

func (s *FSStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read storage dir: %w", err)
	}
	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			telemetry.Warn("store.fs.list.skip", map[string]any{"file": entry.Name(), "error": err.Error()})
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			telemetry.Warn("store.fs.list.skip", map[string]any{"file": entry.Name(), "error": err.Error()})
			continue
		}
		info, err := entry.Info()
		if err != nil {
			telemetry.Warn("store.fs.list.skip", map[string]any{"file": entry.Name(), "error": err.Error()})
			continue
		}
		summaries = append(summaries, Summary{
			DocumentID:     rec.DocumentID,
			Filename:       rec.Filename,
			Classification: rec.Classification.Type,
			StoredAt:       rec.StoredAt,
			FileSize:       info.Size(),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].StoredAt.Equal(summaries[j].StoredAt) {
			return summaries[i].StoredAt.After(summaries[j].StoredAt)
		}
		return summaries[i].DocumentID < summaries[j].DocumentID
	})
	return summaries, nil
}

func (s *FSStore) Delete(ctx context.Context, documentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return false, nil
	}
	if err := os.Remove(s.path(documentID)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete record: %w", err)
	}
	return true, nil
}

func (s *FSStore) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Stats{}, fmt.Errorf("read storage dir: %w", err)
	}
	stats := Stats{StorageDirectory: s.dir}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.TotalDocuments++
		stats.TotalSizeBytes += info.Size()
	}
	stats.TotalSizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	return stats, nil
}

var _ Store = (*FSStore)(nil)
