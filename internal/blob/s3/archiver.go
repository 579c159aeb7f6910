package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// RunArchiver writes one JSON document per detection run to object storage.
// Archives are append-only snapshots for offline analysis; the primary store
// remains PostgreSQL.
type RunArchiver struct {
	writer domain.BlobWriter
}

// NewRunArchiver creates a RunArchiver on top of any BlobWriter.
func NewRunArchiver(writer domain.BlobWriter) *RunArchiver {
	return &RunArchiver{writer: writer}
}

// runArchive is the document layout of one archived run.
type runArchive struct {
	Run           domain.RunSummary    `json:"run"`
	Opportunities []domain.Opportunity `json:"opportunities"`
}

// Archive serializes the run summary and its opportunities and uploads the
// document under runs/YYYY/MM/DD/{run_id}.json.
func (a *RunArchiver) Archive(ctx context.Context, run domain.RunSummary, opps []domain.Opportunity) error {
	doc := runArchive{Run: run, Opportunities: opps}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("s3blob: marshal run %s: %w", run.RunID, err)
	}

	key := runArchiveKey(run)
	if err := a.writer.Write(ctx, key, buf.Bytes(), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive run %s: %w", run.RunID, err)
	}
	return nil
}

// runArchiveKey builds the object key, partitioned by the run's start date.
//
//	runs/2026/08/29/3f2a9c1e.json
func runArchiveKey(run domain.RunSummary) string {
	return fmt.Sprintf("runs/%s/%s.json", run.StartedAt.UTC().Format("2006/01/02"), run.RunID)
}
