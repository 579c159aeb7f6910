package s3blob

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

type memWriter struct {
	key         string
	contentType string
	data        []byte
}

func (m *memWriter) Write(_ context.Context, key string, data []byte, contentType string) error {
	m.key = key
	m.data = data
	m.contentType = contentType
	return nil
}

func TestRunArchiver(t *testing.T) {
	w := &memWriter{}
	a := NewRunArchiver(w)

	run := domain.RunSummary{
		RunID:         "3f2a9c1e",
		StartedAt:     time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		FinishedAt:    time.Date(2026, 8, 29, 10, 0, 5, 0, time.UTC),
		MarketCount:   42,
		Opportunities: 1,
	}
	opps := []domain.Opportunity{{ID: "abc", Strategy: domain.StrategyClassic}}

	require.NoError(t, a.Archive(context.Background(), run, opps))

	assert.Equal(t, "runs/2026/08/29/3f2a9c1e.json", w.key)
	assert.Equal(t, "application/json", w.contentType)

	var doc struct {
		Run           domain.RunSummary    `json:"run"`
		Opportunities []domain.Opportunity `json:"opportunities"`
	}
	require.NoError(t, json.Unmarshal(w.data, &doc))
	assert.Equal(t, run.RunID, doc.Run.RunID)
	require.Len(t, doc.Opportunities, 1)
	assert.Equal(t, "abc", doc.Opportunities[0].ID)
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", normaliseEndpoint("https://s3.example.com", false))
	assert.Equal(t, "http://localhost:9000", normaliseEndpoint("localhost:9000", false))
	assert.Equal(t, "https://minio.internal", normaliseEndpoint("minio.internal", true))
}
