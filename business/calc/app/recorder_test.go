package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadpad/spreadpad/business/calc/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
)

type fakeHistoryStore struct {
	loaded  domain.History
	loadErr error
	saved   []domain.History
	saveErr error
}

func (s *fakeHistoryStore) LoadHistory(context.Context) (domain.History, error) {
	return s.loaded, s.loadErr
}

func (s *fakeHistoryStore) SaveHistory(_ context.Context, h domain.History) error {
	s.saved = append(s.saved, h)
	return s.saveErr
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestRecorder_RecordPersists(t *testing.T) {
	store := &fakeHistoryStore{}
	r := NewRecorder(context.Background(), store, testLogger())

	kept := r.Record(context.Background(), domain.KindArbitrage,
		map[string]string{"openA": "110", "openB": "100"}, "10.00", "C 1")

	require.True(t, kept)
	require.Len(t, store.saved, 1)
	assert.Len(t, r.Entries(), 1)
	assert.Equal(t, "10.00", r.Entries()[0].Result)
}

func TestRecorder_IneligibleDropped(t *testing.T) {
	store := &fakeHistoryStore{}
	r := NewRecorder(context.Background(), store, testLogger())

	kept := r.Record(context.Background(), domain.KindArbitrage,
		map[string]string{"openA": "100", "openB": "100"}, domain.ZeroPercent, "C 1")

	assert.False(t, kept)
	assert.Empty(t, store.saved)
	assert.Empty(t, r.Entries())
}

func TestRecorder_LoadFailureStartsEmpty(t *testing.T) {
	store := &fakeHistoryStore{loadErr: errors.New("corrupt")}
	r := NewRecorder(context.Background(), store, testLogger())
	assert.Empty(t, r.Entries())
}

func TestRecorder_SaveFailureKeepsEntry(t *testing.T) {
	store := &fakeHistoryStore{saveErr: errors.New("disk full")}
	r := NewRecorder(context.Background(), store, testLogger())

	kept := r.Record(context.Background(), domain.KindFunding,
		map[string]string{"positionSize": "1000"}, "9.90", "FR 1")

	// Persistence failure is logged, not surfaced; the in-memory entry stays.
	assert.True(t, kept)
	assert.Len(t, r.Entries(), 1)
}

func TestRecorder_Clear(t *testing.T) {
	store := &fakeHistoryStore{loaded: domain.History{
		Entries: []domain.HistoryEntry{{ID: "1", Result: "10.00"}},
	}}
	r := NewRecorder(context.Background(), store, testLogger())
	require.Len(t, r.Entries(), 1)

	r.Clear(context.Background())
	assert.Empty(t, r.Entries())
	require.Len(t, store.saved, 1)
	assert.Empty(t, store.saved[0].Entries)
}
