package app

import (
	"context"

	"github.com/spreadpad/spreadpad/business/calc/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
)

// HistoryStore persists the calculation history between runs.
type HistoryStore interface {
	LoadHistory(ctx context.Context) (domain.History, error)
	SaveHistory(ctx context.Context, h domain.History) error
}

// Recorder appends computed results to the capped history and persists
// the list after every accepted entry. Ineligible results are dropped
// silently so blank forms never pollute history.
type Recorder struct {
	store HistoryStore
	log   logger.LoggerInterface

	history domain.History
}

// NewRecorder loads the persisted history. A load failure starts with an
// empty list rather than blocking the session.
func NewRecorder(ctx context.Context, store HistoryStore, log logger.LoggerInterface) *Recorder {
	r := &Recorder{store: store, log: log}
	h, err := store.LoadHistory(ctx)
	if err != nil {
		log.Warn(ctx, "history load failed, starting empty", "error", err)
		return r
	}
	r.history = h
	return r
}

// Entries returns the recorded entries, newest last.
func (r *Recorder) Entries() []domain.HistoryEntry {
	return r.history.Entries
}

// Record appends a result when it is eligible and reports whether the
// entry was kept.
func (r *Recorder) Record(ctx context.Context, kind domain.Kind, inputs map[string]string, result, tabName string) bool {
	if !domain.Eligible(result, inputs) {
		return false
	}
	r.history.Append(domain.NewHistoryEntry(kind, inputs, result, tabName))
	if err := r.store.SaveHistory(ctx, r.history); err != nil {
		r.log.Warn(ctx, "history save failed", "error", err)
	}
	return true
}

// Clear empties the history and persists the empty list.
func (r *Recorder) Clear(ctx context.Context) {
	r.history = domain.History{}
	if err := r.store.SaveHistory(ctx, r.history); err != nil {
		r.log.Warn(ctx, "history clear failed", "error", err)
	}
}
