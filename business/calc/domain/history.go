package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryCap bounds the calculation history; oldest entries are truncated.
const HistoryCap = 50

// HistoryEntry records one computed result with the raw inputs that
// produced it. History lives independently of the tab collection.
type HistoryEntry struct {
	ID      string            `json:"id"`
	At      time.Time         `json:"at"`
	Kind    Kind              `json:"kind"`
	Inputs  map[string]string `json:"inputs"`
	Result  string            `json:"result"`
	TabName string            `json:"tabName"`
}

// NewHistoryEntry creates an entry stamped with the current time.
func NewHistoryEntry(kind Kind, inputs map[string]string, result, tabName string) HistoryEntry {
	return HistoryEntry{
		ID:      uuid.NewString(),
		At:      time.Now(),
		Kind:    kind,
		Inputs:  inputs,
		Result:  result,
		TabName: tabName,
	}
}

// History is the capped list of computed results, newest last.
type History struct {
	Entries []HistoryEntry `json:"entries"`
}

// Append adds an entry, truncating the oldest beyond HistoryCap.
func (h *History) Append(entry HistoryEntry) {
	h.Entries = append(h.Entries, entry)
	if len(h.Entries) > HistoryCap {
		h.Entries = h.Entries[len(h.Entries)-HistoryCap:]
	}
}

// Eligible reports whether a result should be recorded: the zero sentinel
// and empty required inputs are suppressed so spurious entries from blank
// forms never reach history.
func Eligible(result string, inputs map[string]string) bool {
	if result == "" || result == ZeroPercent || result == ZeroPrice {
		return false
	}
	for _, v := range inputs {
		if v == "" || v == "0" {
			return false
		}
	}
	return len(inputs) > 0
}
