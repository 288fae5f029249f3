// Package domain defines the settings snapshot, the unit of persistence,
// and the reconciliation rules between its local and remote copies.
package domain

import (
	"strings"

	calc "github.com/spreadpad/spreadpad/business/calc/domain"
)

// Theme names understood by the UI.
const (
	ThemeDefault = "default"
)

// Snapshot bundles all persisted app state at a point in time. CompactMode
// and Pinned are device preferences: they are saved locally but never sent
// to or taken from the remote store.
type Snapshot struct {
	Calculators []calc.Instance `json:"calculators"`
	ActiveID    string          `json:"activeId"`
	Theme       string          `json:"theme"`
	DarkMode    bool            `json:"darkMode"`
	CompactMode bool            `json:"compactMode"`
	Pinned      bool            `json:"pinned"`
}

// Default returns the snapshot of a fresh install: one arbitrage tab,
// default theme, dark mode on.
func Default() Snapshot {
	col := calc.NewCollection()
	return Snapshot{
		Calculators: col.Instances,
		ActiveID:    col.ActiveID,
		Theme:       ThemeDefault,
		DarkMode:    true,
	}
}

// Collection views the snapshot's tabs as a calc collection.
func (s *Snapshot) Collection() calc.Collection {
	return calc.Collection{Instances: s.Calculators, ActiveID: s.ActiveID}
}

// SetCollection writes a collection back into the snapshot.
func (s *Snapshot) SetCollection(col calc.Collection) {
	s.Calculators = col.Instances
	s.ActiveID = col.ActiveID
}

// Normalize repairs the embedded collection invariants after
// deserialization and backfills missing variant fields with defaults.
func (s *Snapshot) Normalize() {
	col := s.Collection()
	col.Normalize()
	s.SetCollection(col)
	if s.Theme == "" {
		s.Theme = ThemeDefault
	}
}

// Fingerprint summarizes the remote-relevant shape of the snapshot: tab
// ids, names and kinds in order, plus ActiveID, Theme and DarkMode. Edits
// that leave the fingerprint unchanged (typing into price fields, toggling
// compact mode) never trigger a remote write.
func (s *Snapshot) Fingerprint() string {
	var b strings.Builder
	for _, inst := range s.Calculators {
		b.WriteString(inst.ID)
		b.WriteByte(':')
		b.WriteString(inst.Name)
		b.WriteByte(':')
		b.WriteString(string(inst.Kind))
		b.WriteByte('|')
	}
	b.WriteString(s.ActiveID)
	b.WriteByte('|')
	b.WriteString(s.Theme)
	if s.DarkMode {
		b.WriteString("|dark")
	}
	return b.String()
}

// Merge reconciles the remote and local snapshots at startup. With only
// one side present that side is used verbatim. With both, the remote
// calculator list provides membership and order, local instances win
// field-for-field on shared ids, and local-only instances are dropped.
// Theme and DarkMode follow the local copy; CompactMode and Pinned are
// always local. The result is normalized so schema-evolution gaps are
// backfilled with defaults.
func Merge(remote, local *Snapshot) Snapshot {
	var out Snapshot
	switch {
	case remote == nil && local == nil:
		out = Default()
	case remote == nil:
		out = *local
	case local == nil:
		out = *remote
	default:
		localCol := local.Collection()
		merged := make([]calc.Instance, 0, len(remote.Calculators))
		for _, r := range remote.Calculators {
			if l := localCol.ByID(r.ID); l != nil {
				merged = append(merged, *l)
			} else {
				merged = append(merged, r)
			}
		}
		out = Snapshot{
			Calculators: merged,
			ActiveID:    local.ActiveID,
			Theme:       local.Theme,
			DarkMode:    local.DarkMode,
			CompactMode: local.CompactMode,
			Pinned:      local.Pinned,
		}
	}
	out.Normalize()
	return out
}

// RemoteView strips the device-only preferences before the snapshot is
// sent to the remote store.
func (s Snapshot) RemoteView() Snapshot {
	s.CompactMode = false
	s.Pinned = false
	return s
}
