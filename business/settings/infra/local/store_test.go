package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calc "github.com/spreadpad/spreadpad/business/calc/domain"
	"github.com/spreadpad/spreadpad/business/settings/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "spreadpad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	got, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "fresh store has no snapshot")

	snap := domain.Default()
	snap.Theme = "ocean"
	snap.CompactMode = true
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	got, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ocean", got.Theme)
	assert.True(t, got.CompactMode)
	assert.Len(t, got.Calculators, 1)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first := domain.Default()
	require.NoError(t, s.SaveSnapshot(ctx, first))

	second := domain.Default()
	second.Theme = "forest"
	require.NoError(t, s.SaveSnapshot(ctx, second))

	got, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "forest", got.Theme)
}

func TestStore_HistoryIndependentOfSnapshot(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var h calc.History
	h.Append(calc.NewHistoryEntry(calc.KindArbitrage,
		map[string]string{"openA": "110", "openB": "100"}, "10.00", "C 1"))
	require.NoError(t, s.SaveHistory(ctx, h))

	// Overwriting the snapshot leaves history untouched.
	require.NoError(t, s.SaveSnapshot(ctx, domain.Default()))

	got, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "10.00", got.Entries[0].Result)
}

func TestStore_TokenLifecycle(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	token, err := s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SaveToken(ctx, "jwt-abc"))
	token, err = s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	require.NoError(t, s.ClearToken(ctx))
	token, err = s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_CorruptValueReported(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES ('settings', 'not json')`)
	require.NoError(t, err)

	_, err = s.LoadSnapshot(ctx)
	assert.Error(t, err)
}
