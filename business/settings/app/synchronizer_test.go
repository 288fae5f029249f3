package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calc "github.com/spreadpad/spreadpad/business/calc/domain"
	"github.com/spreadpad/spreadpad/business/settings/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
)

type fakeLocal struct {
	mu      sync.Mutex
	stored  *domain.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeLocal) LoadSnapshot(context.Context) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, f.loadErr
}

func (f *fakeLocal) SaveSnapshot(_ context.Context, snap domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = &snap
	return nil
}

func (f *fakeLocal) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeRemote struct {
	mu      sync.Mutex
	stored  *domain.Snapshot
	pushes  []domain.Snapshot
	fetches int
	pushErr error
}

func (f *fakeRemote) Fetch(_ context.Context, _ string) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.stored, nil
}

func (f *fakeRemote) Push(_ context.Context, _ string, snap domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, snap)
	return nil
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes[len(f.pushes)-1]
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func newSync(local *fakeLocal, remote *fakeRemote, window time.Duration) *Synchronizer {
	return NewSynchronizer(local, remote, testLogger(), window)
}

func snapWithTab(id, name string) domain.Snapshot {
	return domain.Snapshot{
		Calculators: []calc.Instance{{ID: id, Name: name, Kind: calc.KindArbitrage, Arb: calc.DefaultArbFields()}},
		ActiveID:    id,
		Theme:       domain.ThemeDefault,
	}
}

func TestSynchronizer_ApplySavesLocallyEveryTime(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{}
	s := newSync(local, remote, 50*time.Millisecond)
	defer s.Close()

	snap := snapWithTab("1", "C 1")
	s.Apply(context.Background(), snap)
	snap.Calculators[0].Arb.OpenA = "100"
	s.Apply(context.Background(), snap)

	assert.Equal(t, 2, local.saveCount())
}

func TestSynchronizer_FieldEditsNeverReachRemote(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()
	s.SetToken("tok")

	// Prime the fingerprint as LoadMerge would.
	snap := snapWithTab("1", "C 1")
	s.Apply(context.Background(), snap)
	time.Sleep(50 * time.Millisecond)
	base := remote.pushCount()

	// Typing into a price field changes content but not the shape.
	snap.Calculators[0].Arb.OpenA = "110.5"
	s.Apply(context.Background(), snap)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, base, remote.pushCount(), "content-only edits must not write remotely")
}

func TestSynchronizer_BurstCoalescesToOnePush(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{}
	s := newSync(local, remote, 40*time.Millisecond)
	defer s.Close()
	s.SetToken("tok")

	for i, name := range []string{"A", "B", "C", "D"} {
		snap := snapWithTab("1", name)
		s.Apply(context.Background(), snap)
		if i < 3 {
			time.Sleep(5 * time.Millisecond)
		}
	}

	time.Sleep(120 * time.Millisecond)
	require.Equal(t, 1, remote.pushCount(), "burst must coalesce into one write")
	assert.Equal(t, "D", remote.lastPush().Calculators[0].Name, "only the latest payload is sent")
}

func TestSynchronizer_NoTokenNoRemote(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()

	s.Apply(context.Background(), snapWithTab("1", "C 1"))
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, remote.pushCount())
	assert.Equal(t, 1, local.saveCount(), "local path works without a session")
}

func TestSynchronizer_CloseDropsPendingPush(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{}
	s := newSync(local, remote, 50*time.Millisecond)
	s.SetToken("tok")

	s.Apply(context.Background(), snapWithTab("1", "C 1"))
	require.True(t, s.PendingRemote())
	s.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, remote.pushCount(), "pending write is dropped on teardown, never flushed")
}

func TestSynchronizer_PushFailureNotifiesHook(t *testing.T) {
	local := &fakeLocal{}
	remote := &fakeRemote{pushErr: errors.New("401 unauthorized")}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()
	s.SetToken("tok")

	var (
		mu   sync.Mutex
		seen error
	)
	s.OnPushError(func(err error) {
		mu.Lock()
		seen = err
		mu.Unlock()
	})

	s.Apply(context.Background(), snapWithTab("1", "C 1"))
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Error(t, seen)
	assert.Equal(t, remote.pushErr, seen)
}

func TestSynchronizer_LoadMergePrefersRemoteShape(t *testing.T) {
	remoteSnap := snapWithTab("1", "A")
	localSnap := domain.Snapshot{
		Calculators: []calc.Instance{
			{ID: "1", Name: "B", Kind: calc.KindArbitrage, Arb: calc.DefaultArbFields()},
			{ID: "2", Name: "C", Kind: calc.KindArbitrage, Arb: calc.DefaultArbFields()},
		},
		ActiveID: "1",
	}
	local := &fakeLocal{stored: &localSnap}
	remote := &fakeRemote{stored: &remoteSnap}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()
	s.SetToken("tok")

	merged := s.LoadMerge(context.Background())

	require.Len(t, merged.Calculators, 1)
	assert.Equal(t, "B", merged.Calculators[0].Name)
	assert.Equal(t, 1, remote.fetches)

	// Loading must not schedule a remote write by itself.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, remote.pushCount())

	// Merged result is written back locally.
	assert.GreaterOrEqual(t, local.saveCount(), 1)
}

func TestSynchronizer_LoadMergeSkipsRemoteWithoutToken(t *testing.T) {
	local := &fakeLocal{stored: func() *domain.Snapshot { s := snapWithTab("1", "mine"); return &s }()}
	remote := &fakeRemote{}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()

	merged := s.LoadMerge(context.Background())

	assert.Zero(t, remote.fetches)
	assert.Equal(t, "mine", merged.Calculators[0].Name)
}

func TestSynchronizer_LocalFailureKeepsGoing(t *testing.T) {
	local := &fakeLocal{loadErr: errors.New("corrupt"), saveErr: errors.New("quota")}
	remote := &fakeRemote{}
	s := newSync(local, remote, 10*time.Millisecond)
	defer s.Close()

	merged := s.LoadMerge(context.Background())
	require.Len(t, merged.Calculators, 1, "defaults synthesized despite storage failure")

	// Apply with a failing local store does not panic or retry.
	s.Apply(context.Background(), merged)
}
