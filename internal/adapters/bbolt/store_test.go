package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/internal/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func makeRevision(version int) *ports.Revision {
	return &ports.Revision{
		Version:   version,
		ScoreName: "ChangeRiskScore",
		Digest:    fmt.Sprintf("digest-%d", version),
		Source:    "scorecard.yaml",
		Definition: &scorecard.Definition{
			Version:    version,
			ScoreName:  "ChangeRiskScore",
			BasePoints: scorecard.Float(600),
			Features: []scorecard.FeatureSpec{
				{Name: "change_size", Kind: "categorical", Required: scorecard.Bool(true), Bins: []scorecard.BinSpec{
					{Bin: "S", Points: 5}, {Bin: "L", Points: 30},
				}},
				{Name: "downstream_critical_deps", Kind: "numeric", Required: scorecard.Bool(false), Min: scorecard.Float(0), Bins: []scorecard.BinSpec{
					{Bin: "[0,3)", Points: 0}, {Bin: "[3,inf)", Points: 20},
				}},
			},
			Bands: []scorecard.BandSpec{{Name: "LOW", MaxScore: scorecard.Float(620)}, {Name: "HIGH"}},
		},
	}
}

func TestStore_EmptyLatest(t *testing.T) {
	store, _ := newTestStore(t)
	rev, err := store.LatestRevision()
	require.NoError(t, err)
	assert.Nil(t, rev)

	revs, err := store.ListRevisions(0)
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestStore_SaveAndLatest(t *testing.T) {
	store, _ := newTestStore(t)
	in := makeRevision(1)

	saved, err := store.SaveRevision(in)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), saved.Seq)
	assert.Len(t, saved.ID, 36)
	assert.False(t, saved.PublishedAt.IsZero())
	assert.Zero(t, in.Seq, "input is not modified")

	latest, err := store.LatestRevision()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, saved.ID, latest.ID)
	assert.True(t, saved.PublishedAt.Equal(latest.PublishedAt))
	if diff := cmp.Diff(in.Definition, latest.Definition); diff != "" {
		t.Errorf("definition changed in storage (-want +got):\n%s", diff)
	}
}

func TestStore_SameDigestIsNotDuplicated(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.SaveRevision(makeRevision(1))
	require.NoError(t, err)
	again, err := store.SaveRevision(makeRevision(1))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	revs, err := store.ListRevisions(0)
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	// A digest seen earlier but not latest is a new publish.
	_, err = store.SaveRevision(makeRevision(2))
	require.NoError(t, err)
	_, err = store.SaveRevision(makeRevision(1))
	require.NoError(t, err)
	revs, err = store.ListRevisions(0)
	require.NoError(t, err)
	assert.Len(t, revs, 3)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	for v := 1; v <= 5; v++ {
		_, err := store.SaveRevision(makeRevision(v))
		require.NoError(t, err)
	}

	revs, err := store.ListRevisions(3)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{revs[0].Version, revs[1].Version, revs[2].Version})
	assert.Greater(t, revs[0].Seq, revs[1].Seq)
}

func TestStore_Prunes(t *testing.T) {
	store, _ := newTestStore(t, WithKeep(3))
	for v := 1; v <= 6; v++ {
		_, err := store.SaveRevision(makeRevision(v))
		require.NoError(t, err)
	}

	revs, err := store.ListRevisions(0)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, 6, revs[0].Version)
	assert.Equal(t, 4, revs[2].Version)
}

func TestStore_PruneHoldsRetentionAfterEverySave(t *testing.T) {
	store, _ := newTestStore(t, WithKeep(2))
	for v := 1; v <= 5; v++ {
		_, err := store.SaveRevision(makeRevision(v))
		require.NoError(t, err)

		revs, err := store.ListRevisions(0)
		require.NoError(t, err)
		assert.Len(t, revs, min(v, 2), "after save %d", v)
		assert.Equal(t, v, revs[0].Version)
	}
}

func TestStore_RejectsNil(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.SaveRevision(nil)
	assert.Error(t, err)
	_, err = store.SaveRevision(&ports.Revision{Version: 1})
	assert.Error(t, err)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	saved, err := store.SaveRevision(makeRevision(4))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	latest, err := store2.LatestRevision()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, saved.ID, latest.ID)
	assert.Equal(t, 4, latest.Version)

	next, err := store2.SaveRevision(makeRevision(5))
	require.NoError(t, err)
	assert.Equal(t, saved.Seq+1, next.Seq, "sequence continues after reopen")
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store, _ := newTestStore(t, WithKeep(0))

	var wg sync.WaitGroup
	for v := 1; v <= 20; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := store.SaveRevision(makeRevision(v))
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	revs, err := store.ListRevisions(0)
	require.NoError(t, err)
	assert.Len(t, revs, 20)

	seen := map[uint64]bool{}
	for _, r := range revs {
		assert.False(t, seen[r.Seq], "duplicate seq %d", r.Seq)
		seen[r.Seq] = true
	}
}

func TestStore_LockedDatabase(t *testing.T) {
	_, path := newTestStore(t)

	start := time.Now()
	_, err := NewStore(path)
	assert.Error(t, err, "second open of a locked database times out")
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}
