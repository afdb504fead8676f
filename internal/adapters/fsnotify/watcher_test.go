package fsnotify

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan struct{}) {
	t.Helper()
	w, err := NewWatcher(WithDebounce(testDebounce))
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan struct{}, 10)
	require.NoError(t, w.Watch(path, func() { changed <- struct{}{} }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: 1\n"), 0o644))

	_, changed := startWatcher(t, file)

	require.NoError(t, os.WriteFile(file, []byte("version: 2\n"), 0o644))
	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for file change")
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: 1\n"), 0o644))

	_, changed := startWatcher(t, file)

	tmp := filepath.Join(dir, ".scorecard.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("version: 2\n"), 0o644))
	require.NoError(t, os.Rename(tmp, file))

	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for rename over the file")
}

func TestWatcher_DetectsCreate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")

	_, changed := startWatcher(t, file)

	require.NoError(t, os.WriteFile(file, []byte("version: 1\n"), 0o644))
	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback once the file appears")
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: 1\n"), 0o644))

	_, changed := startWatcher(t, file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scorecard.yaml.swp"), []byte("x"), 0o644))
	assert.False(t, waitForCallback(changed, 300*time.Millisecond), "sibling writes must not fire")
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: 1\n"), 0o644))

	w, err := NewWatcher(WithDebounce(testDebounce))
	require.NoError(t, err)
	defer w.Stop()

	var calls atomic.Int32
	require.NoError(t, w.Watch(file, func() { calls.Add(1) }))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(file, []byte("version: 2\n"), 0o644))
		time.Sleep(testDebounce / 5)
	}
	time.Sleep(testDebounce * 6)

	assert.Equal(t, int32(1), calls.Load(), "one callback per burst")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "missing", "scorecard.yaml"), func() {})
	assert.Error(t, err)
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	dir := t.TempDir()
	file := filepath.Join(dir, "scorecard.yaml")

	w, err := NewWatcher(WithDebounce(testDebounce))
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, w.Watch(file, func() { calls.Add(1) }))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Stop())
	countAfterStop := calls.Load()

	os.WriteFile(file, []byte("version: 3\n"), 0o644)
	time.Sleep(testDebounce * 4)

	assert.Equal(t, countAfterStop, calls.Load(), "callbacks fired after Stop()")

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}
