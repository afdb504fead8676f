package app

import (
	"testing"
	"time"

	"github.com/corey/riskcard/scorecards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	s.Watch = true
	writeFile(t, s.Scorecard, scorecards.Default)
	a := startApp(t, s)
	require.NotNil(t, a.Watcher)

	writeFile(t, s.Scorecard, defaultWithVersion("3"))
	assert.Eventually(t, func() bool {
		return a.Status().Version == 3
	}, 2*time.Second, 10*time.Millisecond)

	// An invalid edit is ignored.
	writeFile(t, s.Scorecard, []byte("scorecard: {}\n"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 3, a.Status().Version)
}

func TestWatch_Disabled(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	writeFile(t, s.Scorecard, scorecards.Default)
	a := startApp(t, s)
	assert.Nil(t, a.Watcher)

	writeFile(t, s.Scorecard, defaultWithVersion("2"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, a.Status().Version)
}
