package ports

// Watcher monitors the scorecard file and reports settled changes.
// Editors often write a file in several steps (truncate, write, rename),
// so the adapter must debounce bursts into a single onChange call.
type Watcher interface {
	// Watch starts monitoring path. onChange may be invoked from any
	// goroutine, never concurrently with itself. Returns an error if the
	// file's directory does not exist.
	Watch(path string, onChange func()) error

	// Stop ends monitoring. After Stop returns, no further onChange calls
	// will fire. Safe to call multiple times.
	Stop() error
}
