package app

import (
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem paths under the data directory.
type Paths struct {
	Root string // .riskcard/
	DB   string // .riskcard/riskcard.db
}

// NewPaths constructs all resolved paths from a data directory.
func NewPaths(dataDir string) *Paths {
	return &Paths{
		Root: dataDir,
		DB:   filepath.Join(dataDir, "riskcard.db"),
	}
}

// EnsureDirs creates the data directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
