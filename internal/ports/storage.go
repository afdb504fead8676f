// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"time"

	"github.com/corey/riskcard/internal/domain/scorecard"
)

// RevisionStore keeps every scorecard that was successfully published, so
// that operators can audit what was active when and the service can start
// from the last known good scorecard when the source file is broken.
//
// Crash safety: SaveRevision must be transactional. A crash mid-write must
// not corrupt previously committed revisions.
type RevisionStore interface {
	// SaveRevision appends rev and assigns its Seq. Revisions whose digest
	// equals the latest revision's digest are not stored twice; the latest
	// revision is returned for them instead.
	SaveRevision(rev *Revision) (*Revision, error)

	// LatestRevision returns the most recently saved revision.
	// Returns nil, nil if nothing has been saved.
	LatestRevision() (*Revision, error)

	// ListRevisions returns up to limit revisions, newest first. A limit
	// of zero or less returns all of them.
	ListRevisions(limit int) ([]*Revision, error)

	Close() error
}

// Revision is one published scorecard.
type Revision struct {
	Seq         uint64                `json:"seq"`
	ID          string                `json:"id"`
	Version     int                   `json:"version"`
	ScoreName   string                `json:"score_name"`
	Digest      string                `json:"digest"`
	Source      string                `json:"source"`
	PublishedAt time.Time             `json:"published_at"`
	Definition  *scorecard.Definition `json:"definition"`
}
