// Package bbolt implements the ports.RevisionStore interface using bbolt
// (embedded B+ tree). Revisions live in a single bucket keyed by a
// big-endian sequence number, so cursor order is publish order. Values are
// JSON. Writes are transactional: a crash mid-write cannot corrupt
// previously committed revisions.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corey/riskcard/internal/ports"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketRevisions = []byte("revisions")

// DefaultKeep is the number of revisions retained when no limit is given.
const DefaultKeep = 100

// Option configures a Store.
type Option func(*Store)

// WithKeep bounds how many revisions are retained. Older revisions are
// pruned on save. Non-positive values keep every revision.
func WithKeep(n int) Option {
	return func(s *Store) { s.keep = n }
}

// Store implements ports.RevisionStore backed by bbolt.
type Store struct {
	db   *bolt.DB
	keep int
	now  func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	s := &Store{db: db, keep: DefaultKeep, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRevisions)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return s, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// SaveRevision implements ports.RevisionStore. It fills in Seq, and ID and
// PublishedAt when they are unset. The caller's rev is not modified.
func (s *Store) SaveRevision(rev *ports.Revision) (*ports.Revision, error) {
	if rev == nil || rev.Definition == nil {
		return nil, fmt.Errorf("nil revision")
	}

	var saved *ports.Revision
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRevisions)

		if _, v := b.Cursor().Last(); v != nil {
			var last ports.Revision
			if err := json.Unmarshal(v, &last); err != nil {
				return fmt.Errorf("unmarshal revision: %w", err)
			}
			if rev.Digest != "" && last.Digest == rev.Digest {
				saved = &last
				return nil
			}
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		r := *rev
		r.Seq = seq
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.PublishedAt.IsZero() {
			r.PublishedAt = s.now().UTC()
		}

		data, err := json.Marshal(&r)
		if err != nil {
			return fmt.Errorf("marshal revision: %w", err)
		}
		if err := b.Put(seqKey(seq), data); err != nil {
			return err
		}
		saved = &r
		return s.prune(b)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// prune drops the oldest revisions beyond the retention limit.
func (s *Store) prune(b *bolt.Bucket) error {
	if s.keep <= 0 {
		return nil
	}
	// Stats does not see puts made in this tx.
	c := b.Cursor()
	n := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	extra := n - s.keep
	if extra <= 0 {
		return nil
	}
	for k, _ := c.First(); k != nil && extra > 0; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
		extra--
	}
	return nil
}

// LatestRevision implements ports.RevisionStore.
// Returns nil, nil if nothing has been saved.
func (s *Store) LatestRevision() (*ports.Revision, error) {
	revs, err := s.ListRevisions(1)
	if err != nil || len(revs) == 0 {
		return nil, err
	}
	return revs[0], nil
}

// ListRevisions implements ports.RevisionStore.
func (s *Store) ListRevisions(limit int) ([]*ports.Revision, error) {
	var revs []*ports.Revision
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRevisions).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(revs) >= limit {
				break
			}
			// Unmarshal copies out of the mmap; bbolt slices are only valid within tx.
			var r ports.Revision
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal revision %d: %w", binary.BigEndian.Uint64(k), err)
			}
			revs = append(revs, &r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revs, nil
}
