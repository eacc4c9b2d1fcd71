// Package history persists analyses in a pebble database keyed by KSUID.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/language"
)

var (
	ErrNotFound  = errors.New("analysis not found")
	ErrInvalidID = errors.New("invalid analysis id")
	ErrClosed    = errors.New("history store is closed")
)

// Entry is a stored analysis together with the statistics derived from it.
type Entry struct {
	ID        ksuid.KSUID
	CreatedAt time.Time
	Source    string
	Analysis  frequency.Analysis
	Language  language.Language
}

// Store is a pebble backed analysis history.
type Store struct {
	db    *pebble.DB
	codec *codec.RecordCodec
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return &Store{db: db, codec: codec.NewRecordCodec()}, nil
}

// ParseID decodes the string form of an entry ID.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: %q: %v", ErrInvalidID, s, err)
	}
	return id, nil
}

// Put stores a record under a new ID.
func (s *Store) Put(ctx context.Context, r *codec.Record) (Entry, error) {
	if err := s.check(ctx); err != nil {
		return Entry{}, err
	}

	data, err := s.codec.Encode(r)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode analysis: %w", err)
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return Entry{}, fmt.Errorf("failed to write analysis %s: %w", id, err)
	}
	return newEntry(id, r), nil
}

// Get loads the entry stored under id.
func (s *Store) Get(ctx context.Context, id ksuid.KSUID) (Entry, error) {
	if err := s.check(ctx); err != nil {
		return Entry{}, err
	}

	data, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read analysis %s: %w", id, err)
	}
	defer closer.Close()

	return s.decode(id, data)
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("corrupt history key %x: %w", iter.Key(), err)
		}
		entry, err := s.decode(id, iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	// KSUIDs only order by second, so sort on the record timestamp.
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return ksuid.Compare(entries[i].ID, entries[j].ID) > 0
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Delete removes the entry stored under id.
func (s *Store) Delete(ctx context.Context, id ksuid.KSUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.Delete(id.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) check(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Store) decode(id ksuid.KSUID, data []byte) (Entry, error) {
	r, err := s.codec.Decode(data)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	if err := r.Validate(); err != nil {
		return Entry{}, fmt.Errorf("analysis %s is corrupt: %w", id, err)
	}
	return newEntry(id, r), nil
}

func newEntry(id ksuid.KSUID, r *codec.Record) Entry {
	a := r.Analysis()
	return Entry{
		ID:        id,
		CreatedAt: r.Time(),
		Source:    r.Source,
		Analysis:  a,
		Language:  language.Classify(a.Index),
	}
}
