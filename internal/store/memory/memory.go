// Package memory is the in-process bookmark store. It backs tests and
// the "memory" store backend, and implements the same contract as the
// Redis store, including the change feed.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

type collectionID struct {
	userID string
	kind   domain.Kind
}

// Store keeps bookmark records in mutex-guarded maps and fans change
// signals out to attached feeds.
type Store struct {
	mu      sync.RWMutex
	records map[collectionID]map[string]*domain.BookmarkRecord // derived key -> record
	feeds   map[collectionID]map[string]chan struct{}          // subscriber id -> signal channel
	now     func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[collectionID]map[string]*domain.BookmarkRecord),
		feeds:   make(map[collectionID]map[string]chan struct{}),
		now:     time.Now,
	}
}

// Upsert writes the full record at the derived key, replacing any prior
// record there.
func (s *Store) Upsert(_ context.Context, userID string, kind domain.Kind, article *domain.Article) (*domain.BookmarkRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("upsert: empty user id: %w", domain.ErrInvalidArgument)
	}
	norm := domain.Normalize(article.Link)
	if norm == "" {
		return nil, fmt.Errorf("upsert: empty article url: %w", domain.ErrInvalidArgument)
	}

	record := domain.NewRecord(kind, article, s.now())
	id := collectionID{userID: userID, kind: kind}

	s.mu.Lock()
	coll, ok := s.records[id]
	if !ok {
		coll = make(map[string]*domain.BookmarkRecord)
		s.records[id] = coll
	}
	coll[domain.DeriveKey(kind, norm)] = record
	s.mu.Unlock()

	s.notify(id)
	return record, nil
}

// Remove deletes any record at the URL's derived key; absence and empty
// arguments are silent no-ops.
func (s *Store) Remove(_ context.Context, userID string, kind domain.Kind, rawURL string) error {
	norm := domain.Normalize(rawURL)
	if userID == "" || norm == "" {
		return nil
	}

	id := collectionID{userID: userID, kind: kind}
	derived := domain.DeriveKey(kind, norm)

	s.mu.Lock()
	coll := s.records[id]
	_, existed := coll[derived]
	delete(coll, derived)
	s.mu.Unlock()

	if existed {
		s.notify(id)
	}
	return nil
}

// Exists reports whether a record currently sits at the URL's derived key.
func (s *Store) Exists(_ context.Context, userID string, kind domain.Kind, rawURL string) (bool, error) {
	norm := domain.Normalize(rawURL)
	if userID == "" || norm == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[collectionID{userID: userID, kind: kind}][domain.DeriveKey(kind, norm)]
	return ok, nil
}

// List returns copies of the user's entire collection, unordered.
func (s *Store) List(_ context.Context, userID string, kind domain.Kind) ([]*domain.BookmarkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.records[collectionID{userID: userID, kind: kind}]
	records := make([]*domain.BookmarkRecord, 0, len(coll))
	for _, record := range coll {
		clone := *record
		records = append(records, &clone)
	}
	return records, nil
}

// Changes attaches a change feed for one user's collection. The stop
// function detaches it and closes the channel; calling stop more than
// once is safe.
func (s *Store) Changes(_ context.Context, userID string, kind domain.Kind) (<-chan struct{}, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("changes: empty user id: %w", domain.ErrInvalidArgument)
	}

	id := collectionID{userID: userID, kind: kind}
	subID := uuid.NewString()
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	subs, ok := s.feeds[id]
	if !ok {
		subs = make(map[string]chan struct{})
		s.feeds[id] = subs
	}
	subs[subID] = ch
	s.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.feeds[id], subID)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, stop, nil
}

// SetClock overrides the timestamp source for new records. Test support.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// notify signals every feed attached to the collection. Signals
// coalesce: one pending signal is enough, readers re-read the whole
// collection anyway.
func (s *Store) notify(id collectionID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.feeds[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
