// Package watch turns the store's change feed into live collection
// snapshots: every mutation to a user's collection re-delivers the full
// sorted list to the subscriber.
package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/store"
)

// Watcher builds realtime subscriptions on top of any bookmark store.
type Watcher struct {
	store  store.Bookmarks
	logger logger.Logger
}

// New creates a Watcher over the given store.
func New(st store.Bookmarks, log logger.Logger) *Watcher {
	return &Watcher{store: st, logger: log}
}

// Subscribe attaches a live view of one user's collection.
//
// The subscriber receives the current snapshot at attach time and a
// fresh one after every change, sorted newest first. Failures while
// reading go to onError; the subscription stays attached and is never
// retried internally. The returned cancel function detaches the feed,
// is idempotent, and guarantees no callback runs after it returns.
// Callbacks run on a single goroutine and must not call cancel
// themselves.
func (w *Watcher) Subscribe(
	ctx context.Context,
	userID string,
	kind domain.Kind,
	onData func([]*domain.BookmarkRecord),
	onError func(error),
) (func(), error) {
	feed, stopFeed, err := w.store.Changes(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	sub := &subscription{
		watcher: w,
		ctx:     ctx,
		userID:  userID,
		kind:    kind,
		onData:  onData,
		onError: onError,
	}

	go sub.run(feed)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			sub.mu.Lock()
			sub.cancelled = true
			sub.mu.Unlock()
			stopFeed()
		})
	}
	return cancel, nil
}

type subscription struct {
	watcher *Watcher
	ctx     context.Context
	userID  string
	kind    domain.Kind
	onData  func([]*domain.BookmarkRecord)
	onError func(error)

	// mu serializes callback delivery against cancellation so that no
	// callback fires once cancel has returned.
	mu        sync.Mutex
	cancelled bool
}

func (s *subscription) run(feed <-chan struct{}) {
	// Initial snapshot at attach time.
	s.deliver()

	for range feed {
		s.deliver()
	}

	// A closed feed means either cancellation (silent) or a transport
	// failure upstream.
	s.fail(fmt.Errorf("change feed closed"))
}

func (s *subscription) deliver() {
	records, err := s.watcher.store.List(s.ctx, s.userID, s.kind)
	if err != nil {
		s.fail(err)
		return
	}
	store.SortNewestFirst(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.onData(records)
}

func (s *subscription) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.watcher.logger.Warn("subscription error",
		logger.String("user_id", s.userID),
		logger.String("kind", string(s.kind)),
		logger.Error(err))
	s.onError(err)
}
