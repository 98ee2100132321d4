package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/store/memory"
)

// snapshotSpy records every delivery so tests can assert ordering and
// post-cancel silence.
type snapshotSpy struct {
	mu        sync.Mutex
	snapshots [][]*domain.BookmarkRecord
	errs      []error
	signal    chan struct{}
}

func newSpy() *snapshotSpy {
	return &snapshotSpy{signal: make(chan struct{}, 16)}
}

func (s *snapshotSpy) onData(records []*domain.BookmarkRecord) {
	s.mu.Lock()
	s.snapshots = append(s.snapshots, records)
	s.mu.Unlock()
	s.signal <- struct{}{}
}

func (s *snapshotSpy) onError(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
	s.signal <- struct{}{}
}

func (s *snapshotSpy) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func (s *snapshotSpy) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots), len(s.errs)
}

func (s *snapshotSpy) last() []*domain.BookmarkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil
	}
	return s.snapshots[len(s.snapshots)-1]
}

func article(link string) *domain.Article {
	return &domain.Article{Link: link, Title: link}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.Upsert(ctx, "alice", domain.KindSaved, article("https://news.example.com/a"))
	require.NoError(t, err)

	spy := newSpy()
	cancel, err := New(st, logger.Nop()).Subscribe(ctx, "alice", domain.KindSaved, spy.onData, spy.onError)
	require.NoError(t, err)
	defer cancel()

	spy.wait(t)
	require.Len(t, spy.last(), 1)
	assert.Equal(t, "https://news.example.com/a", spy.last()[0].URL)
}

func TestSubscribeRedeliversOnChange(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	spy := newSpy()
	cancel, err := New(st, logger.Nop()).Subscribe(ctx, "alice", domain.KindSaved, spy.onData, spy.onError)
	require.NoError(t, err)
	defer cancel()

	spy.wait(t) // initial, empty
	assert.Empty(t, spy.last())

	_, err = st.Upsert(ctx, "alice", domain.KindSaved, article("https://news.example.com/a"))
	require.NoError(t, err)

	spy.wait(t)
	require.Len(t, spy.last(), 1)

	require.NoError(t, st.Remove(ctx, "alice", domain.KindSaved, "https://news.example.com/a"))
	spy.wait(t)
	assert.Empty(t, spy.last())
}

func TestSnapshotsSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	// Bookmark three articles at t=100, t=300, t=200.
	for _, tc := range []struct {
		link string
		at   int64
	}{
		{link: "https://news.example.com/t100", at: 100},
		{link: "https://news.example.com/t300", at: 300},
		{link: "https://news.example.com/t200", at: 200},
	} {
		at := time.UnixMilli(tc.at)
		st.SetClock(func() time.Time { return at })
		_, err := st.Upsert(ctx, "alice", domain.KindSaved, article(tc.link))
		require.NoError(t, err)
	}

	spy := newSpy()
	cancel, err := New(st, logger.Nop()).Subscribe(ctx, "alice", domain.KindSaved, spy.onData, spy.onError)
	require.NoError(t, err)
	defer cancel()

	spy.wait(t)
	got := spy.last()
	require.Len(t, got, 3)
	assert.Equal(t, int64(300), got[0].BookmarkedAt)
	assert.Equal(t, int64(200), got[1].BookmarkedAt)
	assert.Equal(t, int64(100), got[2].BookmarkedAt)
}

func TestCancelStopsDeliveries(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	spy := newSpy()
	cancel, err := New(st, logger.Nop()).Subscribe(ctx, "alice", domain.KindSaved, spy.onData, spy.onError)
	require.NoError(t, err)

	spy.wait(t) // initial

	cancel()
	cancel() // idempotent

	dataBefore, errsBefore := spy.counts()

	_, err = st.Upsert(ctx, "alice", domain.KindSaved, article("https://news.example.com/a"))
	require.NoError(t, err)

	// Give a stray delivery every chance to show up.
	time.Sleep(50 * time.Millisecond)

	dataAfter, errsAfter := spy.counts()
	assert.Equal(t, dataBefore, dataAfter, "no onData after cancel")
	assert.Equal(t, errsBefore, errsAfter, "no onError after cancel")
}

func TestListFailureReachesOnError(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: memory.New(), listErr: errors.New("connection reset")}

	spy := newSpy()
	cancel, err := New(st, logger.Nop()).Subscribe(ctx, "alice", domain.KindSaved, spy.onData, spy.onError)
	require.NoError(t, err)
	defer cancel()

	spy.wait(t)
	_, errs := spy.counts()
	require.Equal(t, 1, errs)
}

func TestSubscribeEmptyUserIDFails(t *testing.T) {
	_, err := New(memory.New(), logger.Nop()).Subscribe(context.Background(), "", domain.KindSaved, func([]*domain.BookmarkRecord) {}, func(error) {})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

// failingStore wraps the memory store and fails List.
type failingStore struct {
	*memory.Store
	listErr error
}

func (f *failingStore) List(ctx context.Context, userID string, kind domain.Kind) ([]*domain.BookmarkRecord, error) {
	return nil, f.listErr
}
