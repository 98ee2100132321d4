package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

func testArticle(link string) *domain.Article {
	return &domain.Article{
		Link:        link,
		Title:       "Article",
		Description: "desc",
		Source:      "Example News",
	}
}

func TestUpsertOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	s := New()

	ts := time.UnixMilli(100)
	s.now = func() time.Time { return ts }

	first, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	// Second upsert of the same logical URL, captured with fragment and
	// trailing slash, must land on the same key.
	ts = time.UnixMilli(200)
	second, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a/#frag"))
	require.NoError(t, err)

	records, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	require.Len(t, records, 1, "re-bookmarking must overwrite, not append")
	assert.Equal(t, second.BookmarkedAt, records[0].BookmarkedAt, "second write wins")
	assert.Greater(t, second.BookmarkedAt, first.BookmarkedAt)
	assert.Equal(t, "https://news.example.com/a", records[0].URL, "stored url is the normalized form")
}

func TestUpsertInvalidArguments(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Upsert(ctx, "", domain.KindSaved, testArticle("https://news.example.com/a"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "empty user id")

	_, err = s.Upsert(ctx, "alice", domain.KindSaved, testArticle(""))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "empty url")

	_, err = s.Upsert(ctx, "alice", domain.KindSaved, testArticle("   "))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "whitespace url")

	records, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	assert.Empty(t, records, "failed upserts must not write anything")
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "alice", domain.KindSaved, "https://news.example.com/never-bookmarked"))
	require.NoError(t, s.Remove(ctx, "", domain.KindSaved, "https://news.example.com/a"))
	require.NoError(t, s.Remove(ctx, "alice", domain.KindSaved, ""))

	records, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	assert.Len(t, records, 1, "no-op removes must leave the collection unchanged")
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	article := testArticle("https://news.example.com/politics/article-1/")

	_, err := s.Upsert(ctx, "alice", domain.KindFavorite, article)
	require.NoError(t, err)

	records, err := s.List(ctx, "alice", domain.KindFavorite)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Normalize(article.Link), records[0].URL)

	ok, err := s.Exists(ctx, "alice", domain.KindFavorite, article.Link)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(ctx, "alice", domain.KindFavorite, article.Link))

	ok, err = s.Exists(ctx, "alice", domain.KindFavorite, article.Link)
	require.NoError(t, err)
	assert.False(t, ok)

	records, err = s.List(ctx, "alice", domain.KindFavorite)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestKindsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Upsert(ctx, "alice", domain.KindFavorite, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "alice", domain.KindSaved, "https://news.example.com/a")
	require.NoError(t, err)
	assert.False(t, ok, "favoriting must not touch the saved collection")
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	records, err := s.List(ctx, "bob", domain.KindSaved)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChangesSignalsOnMutation(t *testing.T) {
	ctx := context.Background()
	s := New()

	ch, stop, err := s.Changes(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	defer stop()

	_, err = s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("no change signal after upsert")
	}
}

func TestChangesStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	ch, stop, err := s.Changes(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)

	stop()
	stop() // must not panic

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after stop")

	// Mutations after stop must not panic either.
	_, err = s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)
}

func TestChangesEmptyUserID(t *testing.T) {
	_, _, err := New().Changes(context.Background(), "", domain.KindSaved)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRacingUpsertRemoveConverges(t *testing.T) {
	// Two racing operations on the same key are last-write-wins; the
	// store must simply end in a state matching one of the two.
	ctx := context.Background()
	s := New()
	url := "https://news.example.com/contested"

	_, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle(url))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.Upsert(ctx, "alice", domain.KindSaved, testArticle(url))
	}()
	go func() {
		defer wg.Done()
		_ = s.Remove(ctx, "alice", domain.KindSaved, url)
	}()
	wg.Wait()

	records, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	if len(records) == 1 {
		assert.Equal(t, domain.Normalize(url), records[0].URL)
	} else {
		assert.Empty(t, records, "store must match one of the two racing outcomes")
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Upsert(ctx, "alice", domain.KindSaved, testArticle("https://news.example.com/a"))
	require.NoError(t, err)

	first, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	first[0].Title = "mutated by caller"

	second, err := s.List(ctx, "alice", domain.KindSaved)
	require.NoError(t, err)
	assert.Equal(t, "Article", second[0].Title, "callers must not be able to mutate stored records")
}

func TestRemoveErrorTaxonomy(t *testing.T) {
	// Remove never surfaces absence as an error, so callers can treat
	// any returned error as a transport failure.
	err := New().Remove(context.Background(), "alice", domain.KindSaved, "https://news.example.com/x")
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidArgument))
}
