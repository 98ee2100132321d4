// Package store defines the bookmark record store contract shared by the
// Redis and in-memory backends. Implementations are injected into the
// watch and HTTP layers so tests can substitute the in-memory one.
package store

import (
	"context"
	"sort"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

// Bookmarks is a per-user, per-kind collection of bookmark records
// indexed by derived key.
//
// Semantics:
//   - Upsert normalizes the article URL, derives the key and writes the
//     whole record in one put, replacing any prior record at that key.
//     It fails with domain.ErrInvalidArgument before any I/O when the
//     user id is empty or the URL normalizes to "".
//   - Remove deletes whatever sits at the derived key. Absence is not an
//     error, and empty arguments make it a silent no-op.
//   - Exists is a point read at the derived key.
//   - List reads the full collection, unordered.
//   - Changes attaches a change feed for one user's collection: the
//     returned channel receives a signal after every mutation. The feed
//     is released by the stop function; the channel is closed if the
//     feed fails or is stopped.
//
// Concurrent mutations on the same key are last-write-wins; the store
// does no client-side reconciliation.
type Bookmarks interface {
	Upsert(ctx context.Context, userID string, kind domain.Kind, article *domain.Article) (*domain.BookmarkRecord, error)
	Remove(ctx context.Context, userID string, kind domain.Kind, rawURL string) error
	Exists(ctx context.Context, userID string, kind domain.Kind, rawURL string) (bool, error)
	List(ctx context.Context, userID string, kind domain.Kind) ([]*domain.BookmarkRecord, error)
	Changes(ctx context.Context, userID string, kind domain.Kind) (<-chan struct{}, func(), error)
}

// SortNewestFirst orders records by bookmark time descending.
// Ties are broken by URL so snapshot order is stable across deliveries.
func SortNewestFirst(records []*domain.BookmarkRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].BookmarkedAt != records[j].BookmarkedAt {
			return records[i].BookmarkedAt > records[j].BookmarkedAt
		}
		return records[i].URL < records[j].URL
	})
}
