package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned when a mutation is called with an empty
// user id or a URL that normalizes to the empty string. It is raised
// before any I/O happens.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind selects one of the two parallel bookmark collections.
// Both collections share the same mechanics; they differ only in key
// prefix, storage path and which extra fields get snapshotted.
type Kind string

const (
	// KindFavorite is the favorites collection (keys prefixed "f_").
	KindFavorite Kind = "favorite"
	// KindSaved is the saved-articles collection (keys prefixed "u_").
	KindSaved Kind = "saved"
)

// ParseKind maps a URL path segment to a Kind.
func ParseKind(segment string) (Kind, error) {
	switch segment {
	case "favorites":
		return KindFavorite, nil
	case "saved":
		return KindSaved, nil
	default:
		return "", fmt.Errorf("unknown bookmark kind %q", segment)
	}
}

// KeyPrefix returns the derived-key prefix for the kind.
// Different prefixes keep the two collections from ever colliding,
// even for the same article.
func (k Kind) KeyPrefix() string {
	if k == KindFavorite {
		return "f_"
	}
	return "u_"
}

// Path returns the storage path segment for the kind.
func (k Kind) Path() string {
	if k == KindFavorite {
		return "favorites"
	}
	return "saved"
}

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindFavorite || k == KindSaved
}

// BookmarkRecord is one bookmarked article for one user in one collection.
type BookmarkRecord struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// URL is the normalized canonical article URL. It is the record's
	// logical identity; a raw, unnormalized URL is never stored.
	URL string `json:"url"`

	// ─────────────────────────────
	// Denormalized article snapshot
	// ─────────────────────────────

	// The metadata below is captured at bookmark time and is NOT kept
	// in sync with the source article if it later changes.

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnailUrl,omitempty"`
	CoverImage  string `json:"coverImageUrl,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Source      string `json:"source,omitempty"`

	// Favorites snapshot slightly more than saved-articles.
	ArticleID string `json:"articleId,omitempty"`
	Category  string `json:"categoryName,omitempty"`

	// ─────────────────────────────
	// Bookkeeping
	// ─────────────────────────────

	// BookmarkedAt is the creation timestamp in epoch milliseconds.
	// It drives the newest-first sort order of collection snapshots.
	BookmarkedAt int64 `json:"bookmarkedAt"`
}

// NewRecord builds the denormalized record for an article being
// bookmarked now. The article URL is normalized; callers must have
// already rejected articles whose URL normalizes to "".
func NewRecord(kind Kind, a *Article, now time.Time) *BookmarkRecord {
	rec := &BookmarkRecord{
		URL:          Normalize(a.Link),
		Title:        a.Title,
		Description:  a.Description,
		Thumbnail:    a.Thumbnail,
		CoverImage:   a.CoverImage,
		PublishedAt:  a.PublishedAt,
		Source:       a.Source,
		BookmarkedAt: now.UnixMilli(),
	}
	if kind == KindFavorite {
		rec.ArticleID = a.ArticleID
		rec.Category = a.Category
	}
	return rec
}
