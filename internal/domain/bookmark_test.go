package domain

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		segment string
		want    Kind
		wantErr bool
	}{
		{segment: "favorites", want: KindFavorite},
		{segment: "saved", want: KindSaved},
		{segment: "likes", wantErr: true},
		{segment: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got, err := ParseKind(tt.segment)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseKind(%q) should fail", tt.segment)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) error: %v", tt.segment, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.segment, got, tt.want)
			}
		})
	}
}

func TestNewRecord(t *testing.T) {
	article := &Article{
		Link:        "https://news.example.com/politics/article-1/#top",
		Title:       "Article One",
		Description: "desc",
		Thumbnail:   "https://cdn.example.com/t.jpg",
		CoverImage:  "https://cdn.example.com/c.jpg",
		PublishedAt: "2026-08-20T10:00:00Z",
		Source:      "Example News",
		ArticleID:   "a-1",
		Category:    "politics",
	}
	now := time.UnixMilli(1756400000000)

	t.Run("url is stored normalized", func(t *testing.T) {
		rec := NewRecord(KindSaved, article, now)
		if rec.URL != "https://news.example.com/politics/article-1" {
			t.Errorf("record URL = %q, want normalized form", rec.URL)
		}
		if rec.BookmarkedAt != now.UnixMilli() {
			t.Errorf("BookmarkedAt = %d, want %d", rec.BookmarkedAt, now.UnixMilli())
		}
	})

	t.Run("favorites snapshot extra identity fields", func(t *testing.T) {
		rec := NewRecord(KindFavorite, article, now)
		if rec.ArticleID != "a-1" || rec.Category != "politics" {
			t.Errorf("favorite record missing extras: %+v", rec)
		}
	})

	t.Run("saved records omit favorite extras", func(t *testing.T) {
		rec := NewRecord(KindSaved, article, now)
		if rec.ArticleID != "" || rec.Category != "" {
			t.Errorf("saved record carries favorite extras: %+v", rec)
		}
	})
}
