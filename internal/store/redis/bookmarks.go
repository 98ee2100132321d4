package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

// Store keeps bookmark records in Redis, one JSON value per record plus
// a set of derived keys per collection. Every mutation publishes a
// change event so attached subscriptions can re-read the collection.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a new Redis-backed bookmark store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

// Upsert writes the full denormalized record at the derived key,
// replacing any prior record there. Re-bookmarking the same URL
// overwrites in place with a fresh timestamp.
func (s *Store) Upsert(ctx context.Context, userID string, kind domain.Kind, article *domain.Article) (*domain.BookmarkRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("upsert: empty user id: %w", domain.ErrInvalidArgument)
	}
	norm := domain.Normalize(article.Link)
	if norm == "" {
		return nil, fmt.Errorf("upsert: empty article url: %w", domain.ErrInvalidArgument)
	}

	record := domain.NewRecord(kind, article, s.now())
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	derived := domain.DeriveKey(kind, norm)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, RecordKey(userID, kind, derived), data, 0)
	pipe.SAdd(ctx, CollectionKey(userID, kind), derived)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	s.publish(ctx, userID, kind, derived)
	return record, nil
}

// Remove deletes any record at the URL's derived key. Removing a record
// that does not exist is not an error, and empty arguments no-op.
func (s *Store) Remove(ctx context.Context, userID string, kind domain.Kind, rawURL string) error {
	norm := domain.Normalize(rawURL)
	if userID == "" || norm == "" {
		return nil
	}

	derived := domain.DeriveKey(kind, norm)

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, RecordKey(userID, kind, derived))
	pipe.SRem(ctx, CollectionKey(userID, kind), derived)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}

	// Only notify subscribers when something was actually there.
	if del.Val() > 0 {
		s.publish(ctx, userID, kind, derived)
	}
	return nil
}

// Exists reports whether a record currently sits at the URL's derived key.
func (s *Store) Exists(ctx context.Context, userID string, kind domain.Kind, rawURL string) (bool, error) {
	norm := domain.Normalize(rawURL)
	if userID == "" || norm == "" {
		return false, nil
	}

	n, err := s.client.Exists(ctx, RecordKey(userID, kind, domain.DeriveKey(kind, norm))).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check record: %w", err)
	}
	return n > 0, nil
}

// List reads the user's entire collection, unordered.
func (s *Store) List(ctx context.Context, userID string, kind domain.Kind) ([]*domain.BookmarkRecord, error) {
	keys, err := s.client.SMembers(ctx, CollectionKey(userID, kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection keys: %w", err)
	}

	records := make([]*domain.BookmarkRecord, 0, len(keys))
	for _, derived := range keys {
		data, err := s.client.Get(ctx, RecordKey(userID, kind, derived)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Stale set member, record already gone.
				continue
			}
			return nil, fmt.Errorf("failed to get record: %w", err)
		}

		var record domain.BookmarkRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &record)
	}

	return records, nil
}

// publish is best effort: a missed event only delays the next snapshot
// until the following mutation.
func (s *Store) publish(ctx context.Context, userID string, kind domain.Kind, derived string) {
	_ = s.client.Publish(ctx, NotifyChannel(userID, kind), derived).Err()
}
