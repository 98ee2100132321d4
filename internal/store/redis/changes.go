package redis

import (
	"context"
	"fmt"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

// Changes attaches a pub/sub change feed for one user's collection.
// Each mutation publishes one message; the feed forwards it as a bare
// signal. The channel is closed when the feed fails or the returned
// stop function is called. Stop is safe to call more than once.
func (s *Store) Changes(ctx context.Context, userID string, kind domain.Kind) (<-chan struct{}, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("changes: empty user id: %w", domain.ErrInvalidArgument)
	}

	pubsub := s.client.Subscribe(ctx, NotifyChannel(userID, kind))

	// Force the subscription onto the wire before returning, so a
	// mutation issued right after attach is not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to attach change feed: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range pubsub.Channel() {
			// Coalesce: one pending signal is enough, the reader
			// re-reads the whole collection anyway.
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	stop := func() { _ = pubsub.Close() }
	return out, stop, nil
}
