package redis

import "github.com/newsclip-dev/newsclip/internal/domain"

const (
	// keyPrefix namespaces every key this service writes.
	keyPrefix = "newsclip:"
	// notifyPrefix namespaces the pub/sub change channels.
	notifyPrefix = "newsclip:notify:"
)

// RecordKey returns the Redis key holding one bookmark record:
// newsclip:user:{userID}:{favorites|saved}:{derivedKey}
func RecordKey(userID string, kind domain.Kind, derivedKey string) string {
	return keyPrefix + "user:" + userID + ":" + kind.Path() + ":" + derivedKey
}

// CollectionKey returns the Redis set holding the derived keys of one
// user's collection.
func CollectionKey(userID string, kind domain.Kind) string {
	return keyPrefix + "user:" + userID + ":" + kind.Path()
}

// NotifyChannel returns the pub/sub channel carrying change events for
// one user's collection.
func NotifyChannel(userID string, kind domain.Kind) string {
	return notifyPrefix + userID + ":" + kind.Path()
}
