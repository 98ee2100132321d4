package domain

import "fmt"

// FNV-1a 32-bit parameters.
const (
	fnvSeed  uint32 = 2166136261
	fnvPrime uint32 = 16777619
)

// DeriveKey maps a raw article URL to the storage key for one collection:
// the kind's prefix followed by 8 lowercase hex characters of an FNV-1a
// 32-bit hash over the normalized URL.
//
// The hash is non-cryptographic; it only needs to avoid accidental key
// clashes across a modest per-user article count. Two distinct normalized
// URLs colliding is tolerated: each record carries its own URL, so a
// collision is detectable on read.
func DeriveKey(kind Kind, rawURL string) string {
	return kind.KeyPrefix() + fmt.Sprintf("%08x", fnv1a32(Normalize(rawURL)))
}

func fnv1a32(s string) uint32 {
	h := fnvSeed
	for _, r := range s {
		h ^= uint32(r)
		h *= fnvPrime
	}
	return h
}
