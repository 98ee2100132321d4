// Package auth abstracts "who is the current user". The provider
// resolves identity asynchronously and pushes changes to observers;
// an externally supplied user id always outranks what the provider
// reports.
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Provider notifies observers of the current user id. An empty id means
// the identity is unknown (logged out, not yet resolved).
type Provider interface {
	// Observe registers fn and synchronously delivers the current
	// identity before returning. The stop function detaches the
	// observer and is safe to call more than once.
	Observe(fn func(userID string)) (stop func())
}

// Resolve applies the identity precedence rule: a caller-supplied id is
// authoritative when given, otherwise the provider-observed id holds.
func Resolve(external, observed string) string {
	if external != "" {
		return external
	}
	return observed
}

// StaticProvider holds a single mutable identity. It backs tests and
// the config-driven default identity.
type StaticProvider struct {
	mu        sync.Mutex
	userID    string
	observers map[string]func(string)
}

// NewStatic creates a provider resolving to the given user id
// (empty = unknown).
func NewStatic(userID string) *StaticProvider {
	return &StaticProvider{
		userID:    userID,
		observers: make(map[string]func(string)),
	}
}

// SetUser changes the current identity and notifies every observer.
func (p *StaticProvider) SetUser(userID string) {
	p.mu.Lock()
	p.userID = userID
	fns := make([]func(string), 0, len(p.observers))
	for _, fn := range p.observers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(userID)
	}
}

// Observe registers fn and delivers the current identity immediately.
func (p *StaticProvider) Observe(fn func(userID string)) func() {
	id := uuid.NewString()

	p.mu.Lock()
	p.observers[id] = fn
	current := p.userID
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}
