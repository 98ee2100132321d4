// Package session binds a realtime collection subscription to the
// asynchronous resolution of "who is the current user". It is the
// server-side rendition of the portal's bookmark hooks: one session
// holds at most one live subscription, re-attached whenever the
// resolved identity changes and torn down when it becomes unknown.
package session

import (
	"context"
	"sync"

	"github.com/newsclip-dev/newsclip/internal/auth"
	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/watch"
)

// Phase is the lifecycle state of a collection session.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseWaitingForAuth Phase = "waiting_for_auth"
	PhaseSubscribed     Phase = "subscribed"
	PhaseEmpty          Phase = "empty"
)

// State is the UI-facing view of a session: the current items, whether
// a first snapshot is still pending, and the last subscription error.
type State struct {
	Items   []*domain.BookmarkRecord
	Loading bool
	Err     string
}

// Collection is one auth-gated subscription to one bookmark kind.
type Collection struct {
	kind     domain.Kind
	provider auth.Provider
	watcher  *watch.Watcher
	external string // caller-supplied id, authoritative when non-empty
	logger   logger.Logger
	onState  func(State) // optional sink, set before Start

	mu          sync.Mutex
	phase       Phase
	state       State
	userID      string // currently resolved identity
	gen         int    // bumped on every re-subscription; stale-callback guard
	cancelSub   func()
	stopObserve func()
	stopped     bool
}

// New creates an idle session. externalUserID may be empty, in which
// case the provider's identity is followed.
func New(kind domain.Kind, provider auth.Provider, watcher *watch.Watcher, externalUserID string, log logger.Logger) *Collection {
	return &Collection{
		kind:     kind,
		provider: provider,
		watcher:  watcher,
		external: externalUserID,
		logger:   log,
		phase:    PhaseIdle,
	}
}

// OnState registers a sink invoked after every state change. Must be
// called before Start. The sink runs outside the session lock and may
// be called from multiple goroutines; it must not call back into the
// session. A delivery may still be in flight when Stop returns.
func (c *Collection) OnState(fn func(State)) {
	c.onState = fn
}

// Start begins observing identity changes. The provider delivers the
// current identity synchronously, so by the time Start returns the
// session is either Subscribed, Empty, or WaitingForAuth.
func (c *Collection) Start(ctx context.Context) {
	c.mu.Lock()
	if c.stopped || c.phase != PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseWaitingForAuth
	c.mu.Unlock()

	stop := c.provider.Observe(func(observed string) {
		c.setIdentity(ctx, auth.Resolve(c.external, observed))
	})

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		stop()
		return
	}
	c.stopObserve = stop
	c.mu.Unlock()
}

// Stop tears the session down: the collection subscription first, then
// the identity observer, in reverse order of attachment. Idempotent.
func (c *Collection) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.gen++
	cancelSub := c.cancelSub
	stopObserve := c.stopObserve
	c.cancelSub = nil
	c.stopObserve = nil
	c.mu.Unlock()

	if cancelSub != nil {
		cancelSub()
	}
	if stopObserve != nil {
		stopObserve()
	}
}

// State returns the current session state.
func (c *Collection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns the current lifecycle phase.
func (c *Collection) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// setIdentity re-keys the subscription to the resolved identity. The
// old subscription is always detached before a new one attaches, so at
// most one is live per session at any time.
func (c *Collection) setIdentity(ctx context.Context, userID string) {
	c.mu.Lock()
	if c.stopped || (userID == c.userID && c.phase != PhaseWaitingForAuth) {
		c.mu.Unlock()
		return
	}
	c.userID = userID
	c.gen++
	gen := c.gen
	oldCancel := c.cancelSub
	c.cancelSub = nil

	if userID == "" {
		// Logged out / identity unknown.
		c.phase = PhaseEmpty
		c.state = State{Items: nil, Loading: false, Err: ""}
		st := c.state
		c.mu.Unlock()
		if oldCancel != nil {
			oldCancel()
		}
		c.emit(st)
		return
	}

	c.phase = PhaseSubscribed
	c.state.Loading = true
	st := c.state
	c.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}
	c.emit(st)

	cancel, err := c.watcher.Subscribe(ctx, userID, c.kind,
		func(records []*domain.BookmarkRecord) { c.onData(gen, records) },
		func(err error) { c.onError(gen, err) },
	)
	if err != nil {
		c.onError(gen, err)
		return
	}

	c.mu.Lock()
	if c.stopped || gen != c.gen {
		// Identity moved on while we were attaching.
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancelSub = cancel
	c.mu.Unlock()
}

func (c *Collection) onData(gen int, records []*domain.BookmarkRecord) {
	c.mu.Lock()
	if c.stopped || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = State{Items: records, Loading: false, Err: ""}
	st := c.state
	c.mu.Unlock()
	c.emit(st)
}

func (c *Collection) onError(gen int, err error) {
	c.mu.Lock()
	if c.stopped || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.logger.Warn("collection session error",
		logger.String("user_id", c.userID),
		logger.String("kind", string(c.kind)),
		logger.Error(err))
	// Items keep their last known value; a transient error must not
	// wipe an already-loaded list.
	c.state.Err = err.Error()
	c.state.Loading = false
	st := c.state
	c.mu.Unlock()
	c.emit(st)
}

func (c *Collection) emit(st State) {
	if c.onState != nil {
		c.onState(st)
	}
}
