package authclient

import (
	"context"
	"sync"
)

// AuthState names the coordinator's lifecycle states.
type AuthState string

const (
	StateUninitialized AuthState = "uninitialized"
	StateLoading       AuthState = "loading"
	StateAuthenticated AuthState = "authenticated"
	StateAnonymous     AuthState = "anonymous"
)

// Snapshot is the unified contract route guards consume. A present User with
// a nil Record means the role is still indeterminate, not an error.
type Snapshot struct {
	State   AuthState
	User    Identity
	Record  *RoleRecord
	Loading bool
}

// Role returns the resolved role, ok false while indeterminate.
func (s Snapshot) Role() (Role, bool) {
	if s.Record == nil {
		return "", false
	}
	return s.Record.Role, true
}

// Approval returns the resolved approval state, ok false while
// indeterminate.
func (s Snapshot) Approval() (ApprovalState, bool) {
	if s.Record == nil {
		return "", false
	}
	return s.Record.Approval, true
}

// Coordinator reacts to sign-in/sign-out notifications from the auth
// provider, drives role resolution, and publishes snapshots to subscribers.
//
// Notifications are last-write-wins: each one bumps a generation counter,
// and a resolution that finishes after a newer notification arrived is
// discarded instead of clobbering the newer state.
type Coordinator struct {
	provider AuthProvider
	resolver *Resolver
	tokens   *TokenManager
	logger   Logger
	activity ActivitySink

	mu      sync.Mutex
	gen     uint64
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewCoordinator wires the provider, resolver, and token manager together.
// The token manager may be nil when the host owns session clearing itself.
func NewCoordinator(provider AuthProvider, resolver *Resolver, tokens *TokenManager) *Coordinator {
	return &Coordinator{
		provider: provider,
		resolver: resolver,
		tokens:   tokens,
		logger:   defLogger{},
		activity: noopActivitySink{},
		snap:     Snapshot{State: StateUninitialized, Loading: true},
		subs:     map[int]func(Snapshot){},
	}
}

func (c *Coordinator) WithLogger(logger Logger) *Coordinator {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithActivitySink configures an ActivitySink for lifecycle events.
func (c *Coordinator) WithActivitySink(sink ActivitySink) *Coordinator {
	c.activity = normalizeActivitySink(sink)
	return c
}

// Snapshot returns the current state. Loading stays true from module start
// until the first resolution completes, so route guards never redirect
// before the role is known.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers a callback invoked on every snapshot change and
// returns an unsubscribe function. The callback runs outside the
// coordinator lock.
func (c *Coordinator) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Start reads any existing identity from the auth provider and resolves its
// role. Hosts call it once on module start.
func (c *Coordinator) Start(ctx context.Context) {
	gen := c.beginLoading(nil)

	identity, err := c.provider.CurrentIdentity(ctx)
	if err != nil {
		c.logger.Warn("failed to read current identity: %v", err)
	}

	if identity == nil || identity.ID() == "" {
		c.finish(gen, Snapshot{State: StateAnonymous})
		return
	}

	c.resolveAndFinish(ctx, gen, identity)
}

// SignedIn handles an external "signed in" notification for identity.
func (c *Coordinator) SignedIn(ctx context.Context, identity Identity) {
	gen := c.beginLoading(identity)

	recordActivity(ctx, c.activity, c.logger, ActivityEvent{
		EventType: ActivityEventSignIn,
		UserID:    identity.ID(),
	})

	c.resolveAndFinish(ctx, gen, identity)
}

// SignedOut handles an external "signed out" notification. Local identity,
// role, and approval state are cleared synchronously before the remote
// sign-out call, so a slow or failing provider never leaves a stale role
// behind.
func (c *Coordinator) SignedOut(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	c.snap = Snapshot{State: StateAnonymous}
	snap := c.snap
	subs := c.subscribers()
	c.mu.Unlock()

	if c.tokens != nil {
		c.tokens.Clear(ctx)
	}

	c.publish(snap, subs)

	recordActivity(ctx, c.activity, c.logger, ActivityEvent{
		EventType: ActivityEventSignOut,
	})

	if err := c.provider.SignOut(ctx); err != nil {
		c.logger.Warn("remote sign-out failed, local state already cleared: %v", err)
	}
}

// beginLoading transitions to Loading and returns the generation that must
// still be current for the eventual resolution to apply.
func (c *Coordinator) beginLoading(identity Identity) uint64 {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.snap = Snapshot{State: StateLoading, User: identity, Loading: true}
	snap := c.snap
	subs := c.subscribers()
	c.mu.Unlock()

	c.publish(snap, subs)
	return gen
}

func (c *Coordinator) resolveAndFinish(ctx context.Context, gen uint64, identity Identity) {
	record, err := c.resolver.Resolve(ctx, identity.ID())
	if err != nil {
		// Role stays indeterminate; the identity is still reported.
		c.logger.Warn("role resolution failed for %s: %v", identity.ID(), err)
		record = nil
	}

	c.finish(gen, Snapshot{State: StateAuthenticated, User: identity, Record: record})
}

// finish applies the terminal snapshot unless a newer notification has
// superseded gen.
func (c *Coordinator) finish(gen uint64, snap Snapshot) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("discarding stale resolution result")
		return
	}
	c.snap = snap
	subs := c.subscribers()
	c.mu.Unlock()

	c.publish(snap, subs)
}

// subscribers snapshots the callback list; callers must hold c.mu.
func (c *Coordinator) subscribers() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (c *Coordinator) publish(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}
