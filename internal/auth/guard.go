package auth

import (
	"context"
	"sync"

	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/session"
)

// Guard tracks whether the user is signed in and decides which routes they
// may open. It re-checks on in-process auth changes and on token changes
// made by other processes.
type Guard struct {
	manager  *Manager
	onChange func(AuthState)

	mu          sync.RWMutex
	state       AuthState
	unsubscribe []func()
	closeOnce   sync.Once
}

// creates a guard, runs the initial check and subscribes. onChange, if not
// nil, is called whenever IsAuthenticated flips. Close must be called when
// the guard is no longer needed.
func NewGuard(ctx context.Context, m *Manager, onChange func(AuthState)) *Guard {
	g := &Guard{
		manager:  m,
		onChange: onChange,
		state:    AuthState{IsLoading: true},
	}

	g.set(m.Authenticated(ctx))

	g.unsubscribe = append(g.unsubscribe,
		m.bus.Auth.Subscribe(func(events.AuthChange) {
			g.set(m.Authenticated(ctx))
		}),
		m.bus.Storage.Subscribe(func(change events.StorageChange) {
			if change.Key == session.KeyToken {
				g.set(m.Authenticated(ctx))
			}
		}),
	)

	return g
}

func (g *Guard) set(authenticated bool) {
	g.mu.Lock()
	prev := g.state
	g.state = AuthState{IsAuthenticated: authenticated}
	g.mu.Unlock()

	if g.onChange != nil && (prev.IsLoading || prev.IsAuthenticated != authenticated) {
		g.onChange(g.State())
	}
}

// returns the last computed state
func (g *Guard) State() AuthState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state
}

// reports whether the user is signed in
func (g *Guard) Authenticated() bool {
	return g.State().IsAuthenticated
}

// reports whether route may be opened right now. public routes are always
// allowed; protected ones need a signed in user.
func (g *Guard) Allow(route string) bool {
	if !Protected(route) {
		return true
	}

	return g.Authenticated()
}

// removes the guard's subscriptions; safe to call more than once
func (g *Guard) Close() {
	g.closeOnce.Do(func() {
		g.mu.Lock()
		unsubscribe := g.unsubscribe
		g.unsubscribe = nil
		g.mu.Unlock()

		for _, fn := range unsubscribe {
			fn()
		}
	})
}
