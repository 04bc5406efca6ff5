package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/logger"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/token"
	"golang.org/x/sync/singleflight"
)

const defaultLogoutTimeout = 5 * time.Second

// Manager owns the session lifecycle: sign in, sign up, token checks and
// logout. It builds the API client so that every request carries the stored
// token and any 401 logs the user out.
type Manager struct {
	store     *session.Store
	validator *token.Validator
	bus       *events.Bus
	client    *api.Client

	navMu sync.RWMutex
	nav   Navigator

	logouts       singleflight.Group
	logoutTimeout time.Duration
	notifications sync.WaitGroup
}

// creates a manager and its API client
func NewManager(store *session.Store, validator *token.Validator, bus *events.Bus, opts Options) *Manager {
	m := &Manager{
		store:         store,
		validator:     validator,
		bus:           bus,
		logoutTimeout: opts.LogoutTimeout,
	}

	if m.logoutTimeout <= 0 {
		m.logoutTimeout = defaultLogoutTimeout
	}

	interceptors := []api.Interceptor{api.WithLogging()}
	if opts.Limiter != nil {
		interceptors = append(interceptors, api.WithRateLimit(opts.Limiter))
	}
	interceptors = append(interceptors,
		api.WithAuth(m.currentToken, opts.AuthScheme),
		api.WithUnauthorized(m.onUnauthorized),
	)

	m.client = api.NewClient(opts.Endpoint, opts.Timeout, opts.Transport, interceptors...)

	return m
}

// returns the token-bearing API client
func (m *Manager) Client() *api.Client {
	return m.client
}

// returns the session store
func (m *Manager) Store() *session.Store {
	return m.store
}

// returns the token validator
func (m *Manager) Validator() *token.Validator {
	return m.validator
}

// returns the event bus
func (m *Manager) Bus() *events.Bus {
	return m.bus
}

// sets where logout sends the user
func (m *Manager) SetNavigator(nav Navigator) {
	m.navMu.Lock()
	defer m.navMu.Unlock()

	m.nav = nav
}

func (m *Manager) navigate(route string) {
	m.navMu.RLock()
	nav := m.nav
	m.navMu.RUnlock()

	if nav != nil {
		nav.Navigate(route)
	}
}

func (m *Manager) currentToken(ctx context.Context) string {
	return m.store.Read(ctx).Token
}

func (m *Manager) onUnauthorized(req *http.Request) {
	m.Logout(context.WithoutCancel(req.Context()))
}

// stores sess and announces the sign in
func (m *Manager) Login(ctx context.Context, sess session.Session) {
	m.store.Save(ctx, sess)
	m.bus.Auth.Publish(events.AuthChange{IsAuthenticated: true})

	logger.Info("signed in", "user", sess.UserName)
}

// signs in with credentials and stores the returned session
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	resp, err := m.client.SignIn(ctx, username, password)
	if err != nil {
		return err
	}

	m.Login(ctx, sessionFrom(resp, username))
	return nil
}

// creates an account. the backend may sign the user in right away by
// returning a token; otherwise the caller should route to sign in.
func (m *Manager) SignUp(ctx context.Context, name, username, password string) (SignUpResult, error) {
	resp, err := m.client.SignUp(ctx, name, username, password)
	if err != nil {
		return SignUpResult{}, err
	}

	if resp.Token == "" {
		return SignUpResult{LoggedIn: false}, nil
	}

	if resp.Name == "" {
		resp.Name = name
	}

	m.Login(ctx, sessionFrom(resp, username))
	return SignUpResult{LoggedIn: true}, nil
}

func sessionFrom(resp *api.AuthResponse, username string) session.Session {
	name := resp.Name
	if name == "" {
		name = username
	}

	return session.Session{
		Token:     resp.Token,
		UserName:  name,
		AvatarURL: session.AvatarPtr(resp.ProfilePicture),
	}
}

// clears the session, announces it and sends the user to sign in. the
// backend is told afterwards, in the background, and its answer is ignored.
// concurrent calls share one run; repeated calls are harmless.
func (m *Manager) Logout(ctx context.Context) {
	m.logouts.Do("logout", func() (any, error) { //nolint:errcheck
		captured := m.store.Read(ctx).Token

		m.store.Clear(ctx)
		m.bus.Auth.Publish(events.AuthChange{IsAuthenticated: false})
		m.navigate(RouteSignIn)

		if captured != "" {
			logger.Info("logged out")
			m.notifyLogout(ctx, captured)
		}

		return nil, nil
	})
}

func (m *Manager) notifyLogout(ctx context.Context, captured string) {
	m.notifications.Add(1)

	go func() {
		defer m.notifications.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.logoutTimeout)
		defer cancel()

		if err := m.client.Logout(ctx, captured); err != nil {
			logger.Debug("logout notification failed", "error", err)
		}
	}()
}

// blocks until background logout notifications have finished
func (m *Manager) Wait() {
	m.notifications.Wait()
}

// reports whether a stored token exists and has not expired. unlike
// IsValid it never logs out.
func (m *Manager) Authenticated(ctx context.Context) bool {
	sess := m.store.Read(ctx)
	return sess.Authenticated() && !m.validator.IsExpired(sess.Token)
}

// reports whether the stored token is usable. a missing or expired token
// logs out as a side effect, leaving the store empty.
func (m *Manager) IsValid(ctx context.Context) bool {
	sess := m.store.Read(ctx)

	if !sess.Authenticated() {
		m.Logout(ctx)
		return false
	}

	if m.validator.IsExpired(sess.Token) {
		logger.Info("stored token expired", "user", sess.UserName)
		m.Logout(ctx)
		return false
	}

	return true
}

// returns the current auth state
func (m *Manager) State(ctx context.Context) AuthState {
	return AuthState{IsAuthenticated: m.Authenticated(ctx)}
}
