package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/errors"
	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := token.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

// records navigations
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.routes...)
}

// fake backend counting logout notifications
type fakeBackend struct {
	*httptest.Server
	logouts      atomic.Int32
	logoutTokens chan string
}

func newFakeBackend(t *testing.T, routes map[string]http.HandlerFunc) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{logoutTokens: make(chan string, 8)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		fb.logouts.Add(1)
		fb.logoutTokens <- r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)

	return fb
}

func newTestManager(t *testing.T, backend session.Backend, srv *fakeBackend) (*Manager, *recordingNavigator) {
	t.Helper()

	nav := &recordingNavigator{}
	m := NewManager(session.NewStore(backend), token.NewValidator(), events.NewBus(), Options{
		Endpoint: srv.URL + "/api/v1",
		Timeout:  time.Second,
	})
	m.SetNavigator(nav)

	return m, nav
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func TestIsValid_NoTokenLogsOutWithoutNotifying(t *testing.T) {
	srv := newFakeBackend(t, nil)
	m, nav := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	var changes []bool
	m.Bus().Auth.Subscribe(func(e events.AuthChange) { changes = append(changes, e.IsAuthenticated) })

	assert.False(t, m.IsValid(ctx))
	assert.False(t, m.IsValid(ctx), "idempotent on an already empty store")

	m.Wait()
	assert.False(t, m.Store().Read(ctx).Authenticated())
	assert.Equal(t, []string{RouteSignIn, RouteSignIn}, nav.Routes())
	assert.Equal(t, []bool{false, false}, changes)
	assert.Zero(t, srv.logouts.Load(), "nothing to invalidate without a token")
}

func TestIsValid_ExpiredTokenLogsOut(t *testing.T) {
	srv := newFakeBackend(t, nil)
	m, nav := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	expired := mintToken(t, time.Now().Add(-time.Minute))
	m.Login(ctx, session.Session{Token: expired, UserName: "ada"})

	assert.False(t, m.IsValid(ctx))
	m.Wait()

	assert.Equal(t, session.Session{}, m.Store().Read(ctx))
	assert.Equal(t, []string{RouteSignIn}, nav.Routes())
	assert.Equal(t, expired, <-srv.logoutTokens, "notification carries the captured token")
}

func TestIsValid_LiveToken(t *testing.T) {
	srv := newFakeBackend(t, nil)
	m, nav := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	m.Login(ctx, session.Session{Token: mintToken(t, time.Now().Add(time.Hour)), UserName: "ada"})

	assert.True(t, m.IsValid(ctx))
	assert.True(t, m.State(ctx).IsAuthenticated)
	assert.Empty(t, nav.Routes())
}

func TestUnauthorizedResponseLogsOutAndCallerStillFails(t *testing.T) {
	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/content": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, errors.ErrorResponse{Error: "Token revoked"})
		},
	})
	m, nav := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	live := mintToken(t, time.Now().Add(time.Hour))
	m.Login(ctx, session.Session{Token: live, UserName: "ada", AvatarURL: session.AvatarPtr("https://cdn/a.png")})

	_, err := m.Client().ListContent(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err), "the original failure reaches the caller")

	m.Wait()
	assert.Equal(t, session.Session{}, m.Store().Read(ctx))
	assert.Equal(t, []string{RouteSignIn}, nav.Routes())
	assert.Equal(t, live, <-srv.logoutTokens)
}

func TestConcurrentUnauthorizedResponsesLogOutOnce(t *testing.T) {
	release := make(chan struct{})

	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/content": func(w http.ResponseWriter, r *http.Request) {
			<-release
			writeJSON(w, http.StatusUnauthorized, errors.ErrorResponse{Error: "expired"})
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	m.Login(ctx, session.Session{Token: mintToken(t, time.Now().Add(time.Hour)), UserName: "ada"})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Client().ListContent(ctx)
		}()
	}

	close(release)
	wg.Wait()
	m.Wait()

	for _, err := range errs {
		assert.True(t, errors.IsUnauthorized(err))
	}
	assert.Equal(t, session.Session{}, m.Store().Read(ctx))
	assert.Equal(t, int32(1), srv.logouts.Load(), "the token is only invalidated once")
}

func TestLogout_ConcurrentCallsReachSameEndState(t *testing.T) {
	srv := newFakeBackend(t, nil)
	m, nav := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	m.Login(ctx, session.Session{Token: mintToken(t, time.Now().Add(time.Hour)), UserName: "ada"})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Logout(ctx)
		}()
	}
	wg.Wait()
	m.Wait()

	assert.Equal(t, session.Session{}, m.Store().Read(ctx))
	assert.NotEmpty(t, nav.Routes())
	for _, route := range nav.Routes() {
		assert.Equal(t, RouteSignIn, route)
	}
	assert.Equal(t, int32(1), srv.logouts.Load())
}

func TestLogout_FailedNotificationDoesNotBlockCleanup(t *testing.T) {
	m, nav := newTestManager(t, session.NewMemoryBackend(), &fakeBackend{Server: unreachableServer(t)})
	ctx := context.Background()

	m.Login(ctx, session.Session{Token: mintToken(t, time.Now().Add(time.Hour)), UserName: "ada"})
	m.Logout(ctx)

	// local state is already cleared before the notification finishes
	assert.Equal(t, session.Session{}, m.Store().Read(ctx))
	assert.Equal(t, []string{RouteSignIn}, nav.Routes())

	m.Wait()
}

// returns a server that is already closed, so every request fails to connect
func unreachableServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	return srv
}

func TestSignIn_StoresSessionAndAnnounces(t *testing.T) {
	live := mintToken(t, time.Now().Add(time.Hour))

	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/signin": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, api.AuthResponse{Token: live, Name: "Ada Lovelace"})
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	var announced []bool
	m.Bus().Auth.Subscribe(func(e events.AuthChange) { announced = append(announced, e.IsAuthenticated) })

	require.NoError(t, m.SignIn(ctx, "ada", "pw"))

	assert.Equal(t, session.Session{Token: live, UserName: "Ada Lovelace"}, m.Store().Read(ctx))
	assert.Equal(t, []bool{true}, announced)
}

func TestSignIn_FailureLeavesStoreEmpty(t *testing.T) {
	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/signin": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, errors.ErrorResponse{Error: "Incorrect credentials"})
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	err := m.SignIn(ctx, "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryAuth, errors.Classify(err, "").Category)
	assert.False(t, m.Store().Read(ctx).Authenticated())
}

func TestSignUp(t *testing.T) {
	live := mintToken(t, time.Now().Add(time.Hour))

	tests := []struct {
		name     string
		response map[string]string
		loggedIn bool
		userName string
	}{
		{"without token routes to sign in", map[string]string{"message": "created"}, false, ""},
		{"with token signs in", map[string]string{"token": live}, true, "Ada"},
		{"uses returned name", map[string]string{"token": live, "name": "Countess"}, true, "Countess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeBackend(t, map[string]http.HandlerFunc{
				"POST /api/v1/signup": func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, http.StatusOK, tt.response)
				},
			})
			m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
			ctx := context.Background()

			result, err := m.SignUp(ctx, "Ada", "ada", "pw")
			require.NoError(t, err)
			assert.Equal(t, tt.loggedIn, result.LoggedIn)
			assert.Equal(t, tt.userName, m.Store().Read(ctx).UserName)
		})
	}
}

func TestProfile_RefreshAndUpdate(t *testing.T) {
	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/me": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"user": content.User{Name: "Ada", ProfilePicture: "https://cdn/a.png"}})
		},
		"PUT /api/v1/update": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"user": content.User{Name: "Ada L", ProfilePicture: "https://cdn/b.png"}})
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	live := mintToken(t, time.Now().Add(time.Hour))
	m.Login(ctx, session.Session{Token: live, UserName: "ada"})

	var seen []Profile
	unsubscribe := m.WatchProfile(ctx, func(p Profile) { seen = append(seen, p) })
	defer unsubscribe()

	_, err := m.RefreshProfile(ctx)
	require.NoError(t, err)

	_, err = m.UpdateProfile(ctx, api.ProfileUpdate{Name: "Ada L"})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "Ada", seen[0].Name)
	assert.Equal(t, "https://cdn/a.png", *seen[0].AvatarURL)
	assert.Equal(t, "Ada L", seen[1].Name)

	assert.Equal(t, live, m.Store().Read(ctx).Token, "profile edits never touch the token")
}

func TestProfile_RefreshFailureKeepsStoredName(t *testing.T) {
	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/me": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, errors.ErrorResponse{Error: "db down"})
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	m.Login(ctx, session.Session{Token: mintToken(t, time.Now().Add(time.Hour)), UserName: "ada"})

	_, err := m.RefreshProfile(ctx)
	require.Error(t, err)
	assert.Equal(t, "ada", m.Profile(ctx).Name)
}

func TestResetPassword(t *testing.T) {
	var got map[string]string

	srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/reset-password": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
			w.WriteHeader(http.StatusOK)
		},
	})
	m, _ := newTestManager(t, session.NewMemoryBackend(), srv)
	ctx := context.Background()

	require.Error(t, m.ResetPassword(ctx, "ada", ""))
	require.NoError(t, m.ResetPassword(ctx, "ada", "n3w"))
	assert.Equal(t, map[string]string{"username": "ada", "newPassword": "n3w"}, got)
}
