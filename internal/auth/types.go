package auth

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// client routes
const (
	RouteSignIn      = "/signin"
	RouteSignUp      = "/signup"
	RouteDashboard   = "/dashboard"
	RouteSettings    = "/settings"
	RouteContentView = "/content/view/"
	RouteSharedBrain = "/brain/"
	RouteSharedItem  = "/content/"
)

// reports whether route needs a signed in user
func Protected(route string) bool {
	switch {
	case route == RouteDashboard, route == RouteSettings:
		return true
	case strings.HasPrefix(route, RouteContentView):
		return true
	default:
		return false
	}
}

// AuthState is derived from the stored session and the token validator.
// IsLoading is only true before the first check has run.
type AuthState struct {
	IsAuthenticated bool
	IsLoading       bool
}

// Navigator moves the user to another route. implementations must not block
// the caller: logout can run from inside a request.
type Navigator interface {
	Navigate(route string)
}

// adapts a function to Navigator
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// Options configures the API client a Manager builds
type Options struct {
	Endpoint   string
	AuthScheme string
	Timeout    time.Duration

	// nil disables client-side rate limiting
	Limiter *rate.Limiter

	// nil uses http.DefaultTransport
	Transport http.RoundTripper

	// bound on the background logout notification
	LogoutTimeout time.Duration
}

// SignUpResult tells the caller whether sign up also signed the user in.
// when it did not, the user continues on the sign in screen.
type SignUpResult struct {
	LoggedIn bool
}
