package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/secondbrain/client/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Interceptor wraps a transport with behavior applied to every request
type Interceptor func(http.RoundTripper) http.RoundTripper

// roundTripFunc adapts a function to http.RoundTripper
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// applies interceptors around base. the first interceptor is the outermost:
// it sees the request first and the response last.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	rt := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		rt = interceptors[i](rt)
	}

	return rt
}

// returns the current token, or "" when logged out
type TokenSource func(ctx context.Context) string

// attaches the stored token to every request that does not already carry an
// Authorization header. requests are never blocked for a missing token: the
// backend decides what needs auth.
func WithAuth(tokens TokenSource, scheme string) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}

			token, ok := explicitToken(req.Context())
			if !ok {
				token = tokens(req.Context())
			}
			if token == "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set("Authorization", authorizationValue(scheme, token))

			return next.RoundTrip(req)
		})
	}
}

type explicitTokenKey struct{}

// makes WithAuth use token instead of asking the TokenSource
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, explicitTokenKey{}, token)
}

func explicitToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(explicitTokenKey{}).(string)
	return token, ok
}

func authorizationValue(scheme, token string) string {
	if scheme == "" {
		return token
	}

	return scheme + " " + token
}

type skipUnauthorizedKey struct{}

// marks ctx so that a 401 on this request does not run the unauthorized
// hook. used by the logout notification itself.
func SkipUnauthorizedHook(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipUnauthorizedKey{}, true)
}

func unauthorizedHookSkipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipUnauthorizedKey{}).(bool)
	return skip
}

// calls onUnauthorized for any 401 response, then hands the response back
// unchanged so the caller still sees the failure.
func WithUnauthorized(onUnauthorized func(req *http.Request)) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return resp, err
			}

			if resp.StatusCode == http.StatusUnauthorized && !unauthorizedHookSkipped(req.Context()) {
				logger.FromContext(req.Context()).Warn("request unauthorized, logging out",
					"method", req.Method,
					"path", req.URL.Path,
				)
				onUnauthorized(req)
			}

			return resp, nil
		})
	}
}

// waits for the limiter before each request
func WithRateLimit(limiter *rate.Limiter) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}

			return next.RoundTrip(req)
		})
	}
}

// tags each request with an X-Request-ID and logs its outcome
func WithLogging() Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			requestID := uuid.NewString()

			req = req.Clone(req.Context())
			req.Header.Set("X-Request-ID", requestID)

			log := logger.FromContext(req.Context()).With(
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
			)

			start := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			if err != nil {
				log.Warn("request failed", "duration", duration, "error", err)
				return resp, err
			}

			log.Debug("request completed", "status", resp.StatusCode, "duration", duration)
			return resp, nil
		})
	}
}
