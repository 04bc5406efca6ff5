package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func staticToken(token string) TokenSource {
	return func(context.Context) string { return token }
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, interceptors ...Interceptor) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/api/v1", time.Second, srv.Client().Transport, interceptors...)
}

func TestChain_FirstInterceptorIsOutermost(t *testing.T) {
	var order []string

	tag := func(name string) Interceptor {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name+" in")
				resp, err := next.RoundTrip(req)
				order = append(order, name+" out")
				return resp, err
			})
		}
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "server")
		w.WriteHeader(http.StatusNoContent)
	}, tag("a"), tag("b"))

	require.NoError(t, client.DeleteContent(context.Background(), "1"))
	assert.Equal(t, []string{"a in", "b in", "server", "b out", "a out"}, order)
}

func TestWithAuth_AttachesTokenWhenPresent(t *testing.T) {
	var got []string

	handler := func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"contents": []any{}, "tags": []any{}})
	}

	raw := newTestClient(t, handler, WithAuth(staticToken("jwt-abc"), ""))
	bearer := newTestClient(t, handler, WithAuth(staticToken("jwt-abc"), "Bearer"))
	anonymous := newTestClient(t, handler, WithAuth(staticToken(""), ""))

	ctx := context.Background()
	for _, c := range []*Client{raw, bearer, anonymous} {
		_, err := c.ListContent(ctx)
		require.NoError(t, err, "requests are never blocked for a missing token")
	}

	assert.Equal(t, []string{"jwt-abc", "Bearer jwt-abc", ""}, got)
}

func TestWithUnauthorized_HookRunsAndCallerStillFails(t *testing.T) {
	var hooks atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, errors.ErrorResponse{Error: "Invalid token"})
	}, WithUnauthorized(func(*http.Request) { hooks.Add(1) }))

	_, err := client.ListContent(context.Background())
	require.Error(t, err)

	assert.True(t, errors.IsUnauthorized(err), "caller still observes the 401")
	assert.Equal(t, int32(1), hooks.Load())
}

func TestWithUnauthorized_OtherStatusesDoNotLogOut(t *testing.T) {
	var hooks atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, errors.ErrorResponse{Error: "boom"})
	}, WithUnauthorized(func(*http.Request) { hooks.Add(1) }))

	_, err := client.ListContent(context.Background())
	require.Error(t, err)
	assert.Zero(t, hooks.Load())
}

func TestLogout_SendsCapturedTokenAndSkipsHook(t *testing.T) {
	var hooks atomic.Int32
	var header string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/logout", r.URL.Path)
		header = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	},
		WithAuth(staticToken(""), ""),
		WithUnauthorized(func(*http.Request) { hooks.Add(1) }),
	)

	err := client.Logout(context.Background(), "captured-token")
	assert.True(t, errors.IsUnauthorized(err))
	assert.Equal(t, "captured-token", header)
	assert.Zero(t, hooks.Load(), "a 401 on logout must not trigger another logout")
}

func TestWithLogging_SetsRequestID(t *testing.T) {
	var requestID string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}, WithLogging())

	require.NoError(t, client.DeleteContent(context.Background(), "1"))
	assert.Len(t, requestID, 36)
}

func TestWithRateLimit_HonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, WithRateLimit(rate.NewLimiter(rate.Every(time.Hour), 1)))

	ctx := context.Background()
	require.NoError(t, client.DeleteContent(ctx, "1"))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := client.DeleteContent(ctx, "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestSignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/signin", r.URL.Path)

		var body signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Password != "hunter2" {
			writeJSON(t, w, http.StatusForbidden, errors.ErrorResponse{Error: "Incorrect credentials"})
			return
		}

		writeJSON(t, w, http.StatusOK, AuthResponse{Token: "jwt", Name: "Ada", ProfilePicture: "https://cdn/ada.png"})
	})

	ctx := context.Background()

	resp, err := client.SignIn(ctx, "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, AuthResponse{Token: "jwt", Name: "Ada", ProfilePicture: "https://cdn/ada.png"}, *resp)

	_, err = client.SignIn(ctx, "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect credentials", errors.Classify(err, "").Message)
}

func TestSignIn_MissingTokenIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"name": "Ada"})
	})

	_, err := client.SignIn(context.Background(), "ada", "pw")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSignUp_TokenIsOptional(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "User created"})
	})

	resp, err := client.SignUp(context.Background(), "Ada", "ada", "pw")
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
}

func TestUpdateProfile_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Ada L", r.FormValue("name"))
		assert.Equal(t, "ada@example.com", r.FormValue("email"))

		file, header, err := r.FormFile("profilePicture")
		require.NoError(t, err)
		defer file.Close() //nolint:errcheck

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "avatar.png", header.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": content.User{ID: "u1", Name: "Ada L", ProfilePicture: "https://cdn/new.png"},
		})
	})

	user, err := client.UpdateProfile(context.Background(), ProfileUpdate{
		Name:        "Ada L",
		Email:       "ada@example.com",
		Picture:     strings.NewReader("PNGDATA"),
		PictureName: "avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", user.ProfilePicture)
}

func TestContentEndpoints(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/content", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"contents": []map[string]any{{"_id": "c1", "title": "Effective Go", "contentType": "article"}},
			"tags":     []map[string]any{{"_id": "t1", "name": "go", "contentId": []string{"c1"}}},
		})
	})
	mux.HandleFunc("GET /api/v1/content/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "c1" {
			writeJSON(t, w, http.StatusNotFound, errors.ErrorResponse{Error: "Content not found"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"content": map[string]any{"_id": "c1", "title": "Effective Go"}})
	})
	mux.HandleFunc("POST /api/v1/content", func(w http.ResponseWriter, r *http.Request) {
		var body content.NewContent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"go"}, body.Tags)
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Content added"})
	})
	mux.HandleFunc("POST /api/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body.ContentID)
		writeJSON(t, w, http.StatusOK, chatResponse{Answer: "It is **about** Go."})
	})

	client := newTestClient(t, mux.ServeHTTP)
	ctx := context.Background()

	list, err := client.ListContent(ctx)
	require.NoError(t, err)
	require.Len(t, list.Contents, 1)
	assert.Equal(t, content.TypeArticle, list.Contents[0].Type)
	assert.Equal(t, []string{"c1"}, list.Tags[0].ContentIDs)

	item, err := client.GetContent(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Effective Go", item.Title)

	_, err = client.GetContent(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	err = client.AddContent(ctx, content.NewContent{Title: "t", Link: "https://go.dev", Type: content.TypeArticle, Tags: []string{"go"}})
	require.NoError(t, err)

	answer, err := client.Chat(ctx, "c1", "what is it about?")
	require.NoError(t, err)
	assert.Equal(t, "It is **about** Go.", answer)
}

func TestAddContent_ValidatesBeforeSending(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	err := client.AddContent(context.Background(), content.NewContent{Title: "no link"})
	require.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestShareEndpoints(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/brain/share", func(w http.ResponseWriter, r *http.Request) {
		var body shareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Share {
			writeJSON(t, w, http.StatusOK, ShareLinkResponse{ShareLink: "http://api.example/api/v1/brain/abc123"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Sharing disabled"})
	})
	mux.HandleFunc("GET /api/v1/brain/share", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, ShareStatus{IsShared: true, ShareLink: "http://api.example/api/v1/brain/abc123"})
	})
	mux.HandleFunc("POST /api/v1/content/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, ShareLinkResponse{ShareLink: "http://api.example/api/v1/content/share/xyz789"})
	})
	mux.HandleFunc("GET /api/v1/brain/{hash}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, SharedBrain{Name: "Ada", Contents: []content.Content{{ID: "c1"}}})
	})
	mux.HandleFunc("GET /api/v1/content/share/{hash}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"content": map[string]any{"_id": "c1", "title": r.PathValue("hash")}})
	})

	client := newTestClient(t, mux.ServeHTTP)
	ctx := context.Background()

	minted, err := client.SetBrainShare(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "http://api.example/api/v1/brain/abc123", minted.ShareLink)

	revoked, err := client.SetBrainShare(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, revoked.ShareLink)

	status, err := client.BrainShareStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsShared)

	item, err := client.ShareContent(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(item.ShareLink, "/xyz789"))

	brain, err := client.SharedBrain(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", brain.Name)

	shared, err := client.SharedContent(ctx, "xyz789")
	require.NoError(t, err)
	assert.Equal(t, "xyz789", shared.Title)
}
