package session

import (
	"context"
	"errors"
)

// returned by Store.Current when nobody is signed in
var ErrNoSession = errors.New("no session")

// persisted keys, shared by every backend
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyProfilePicture = "profilePicture"
)

// all keys owned by the session store
var allKeys = []string{KeyToken, KeyUser, KeyProfilePicture}

// Session is the authenticated identity cached on the client. The zero
// value means logged out.
type Session struct {
	Token     string
	UserName  string
	AvatarURL *string
}

// reports whether a token is present
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// returns the avatar URL or an empty string
func (s Session) Avatar() string {
	if s.AvatarURL == nil {
		return ""
	}

	return *s.AvatarURL
}

// returns a pointer to url, or nil for an empty url
func AvatarPtr(url string) *string {
	if url == "" {
		return nil
	}

	return &url
}

// Backend is a small persistent key/value store. Store applies all sets and
// deletes atomically: readers never observe half of one call.
type Backend interface {
	Load(ctx context.Context) (map[string]string, error)
	Store(ctx context.Context, set map[string]string, del []string) error

	// blocks until ctx is done, calling onChange with the name of every key
	// changed by another process (or another backend on the same storage).
	// changes made through this backend are not reported.
	Watch(ctx context.Context, onChange func(key string)) error

	Close() error
}
