package session

import (
	"context"

	"codeberg.org/secondbrain/client/internal/logger"
)

// Store is the single source of truth for the persisted identity. None of
// its operations fail from the caller's point of view: storage problems are
// logged and reads degrade to "logged out".
type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// returns the underlying backend, used to watch for outside changes
func (s *Store) Backend() Backend {
	return s.backend
}

// writes token, user name and avatar in one atomic backend call. a session
// without an avatar removes any avatar left from a previous login.
func (s *Store) Save(ctx context.Context, sess Session) {
	if sess.Token == "" {
		logger.Warn("refusing to save session without token")
		return
	}

	set := map[string]string{
		KeyToken: sess.Token,
		KeyUser:  sess.UserName,
	}

	var del []string
	if sess.AvatarURL != nil {
		set[KeyProfilePicture] = *sess.AvatarURL
	} else {
		del = []string{KeyProfilePicture}
	}

	if err := s.backend.Store(ctx, set, del); err != nil {
		logger.ErrorErr(err, "failed to save session")
	}
}

// returns the saved session, or the zero Session if there is none. a token
// stored without its user name is treated as absent.
func (s *Store) Read(ctx context.Context) Session {
	values, err := s.backend.Load(ctx)
	if err != nil {
		logger.ErrorErr(err, "failed to read session")
		return Session{}
	}

	token, hasToken := values[KeyToken]
	name, hasName := values[KeyUser]

	if !hasToken || !hasName || token == "" {
		return Session{}
	}

	return Session{
		Token:     token,
		UserName:  name,
		AvatarURL: AvatarPtr(values[KeyProfilePicture]),
	}
}

// like Read, but reports a missing session as ErrNoSession
func (s *Store) Current(ctx context.Context) (Session, error) {
	sess := s.Read(ctx)
	if !sess.Authenticated() {
		return Session{}, ErrNoSession
	}

	return sess, nil
}

// removes all session keys
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Store(ctx, nil, allKeys); err != nil {
		logger.ErrorErr(err, "failed to clear session")
	}
}

// changes the display name and avatar of the current session, leaving the
// token untouched. empty name and nil avatar leave those fields as they are.
// reports whether a session was present.
func (s *Store) UpdateProfile(ctx context.Context, name string, avatar *string) bool {
	if !s.Read(ctx).Authenticated() {
		return false
	}

	set := map[string]string{}
	if name != "" {
		set[KeyUser] = name
	}

	if avatar != nil && *avatar != "" {
		set[KeyProfilePicture] = *avatar
	}

	if len(set) == 0 {
		return true
	}

	if err := s.backend.Store(ctx, set, nil); err != nil {
		logger.ErrorErr(err, "failed to update stored profile")
	}

	return true
}
