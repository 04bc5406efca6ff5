package auth

import (
	"context"
	"fmt"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/session"
)

// Profile is what the profile widget shows
type Profile struct {
	Name      string
	AvatarURL *string
}

// returns the profile kept in the session store
func (m *Manager) Profile(ctx context.Context) Profile {
	sess := m.store.Read(ctx)
	return Profile{Name: sess.UserName, AvatarURL: sess.AvatarURL}
}

// fetches the user from the backend and stores the name and avatar. on
// failure the stored profile is left as it is.
func (m *Manager) RefreshProfile(ctx context.Context) (*content.User, error) {
	user, err := m.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	m.applyProfile(ctx, user)
	return user, nil
}

// sends a profile edit and stores the result
func (m *Manager) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*content.User, error) {
	user, err := m.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	m.applyProfile(ctx, user)
	return user, nil
}

func (m *Manager) applyProfile(ctx context.Context, user *content.User) {
	if m.store.UpdateProfile(ctx, user.Name, session.AvatarPtr(user.ProfilePicture)) {
		m.bus.Profile.Publish(events.ProfileUpdate{})
	}
}

// sets a new password for username
func (m *Manager) ResetPassword(ctx context.Context, username, newPassword string) error {
	if username == "" || newPassword == "" {
		return fmt.Errorf("username and new password are required")
	}

	return m.client.ResetPassword(ctx, username, newPassword)
}

// calls onChange with the stored profile after every profile update, in this
// process or another one. the returned function unsubscribes.
func (m *Manager) WatchProfile(ctx context.Context, onChange func(Profile)) (unsubscribe func()) {
	offProfile := m.bus.Profile.Subscribe(func(events.ProfileUpdate) {
		onChange(m.Profile(ctx))
	})

	offStorage := m.bus.Storage.Subscribe(func(change events.StorageChange) {
		if change.Key == session.KeyUser || change.Key == session.KeyProfilePicture {
			onChange(m.Profile(ctx))
		}
	})

	return func() {
		offProfile()
		offStorage()
	}
}
