package events

// fired in-process by sign in and logout
type AuthChange struct {
	IsAuthenticated bool
}

// fired when another process changed a persisted session key. carries only
// the key name; subscribers re-read the store.
type StorageChange struct {
	Key string
}

// fired after a profile edit or a background profile refresh
type ProfileUpdate struct{}
