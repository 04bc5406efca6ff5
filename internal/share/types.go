package share

import "errors"

// Kind is what a public link points at
type Kind string

const (
	KindBrain   Kind = "brain"
	KindContent Kind = "content"
)

// returned when the backend answered without a usable link. callers treat
// it as "failed to share", not as a crash.
var ErrNoShareLink = errors.New("backend did not return a share link")

// returned when a URL is not a public brain or content link
var ErrNotShareURL = errors.New("not a share link")

// returned by Chain when no handoff can run in this environment
var ErrNoHandoff = errors.New("no way to hand off the link")

// title and text sent along with every content link
const (
	DefaultTitle = "Shared from Second Brain"
	DefaultText  = "Check out this content I found interesting!"
)

// Payload is what gets handed to the user's share target
type Payload struct {
	Title string
	Text  string
	URL   string
}

// Status is the brain-level sharing state with the public URL resolved
type Status struct {
	IsShared bool
	URL      string
}
