package share

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// turns the backend's internal share link into a public URL under origin.
// the hash is the last path segment of the link and is relayed untouched.
func PublicURL(origin string, kind Kind, internalLink string) (string, error) {
	hash, err := hashOf(internalLink)
	if err != nil {
		return "", err
	}

	public, err := url.JoinPath(origin, string(kind), hash)
	if err != nil {
		return "", fmt.Errorf("invalid frontend origin %q: %w", origin, err)
	}

	return public, nil
}

func hashOf(internalLink string) (string, error) {
	if strings.TrimSpace(internalLink) == "" {
		return "", ErrNoShareLink
	}

	u, err := url.Parse(internalLink)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoShareLink, err)
	}

	hash := path.Base(strings.TrimRight(u.Path, "/"))
	if hash == "" || hash == "." || hash == "/" {
		return "", ErrNoShareLink
	}

	return hash, nil
}

// splits a public share URL (or just its path) into kind and hash
func ParsePublicURL(raw string) (Kind, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrNotShareURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotShareURL, raw)
	}

	switch Kind(parts[0]) {
	case KindBrain:
		return KindBrain, parts[1], nil
	case KindContent:
		return KindContent, parts[1], nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrNotShareURL, raw)
	}
}
