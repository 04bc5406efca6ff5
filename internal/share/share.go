// Package share mints public links for a whole brain or a single item and
// resolves them back. Hashes are minted by the backend and only relayed.
package share

import (
	"context"
	"fmt"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/logger"
)

// Service mints, revokes and opens share links
type Service struct {
	client  *api.Client
	origin  string
	handoff Handoff
}

// origin is the public frontend origin links are built on. handoff may be
// nil, in which case content links are only returned.
func NewService(client *api.Client, origin string, handoff Handoff) *Service {
	return &Service{
		client:  client,
		origin:  origin,
		handoff: handoff,
	}
}

// turns brain sharing on and returns the public URL
func (s *Service) MintBrain(ctx context.Context) (string, error) {
	resp, err := s.client.SetBrainShare(ctx, true)
	if err != nil {
		return "", fmt.Errorf("share brain: %w", err)
	}

	public, err := PublicURL(s.origin, KindBrain, resp.ShareLink)
	if err != nil {
		return "", err
	}

	logger.Info("brain shared", "url", public)
	return public, nil
}

// turns brain sharing off. revoking an unshared brain is not an error.
func (s *Service) RevokeBrain(ctx context.Context) error {
	if _, err := s.client.SetBrainShare(ctx, false); err != nil {
		return fmt.Errorf("unshare brain: %w", err)
	}

	logger.Info("brain unshared")
	return nil
}

// returns whether the brain is shared and its public URL
func (s *Service) BrainStatus(ctx context.Context) (Status, error) {
	resp, err := s.client.BrainShareStatus(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("brain share status: %w", err)
	}

	if !resp.IsShared {
		return Status{}, nil
	}

	public, err := PublicURL(s.origin, KindBrain, resp.ShareLink)
	if err != nil {
		// shared, but the link could not be resolved
		return Status{IsShared: true}, nil
	}

	return Status{IsShared: true, URL: public}, nil
}

// mints a public link for one item and hands it off. when minting worked
// but the handoff failed, the URL is returned together with the error so
// the caller can still show it.
func (s *Service) MintContent(ctx context.Context, contentID string) (string, error) {
	resp, err := s.client.ShareContent(ctx, contentID)
	if err != nil {
		return "", fmt.Errorf("share content: %w", err)
	}

	public, err := PublicURL(s.origin, KindContent, resp.ShareLink)
	if err != nil {
		return "", err
	}

	if s.handoff == nil {
		return public, nil
	}

	payload := Payload{Title: DefaultTitle, Text: DefaultText, URL: public}
	if err := s.handoff.Share(ctx, payload); err != nil {
		return public, fmt.Errorf("hand off share link: %w", err)
	}

	return public, nil
}

// loads someone's shared brain
func (s *Service) OpenBrain(ctx context.Context, hash string) (*api.SharedBrain, error) {
	brain, err := s.client.SharedBrain(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("open shared brain: %w", err)
	}

	return brain, nil
}

// loads a shared item
func (s *Service) OpenContent(ctx context.Context, hash string) (*content.Content, error) {
	item, err := s.client.SharedContent(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("open shared content: %w", err)
	}

	return item, nil
}
