package api

import (
	"context"
	"fmt"
	"net/http"

	"codeberg.org/secondbrain/client/internal/content"
)

// POST /brain/share. the link is only present when share is true.
func (c *Client) SetBrainShare(ctx context.Context, share bool) (*ShareLinkResponse, error) {
	var resp ShareLinkResponse
	if err := c.doJSON(ctx, http.MethodPost, "/brain/share", shareRequest{Share: share}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GET /brain/share
func (c *Client) BrainShareStatus(ctx context.Context) (*ShareStatus, error) {
	var resp ShareStatus
	if err := c.doJSON(ctx, http.MethodGet, "/brain/share", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// POST /content/{id}/share
func (c *Client) ShareContent(ctx context.Context, id string) (*ShareLinkResponse, error) {
	var resp ShareLinkResponse
	if err := c.doJSON(ctx, http.MethodPost, "/content/"+segment(id)+"/share", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GET /brain/{hash}, no auth needed
func (c *Client) SharedBrain(ctx context.Context, hash string) (*SharedBrain, error) {
	var resp SharedBrain
	if err := c.doJSON(ctx, http.MethodGet, "/brain/"+segment(hash), nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GET /content/share/{hash}, no auth needed
func (c *Client) SharedContent(ctx context.Context, hash string) (*content.Content, error) {
	var resp contentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/content/share/"+segment(hash), nil, &resp); err != nil {
		return nil, err
	}

	if resp.Content == nil {
		return nil, fmt.Errorf("shared content: %w", ErrEmptyResponse)
	}

	return resp.Content, nil
}
