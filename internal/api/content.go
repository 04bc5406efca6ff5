package api

import (
	"context"
	"fmt"
	"net/http"

	"codeberg.org/secondbrain/client/internal/content"
)

// GET /content
func (c *Client) ListContent(ctx context.Context) (*ContentList, error) {
	var resp ContentList
	if err := c.doJSON(ctx, http.MethodGet, "/content", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GET /content/{id}
func (c *Client) GetContent(ctx context.Context, id string) (*content.Content, error) {
	var resp contentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/content/"+segment(id), nil, &resp); err != nil {
		return nil, err
	}

	if resp.Content == nil {
		return nil, fmt.Errorf("content %s: %w", id, ErrEmptyResponse)
	}

	return resp.Content, nil
}

// POST /content
func (c *Client) AddContent(ctx context.Context, item content.NewContent) error {
	if err := item.Validate(); err != nil {
		return err
	}

	return c.doJSON(ctx, http.MethodPost, "/content", item, nil)
}

// DELETE /content/{id}
func (c *Client) DeleteContent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/content/"+segment(id), nil, nil)
}

// POST /chat, returns the model's answer as markdown
func (c *Client) Chat(ctx context.Context, contentID, question string) (string, error) {
	var resp chatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", chatRequest{ContentID: contentID, Question: question}, &resp); err != nil {
		return "", err
	}

	if resp.Answer == "" {
		return "", fmt.Errorf("chat: %w", ErrEmptyResponse)
	}

	return resp.Answer, nil
}
