package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"codeberg.org/secondbrain/client/internal/content"
)

// POST /signin
func (c *Client) SignIn(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signin", signInRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("sign in: %w", ErrEmptyResponse)
	}

	return &resp, nil
}

// POST /signup. the token is optional in the response.
func (c *Client) SignUp(ctx context.Context, name, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signup", signUpRequest{Name: name, Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// POST /logout. token is sent explicitly because the session store has
// usually been cleared by the time the notification goes out, and a 401
// here must not start another logout.
func (c *Client) Logout(ctx context.Context, token string) error {
	ctx = SkipUnauthorizedHook(WithToken(ctx, token))
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// GET /me
func (c *Client) Me(ctx context.Context) (*content.User, error) {
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return nil, err
	}

	if resp.User == nil {
		return nil, fmt.Errorf("profile: %w", ErrEmptyResponse)
	}

	return resp.User, nil
}

// PUT /update as multipart form data
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*content.User, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":  update.Name,
		"email": update.Email,
		"bio":   update.Bio,
	}
	for _, key := range []string{"name", "email", "bio"} {
		if err := form.WriteField(key, fields[key]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if update.Picture != nil {
		filename := update.PictureName
		if filename == "" {
			filename = "avatar"
		}

		part, err := form.CreateFormFile("profilePicture", filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}

		if _, err := io.Copy(part, update.Picture); err != nil {
			return nil, fmt.Errorf("failed to write profile picture: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/update"), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp userResponse
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}

	if resp.User == nil {
		return nil, fmt.Errorf("update profile: %w", ErrEmptyResponse)
	}

	return resp.User, nil
}

// POST /reset-password
func (c *Client) ResetPassword(ctx context.Context, username, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/reset-password", resetPasswordRequest{
		Username:    username,
		NewPassword: newPassword,
	}, nil)
}
