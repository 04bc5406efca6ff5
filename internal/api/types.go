package api

import (
	"io"

	"codeberg.org/secondbrain/client/internal/content"
)

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign in and sign up. sign up may omit the
// token, in which case the user has to sign in separately.
type AuthResponse struct {
	Token          string `json:"token,omitempty"`
	Name           string `json:"name,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

type userResponse struct {
	User *content.User `json:"user"`
}

// ProfileUpdate is sent as multipart form data. Picture is optional.
type ProfileUpdate struct {
	Name        string
	Email       string
	Bio         string
	Picture     io.Reader
	PictureName string
}

// ContentList is the dashboard payload
type ContentList struct {
	Contents []content.Content `json:"contents"`
	Tags     []content.Tag     `json:"tags"`
}

type contentResponse struct {
	Content *content.Content `json:"content"`
}

type chatRequest struct {
	ContentID string `json:"contentId"`
	Question  string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type shareRequest struct {
	Share bool `json:"share"`
}

// ShareLinkResponse carries the backend's internal share URL
type ShareLinkResponse struct {
	ShareLink string `json:"shareLink,omitempty"`
}

// ShareStatus is the brain-level sharing state
type ShareStatus struct {
	IsShared  bool   `json:"isShared"`
	ShareLink string `json:"shareLink,omitempty"`
}

// SharedBrain is the public view of someone's whole collection
type SharedBrain struct {
	Name     string            `json:"name"`
	Contents []content.Content `json:"contents"`
}
