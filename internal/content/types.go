package content

import "time"

// Type is the kind of a saved item, as stored by the backend
type Type string

const (
	TypeYouTube      Type = "youtube"
	TypeTwitter      Type = "twitter"
	TypeReddit       Type = "reddit"
	TypePinterest    Type = "pinterest"
	TypeSpotify      Type = "spotify"
	TypeFacebook     Type = "facebook"
	TypeInstagram    Type = "instagram"
	TypeLinkedIn     Type = "linkedin"
	TypeMedium       Type = "medium"
	TypeThreads      Type = "threads"
	TypeArticle      Type = "article"
	TypePDF          Type = "pdf"
	TypeDoc          Type = "doc"
	TypeImage        Type = "image"
	TypeSpreadsheets Type = "spreadsheets"
)

// the filter value that matches every type
const FilterAll = "all"

// Content is one saved link
type Content struct {
	ID        string        `json:"_id"`
	Title     string        `json:"title"`
	Link      string        `json:"link"`
	Type      Type          `json:"contentType"`
	CreatedAt time.Time     `json:"createdAt"`
	AIChat    []ChatMessage `json:"aiChat,omitempty"`
	Questions []string      `json:"questions,omitempty"`
}

// Tag groups content ids under a name
type Tag struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	ContentIDs []string `json:"contentId"`
}

// chat roles used by the backend
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of the AI conversation about a content item
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewContent is the payload for saving a link
type NewContent struct {
	Title string   `json:"title"`
	Link  string   `json:"link"`
	Type  Type     `json:"contentType"`
	Tags  []string `json:"tags"`
}

// User is the profile returned by the backend
type User struct {
	ID             string `json:"_id,omitempty"`
	Username       string `json:"username,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
