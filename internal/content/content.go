package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var knownTypes = []Type{
	TypeYouTube, TypeTwitter, TypeReddit, TypePinterest, TypeSpotify,
	TypeFacebook, TypeInstagram, TypeLinkedIn, TypeMedium, TypeThreads,
	TypeArticle, TypePDF, TypeDoc, TypeImage, TypeSpreadsheets,
}

// returns every type the client knows how to label
func Types() []Type {
	return slices.Clone(knownTypes)
}

// reports whether t is a known content type
func (t Type) Valid() bool {
	return slices.Contains(knownTypes, t)
}

// returns a human readable label
func (t Type) Label() string {
	switch t {
	case TypeYouTube:
		return "YouTube"
	case TypeLinkedIn:
		return "LinkedIn"
	case TypePDF:
		return "PDF"
	case "":
		return "Unknown"
	default:
		s := string(t)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// checks the fields the backend requires
func (n NewContent) Validate() error {
	var errs []error

	if strings.TrimSpace(n.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}

	if strings.TrimSpace(n.Link) == "" {
		errs = append(errs, errors.New("link is required"))
	}

	if n.Type == "" {
		errs = append(errs, errors.New("content type is required"))
	} else if !n.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown content type %q", n.Type))
	}

	return errors.Join(errs...)
}

// returns the items of the given type; FilterAll or "" keeps everything
func Filter(items []Content, filter string) []Content {
	if filter == "" || filter == FilterAll {
		return items
	}

	out := make([]Content, 0, len(items))
	for _, item := range items {
		if string(item.Type) == filter {
			out = append(out, item)
		}
	}

	return out
}

// returns the items whose title or link contains query, ignoring case
func Search(items []Content, query string) []Content {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	out := make([]Content, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Link), query) {
			out = append(out, item)
		}
	}

	return out
}

// returns the tags attached to a content id
func TagsFor(tags []Tag, contentID string) []Tag {
	var out []Tag
	for _, tag := range tags {
		if slices.Contains(tag.ContentIDs, contentID) {
			out = append(out, tag)
		}
	}

	return out
}

// returns the filter values present in items, "all" first
func FilterOptions(items []Content) []string {
	seen := map[Type]bool{}
	options := []string{FilterAll}

	for _, item := range items {
		if item.Type != "" && !seen[item.Type] {
			seen[item.Type] = true
			options = append(options, string(item.Type))
		}
	}

	slices.Sort(options[1:])
	return options
}
