package config

import (
	"flag"
	"strings"
)

// parses CLI flags for the signin subcommand
func ParseSignInFlags(args []string) (SignInFlags, error) {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")

	if err := fs.Parse(args); err != nil {
		return SignInFlags{}, err
	}

	return SignInFlags{Username: *username, Password: *password}, nil
}

// parses CLI flags for the signup subcommand
func ParseSignUpFlags(args []string) (SignUpFlags, error) {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")

	if err := fs.Parse(args); err != nil {
		return SignUpFlags{}, err
	}

	return SignUpFlags{Name: *name, Username: *username, Password: *password}, nil
}

// parses CLI flags for the list subcommand
func ParseListFlags(args []string) (ListFlags, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	contentType := fs.String("type", "all", "only show content of this type")
	query := fs.String("q", "", "case-insensitive search over title and link")

	if err := fs.Parse(args); err != nil {
		return ListFlags{}, err
	}

	return ListFlags{Type: *contentType, Query: *query}, nil
}

// parses CLI flags for the add subcommand
func ParseAddFlags(args []string) (AddFlags, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "content title")
	link := fs.String("link", "", "content link")
	contentType := fs.String("type", "", "content type (youtube, twitter, article, ...)")
	tags := fs.String("tags", "", "comma separated tag names")

	if err := fs.Parse(args); err != nil {
		return AddFlags{}, err
	}

	return AddFlags{
		Title: *title,
		Link:  *link,
		Type:  *contentType,
		Tags:  splitList(*tags),
	}, nil
}

// parses CLI flags for the reset-password subcommand
func ParseResetPasswordFlags(args []string) (ResetPasswordFlags, error) {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	newPassword := fs.String("new-password", "", "new password")

	if err := fs.Parse(args); err != nil {
		return ResetPasswordFlags{}, err
	}

	return ResetPasswordFlags{Username: *username, NewPassword: *newPassword}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
