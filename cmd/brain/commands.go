package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/config"
	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/errors"
	"codeberg.org/secondbrain/client/internal/logger"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/share"
	"codeberg.org/secondbrain/client/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"golang.org/x/sync/errgroup"
)

var commands = []command{
	{name: "tui", usage: "open the interactive client, optionally at a route", run: runTUI},
	{name: "signin", usage: "sign in with -username and -password", run: runSignIn},
	{name: "signup", usage: "create an account with -name, -username and -password", run: runSignUp},
	{name: "signout", usage: "sign out and clear the saved session", run: runSignOut},
	{name: "status", usage: "show who is signed in", run: runStatus},
	{name: "reset-password", usage: "set a new password with -username and -new-password", run: runResetPassword},
	{name: "list", usage: "list saved content, filtered by -type or -q", protected: true, run: runList},
	{name: "add", usage: "save content with -title, -link, -type and -tags", protected: true, run: runAdd},
	{name: "delete", usage: "delete content by id", protected: true, run: runDelete},
	{name: "share", usage: "make one item public and print its link", protected: true, run: runShare},
	{name: "share-brain", usage: "make your whole brain public and print its link", protected: true, run: runShareBrain},
	{name: "unshare-brain", usage: "stop sharing your brain", protected: true, run: runUnshareBrain},
	{name: "open", usage: "show a shared brain or item from its public link", run: runOpen},
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}

	return command{}, false
}

func runTUI(ctx context.Context, app *App, args []string) error {
	route := auth.RouteDashboard
	if len(args) > 0 {
		route = args[0]
	}

	// the screen owns stderr while the program runs
	if err := logger.SetOutput(app.cfg.LogFile); err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.watchStorage(ctx)

	model := tui.NewApp(ctx, tui.Deps{Auth: app.auth, Share: app.share}, route)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.Attach(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running brain: %w", err)
	}

	return nil
}

func runSignIn(ctx context.Context, app *App, args []string) error {
	flags, err := config.ParseSignInFlags(args)
	if err != nil {
		return err
	}

	if flags.Username == "" {
		if flags.Username, err = prompt("username: "); err != nil {
			return err
		}
	}

	if flags.Password == "" {
		if flags.Password, err = promptPassword("password: "); err != nil {
			return err
		}
	}

	if err := app.auth.SignIn(ctx, flags.Username, flags.Password); err != nil {
		return err
	}

	fmt.Printf("signed in as %s\n", app.auth.Profile(ctx).Name)
	return nil
}

func runSignUp(ctx context.Context, app *App, args []string) error {
	flags, err := config.ParseSignUpFlags(args)
	if err != nil {
		return err
	}

	if flags.Username == "" {
		if flags.Username, err = prompt("username: "); err != nil {
			return err
		}
	}

	if flags.Password == "" {
		if flags.Password, err = promptPassword("password: "); err != nil {
			return err
		}
	}

	result, err := app.auth.SignUp(ctx, flags.Name, flags.Username, flags.Password)
	if err != nil {
		return err
	}

	if result.LoggedIn {
		fmt.Printf("account created, signed in as %s\n", app.auth.Profile(ctx).Name)
	} else {
		fmt.Println("account created, run `brain signin` to continue")
	}

	return nil
}

func runSignOut(ctx context.Context, app *App, _ []string) error {
	if !app.auth.Authenticated(ctx) {
		fmt.Println("not signed in")
		return nil
	}

	app.auth.Logout(ctx)
	fmt.Println("signed out")

	return nil
}

func runStatus(ctx context.Context, app *App, _ []string) error {
	sess, err := app.auth.Store().Current(ctx)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Println("not signed in")
		return nil
	}
	if err != nil {
		return err
	}

	if !app.auth.IsValid(ctx) {
		fmt.Println("session expired, signed out")
		return nil
	}

	fmt.Printf("signed in as %s\n", sess.UserName)
	if avatar := sess.Avatar(); avatar != "" {
		fmt.Printf("avatar:     %s\n", avatar)
	}

	if expires, err := app.auth.Validator().ExpiresAt(sess.Token); err == nil {
		fmt.Printf("expires:    %s (in %s)\n", expires.Format(time.RFC1123), time.Until(expires).Round(time.Minute))
	}

	return nil
}

func runResetPassword(ctx context.Context, app *App, args []string) error {
	flags, err := config.ParseResetPasswordFlags(args)
	if err != nil {
		return err
	}

	if flags.NewPassword == "" {
		if flags.NewPassword, err = promptPassword("new password: "); err != nil {
			return err
		}
	}

	if err := app.auth.ResetPassword(ctx, flags.Username, flags.NewPassword); err != nil {
		return err
	}

	fmt.Println("password updated, sign in with your new password")
	return nil
}

func runList(ctx context.Context, app *App, args []string) error {
	flags, err := config.ParseListFlags(args)
	if err != nil {
		return err
	}

	list, err := app.auth.Client().ListContent(ctx)
	if err != nil {
		return err
	}

	items := content.Search(content.Filter(list.Contents, flags.Type), flags.Query)
	if len(items) == 0 {
		fmt.Println("nothing saved yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tTAGS\tLINK")
	for _, item := range items {
		var names []string
		for _, tag := range content.TagsFor(list.Tags, item.ID) {
			names = append(names, tag.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Type.Label(), item.Title, strings.Join(names, ","), item.Link)
	}

	return w.Flush()
}

func runAdd(ctx context.Context, app *App, args []string) error {
	flags, err := config.ParseAddFlags(args)
	if err != nil {
		return err
	}

	item := content.NewContent{
		Title: flags.Title,
		Link:  flags.Link,
		Type:  content.Type(strings.ToLower(flags.Type)),
		Tags:  flags.Tags,
	}

	if err := app.auth.Client().AddContent(ctx, item); err != nil {
		return err
	}

	fmt.Printf("saved %q\n", item.Title)
	return nil
}

func runDelete(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 {
		return errors.New("delete needs at least one content id")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, id := range args {
		g.Go(func() error {
			if err := app.auth.Client().DeleteContent(gctx, id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("deleted %d item(s)\n", len(args))
	return nil
}

func runShare(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return errors.New("share needs exactly one content id")
	}

	url, err := app.share.MintContent(ctx, args[0])
	return printShared(url, err)
}

func runShareBrain(ctx context.Context, app *App, _ []string) error {
	url, err := app.share.MintBrain(ctx)
	return printShared(url, err)
}

// prints a minted link. a failed clipboard handoff is reported but the
// link itself still counts as success.
func printShared(url string, err error) error {
	if url == "" {
		if errors.Is(err, share.ErrNoShareLink) {
			return errors.New("the server did not return a share link")
		}
		return err
	}

	fmt.Println(url)

	switch {
	case err == nil:
	case errors.Is(err, share.ErrNoHandoff):
		// nowhere to copy to, printing is enough
	default:
		fmt.Fprintln(os.Stderr, "could not copy the link:", err)
	}

	return nil
}

func runUnshareBrain(ctx context.Context, app *App, _ []string) error {
	if err := app.share.RevokeBrain(ctx); err != nil {
		return err
	}

	fmt.Println("your brain is private again")
	return nil
}

func runOpen(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return errors.New("open needs a public share link")
	}

	kind, hash, err := share.ParsePublicURL(args[0])
	if err != nil {
		return err
	}

	if kind == share.KindContent {
		item, err := app.share.OpenContent(ctx, hash)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%s • %s\n", item.Title, item.Type.Label(), item.Link)
		return nil
	}

	brain, err := app.share.OpenBrain(ctx, hash)
	if err != nil {
		return err
	}

	fmt.Printf("%s's brain\n\n", brain.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, item := range brain.Contents {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Type.Label(), item.Title, item.Link)
	}

	return w.Flush()
}

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return prompt(label)
	}

	fmt.Fprint(os.Stderr, label)
	defer fmt.Fprintln(os.Stderr)

	password, err := term.ReadPassword(os.Stdin.Fd())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}
