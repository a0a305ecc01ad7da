package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/imagepost/imagepost-cli/internal/apierror"
	"github.com/imagepost/imagepost-cli/internal/config"
	"github.com/imagepost/imagepost-cli/internal/posts"
)

// Run dispatches a subcommand.
func (a *app) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.runLogin(ctx)
	case "logout":
		return a.auth.Logout(ctx)
	case "list":
		return a.runList(ctx)
	case "get":
		return a.runGet(ctx, args)
	case "new":
		return a.runSubmit(ctx, args, 0)
	case "edit":
		return a.runEdit(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "status":
		return a.runStatus(ctx)
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) runLogin(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, string(password)); err != nil {
		var authErr *apierror.AuthenticationError
		if errors.As(err, &authErr) {
			return errors.New("login failed: check username or password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("Logged in.")
	return nil
}

func (a *app) runStatus(ctx context.Context) error {
	// The persisted flag only seeds the display; the server re-validates on
	// the first protected call.
	loggedIn, err := a.state.LoggedIn(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("reading persisted session state")
		loggedIn = false
	}
	if loggedIn {
		fmt.Println("Session: believed active")
	} else {
		fmt.Println("Session: none")
	}
	return nil
}

func (a *app) runList(ctx context.Context) error {
	all, err := a.posts.List(ctx)
	if err != nil {
		return renderErr(err)
	}
	for _, p := range all {
		fmt.Printf("%6d  %-40s  %s  %s\n", p.ID, p.Title, p.Author, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) runGet(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, err := a.posts.Get(ctx, id)
	if err != nil {
		return renderErr(err)
	}

	fmt.Printf("#%d %s\nby %s at %s\n", p.ID, p.Title, p.Author, p.CreatedAt.Format("2006-01-02 15:04"))
	if len(p.Tags) > 0 {
		fmt.Printf("tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Printf("\n%s\n", p.Content)
	for _, img := range p.Images {
		fmt.Printf("image: %s\n", img.ImageURL)
	}
	return nil
}

func (a *app) runEdit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	return a.runSubmit(ctx, args[1:], id)
}

// runSubmit handles both new (id == 0) and edit. Exceeding the image cap
// rejects the submission before any file is opened or any request is sent,
// dropping the whole selection.
func (a *app) runSubmit(ctx context.Context, args []string, id int64) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content")
	tags := fs.String("tags", "", "comma-separated tags (e.g. java, spring)")
	var imagePaths stringList
	fs.Var(&imagePaths, "image", "image file to attach (repeatable, max 5)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(imagePaths) > config.MaxImageCount {
		return posts.ErrTooManyImages
	}

	sub := posts.Submission{Title: *title, Content: *content, Tags: *tags}
	for _, path := range imagePaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening image %s: %w", path, err)
		}
		defer f.Close()
		sub.Images = append(sub.Images, posts.Attachment{Name: filepath.Base(path), Content: f})
	}

	var p *posts.Post
	var err error
	if id == 0 {
		p, err = a.posts.Create(ctx, sub)
	} else {
		// New images replace the existing image set wholesale.
		p, err = a.posts.Update(ctx, id, sub)
	}
	if err != nil {
		return renderErr(err)
	}

	fmt.Printf("Saved post #%d\n", p.ID)
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.posts.Delete(ctx, id); err != nil {
		return renderErr(err)
	}
	fmt.Println("Deleted.")
	return nil
}

// renderErr maps taxonomy errors to the messages the user should see.
func renderErr(err error) error {
	var denied *apierror.AuthorizationDeniedError
	if errors.As(err, &denied) {
		return fmt.Errorf("permission denied: %s", denied.Error())
	}
	var expired *apierror.SessionExpiredError
	if errors.As(err, &expired) {
		// The expiry handler already notified and redirected.
		return err
	}
	var netErr *apierror.NetworkError
	if errors.As(err, &netErr) {
		return errors.New("could not reach the server, try again later")
	}
	return err
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing post id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", args[0])
	}
	return id, nil
}

// stringList collects repeatable flag values.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
