// Command imagepost is a CLI client for the imagepost service. It stands in
// for the browser shell: login/logout drive the auth session, the remaining
// commands exercise the post gateway.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/imagepost/imagepost-cli/internal/auth"
	"github.com/imagepost/imagepost-cli/internal/config"
	"github.com/imagepost/imagepost-cli/internal/posts"
	"github.com/imagepost/imagepost-cli/internal/session"
	"github.com/imagepost/imagepost-cli/internal/transport"
)

func main() {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	args := os.Args[1:]
	configPath := "imagepost.yaml"
	debug := false

	// Peel off global options; the first bare argument is the command.
	i := 0
parseLoop:
	for i < len(args) {
		switch args[i] {
		case "-h", "--help":
			printHelp()
			return
		case "-c", "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --config requires a value")
				os.Exit(1)
			}
			configPath = args[i+1]
			i += 2
		case "-d", "--debug":
			debug = true
			i++
		default:
			break parseLoop
		}
	}
	args = args[i:]

	if len(args) == 0 {
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, debug)

	app, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(context.Background(), args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string, debug bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// app wires the gateway stack: credential store, persisted state,
// interceptor pipeline, auth controller and post client.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	store *session.Store
	state *session.StateStore
	auth  *auth.Controller
	posts *posts.Client
}

func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	state, err := session.OpenState(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	store := session.NewStore()

	base := &http.Client{Timeout: cfg.Timeout.Std()}

	var scheme auth.Scheme
	switch cfg.AuthScheme {
	case "cookie":
		jar, err := cookiejar.New(nil)
		if err != nil {
			_ = state.Close()
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		base.Jar = jar
		scheme = auth.NewCookieScheme()
	default:
		scheme = auth.NewBearerScheme(store)
	}

	ui := &consoleUI{}
	expiry := session.NewExpiryHandler(store, state, ui, ui, logger)
	pipeline := transport.NewPipeline(base, store, expiry, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		state:  state,
		auth: auth.NewController(cfg.BaseURL+config.DefaultAuthPath,
			base, scheme, state, ui, ui, logger),
		posts: posts.NewClient(cfg.BaseURL, pipeline, posts.WithLogger(logger)),
	}, nil
}

func (a *app) Close() {
	if err := a.state.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing state store")
	}
}

// consoleUI is the CLI stand-in for the browser's alert and navigation.
type consoleUI struct{}

func (u *consoleUI) Notify(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (u *consoleUI) NavigateToLogin() {
	fmt.Fprintln(os.Stderr, "Run `imagepost login` to start a new session.")
}

func (u *consoleUI) NavigateHome() {}

func printHelp() {
	fmt.Print(`imagepost - client for the imagepost service

Usage: imagepost [options] <command> [args]

Options:
  -c, --config <file>   config file (default: imagepost.yaml)
  -d, --debug           debug logging
  -h, --help            show this help

Commands:
  login                 log in and start a session
  logout                end the session
  list                  list posts
  get <id>              show one post
  new                   create a post (-title, -content, -tags, -image)
  edit <id>             update a post (same flags as new)
  delete <id>           delete a post
  status                show session status
`)
}
