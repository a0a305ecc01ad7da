package auth

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/imagepost/imagepost-cli/internal/apierror"
	"github.com/imagepost/imagepost-cli/internal/session"
	"github.com/imagepost/imagepost-cli/internal/transport"
)

// LoggedOutMessage is shown after logout completes, whatever the server said.
const LoggedOutMessage = "You have been logged out."

// Controller drives the Anonymous <-> Authenticated transitions. Login and
// logout talk to the auth endpoints directly, outside the bearer-injection
// pipeline: at login no credential exists yet, at logout it is being
// discarded.
type Controller struct {
	authBase  string // e.g. "http://localhost:8080/api"
	http      transport.Doer
	scheme    Scheme
	flag      session.Flag
	notifier  session.Notifier
	navigator session.Navigator
	logger    zerolog.Logger
}

// NewController wires the auth flow to its collaborators.
func NewController(authBase string, doer transport.Doer, scheme Scheme, flag session.Flag, notifier session.Notifier, navigator session.Navigator, logger zerolog.Logger) *Controller {
	return &Controller{
		authBase:  strings.TrimRight(authBase, "/"),
		http:      doer,
		scheme:    scheme,
		flag:      flag,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Authenticated reports whether the client believes a session is live.
func (c *Controller) Authenticated() bool {
	return c.scheme.HasValidSession()
}

// Login submits credentials form-url-encoded to the login endpoint. On a
// success carrying an access token the token lands in the credential store;
// a success with an empty body (cookie scheme) counts by status alone.
// Either way the persisted flag is set before Login returns, so a request
// dispatched right after never races a stale credential.
//
// A 401 yields apierror.AuthenticationError; any other failure is generic.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	form := c.scheme.LoginForm(username, password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBase+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &apierror.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &apierror.AuthenticationError{}
	case resp.StatusCode != http.StatusOK:
		return apierror.FromResponse(resp.StatusCode, body)
	}

	c.scheme.EstablishSession(LoginResult{
		AccessToken: gjson.GetBytes(body, "accessToken").String(),
	})
	if err := c.flag.SetLoggedIn(ctx, true); err != nil {
		c.logger.Warn().Err(err).Msg("auth: failed to persist logged-in state")
	}

	c.logger.Info().Str("scheme", c.scheme.Name()).Str("username", username).Msg("auth: login succeeded")
	return nil
}

// Logout notifies the server, then tears down local state unconditionally:
// the credential store and persisted flag are cleared even if the network
// call failed, so the client can never be stuck "authenticated" under a
// partition. The server outcome is logged, not returned.
func (c *Controller) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/logout", nil)
	if err == nil {
		resp, doErr := c.http.Do(req)
		if doErr != nil {
			c.logger.Warn().Err(doErr).Msg("auth: logout request failed, clearing local state anyway")
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}

	c.scheme.TeardownSession()
	if err := c.flag.SetLoggedIn(ctx, false); err != nil {
		c.logger.Warn().Err(err).Msg("auth: failed to persist logged-out state")
	}

	c.notifier.Notify(LoggedOutMessage)
	c.navigator.NavigateHome()
	return nil
}
