package session

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier surfaces a one-time user-facing message. The CLI prints to
// stderr; tests inject fakes.
type Notifier interface {
	Notify(msg string)
}

// Navigator performs hard navigation between the client's entry points.
// In the CLI this prints where the user ended up; a UI shell would replace
// the current view.
type Navigator interface {
	NavigateToLogin()
	NavigateHome()
}

// ExpiredMessage is the one-shot notification shown when a held credential
// is rejected by the server.
const ExpiredMessage = "Session expired, please log in again."

// ExpiryHandler reacts to a detected session expiry: it tears down
// client-held auth state, clears the persisted flag, notifies the user once
// and navigates to the login entry point.
type ExpiryHandler struct {
	store     *Store
	flag      Flag
	notifier  Notifier
	navigator Navigator
	logger    zerolog.Logger
}

// NewExpiryHandler wires the handler to its collaborators. All dependencies
// are injected so the gateway stays testable in isolation.
func NewExpiryHandler(store *Store, flag Flag, notifier Notifier, navigator Navigator, logger zerolog.Logger) *ExpiryHandler {
	return &ExpiryHandler{
		store:     store,
		flag:      flag,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// SessionExpired runs the teardown cycle and reports whether this invocation
// performed it. The cycle is one-shot: only the caller whose Clear removes a
// live credential notifies and navigates; concurrent invocations observe an
// already-empty store and skip the repeat alert.
func (h *ExpiryHandler) SessionExpired(ctx context.Context) bool {
	if !h.store.Clear() {
		return false
	}

	if err := h.flag.SetLoggedIn(ctx, false); err != nil {
		h.logger.Warn().Err(err).Msg("session: failed to persist logged-out state")
	}

	h.logger.Info().Msg("session: credential rejected by server, tearing down")
	h.notifier.Notify(ExpiredMessage)
	h.navigator.NavigateToLogin()
	return true
}
