package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imagepost/imagepost-cli/internal/apierror"
	"github.com/imagepost/imagepost-cli/internal/session"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
	bearerPrefix        = "Bearer "
)

// CredentialSource exposes the read side of the credential store to the
// request interceptor.
type CredentialSource interface {
	Get() (string, bool)
}

// ExpiryHandler runs the one-shot teardown cycle when a held credential is
// rejected. It reports whether this invocation performed the teardown;
// concurrent detections are expected to skip.
type ExpiryHandler interface {
	SessionExpired(ctx context.Context) bool
}

// BearerAuth returns the request interceptor: when a credential is held it
// is injected as `Authorization: Bearer <token>`, overwriting any value
// already present so a re-run always carries the current credential. Absence
// of a credential is a valid state (anonymous reads, login itself) and never
// fails the request.
func BearerAuth(creds CredentialSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if token, ok := creds.Get(); ok {
				req.Header.Set(headerAuthorization, bearerPrefix+token)
			}
			return next.Do(req)
		})
	}
}

// SessionExpiry returns the response interceptor. On a 401 response to a
// request that carried a bearer credential it triggers the expiry handler
// and replaces the result with apierror.SessionExpiredError, so call-site
// error handling still executes. A 401 on an anonymous request is not a
// session-expiry event and passes through unchanged, as does every other
// response.
func SessionExpiry(handler ExpiryHandler) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil || resp == nil {
				return resp, err
			}
			if resp.StatusCode != http.StatusUnauthorized || !hadCredential(req) {
				return resp, err
			}

			// The response is consumed here; callers get the typed error.
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			handler.SessionExpired(req.Context())
			return nil, &apierror.SessionExpiredError{}
		})
	}
}

// hadCredential reports whether the outbound request carried a bearer token
// at send time.
func hadCredential(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get(headerAuthorization), bearerPrefix)
}

// RequestID stamps every outbound request with a fresh X-Request-Id and
// emits a debug log line for the round trip.
func RequestID(logger zerolog.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			id := uuid.New().String()
			req.Header.Set(headerRequestID, id)

			start := time.Now()
			resp, err := next.Do(req)

			ev := logger.Debug().
				Str("request_id", id).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Dur("elapsed", time.Since(start))
			if err != nil {
				ev.Err(err).Msg("transport: request failed")
				return resp, err
			}
			ev.Int("status", resp.StatusCode).Msg("transport: request complete")
			return resp, err
		})
	}
}

// NewPipeline assembles the standard interceptor chain over base.
func NewPipeline(base Doer, creds CredentialSource, handler ExpiryHandler, logger zerolog.Logger) Doer {
	return Chain(base,
		RequestID(logger),
		BearerAuth(creds),
		SessionExpiry(handler),
	)
}

// Ensure session.Store satisfies the source interface.
var _ CredentialSource = (*session.Store)(nil)
