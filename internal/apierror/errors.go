// Package apierror defines the error taxonomy for the imagepost client.
//
// Interceptors handle only session-level errors (expired credentials);
// everything else is classified here and propagated unchanged to the call
// site, which owns user-facing rendering. No retries happen anywhere.
package apierror

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// AuthenticationError reports rejected credentials at login.
// Callers render it as "check username or password", distinct from
// network or server failures.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed: check username or password"
}

// SessionExpiredError reports an authorization rejection on a request that
// carried a credential. By the time a caller sees it, the response
// interceptor has already torn down local auth state and navigated to the
// login entry point.
type SessionExpiredError struct{}

func (e *SessionExpiredError) Error() string {
	return "session expired, please log in again"
}

// AuthorizationDeniedError reports a 403 on a specific action the user lacks
// rights to (for example deleting another user's post). It does not end the
// session and must never be conflated with expiry.
type AuthorizationDeniedError struct {
	Message string
}

func (e *AuthorizationDeniedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "you do not have permission to perform this action"
}

// APIError carries a server-reported failure on a content operation.
// Code and Message come from the server's error body when present.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// NetworkError wraps a transport failure: the request never reached the
// server. It never triggers auth teardown.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FromResponse classifies a non-2xx response. The server error body is
// `{"status":..,"code":"..","message":".."}`; Message is surfaced verbatim
// when present, with a generic fallback otherwise.
//
// A 401 classified here means the request carried no credential (an
// anonymous request hit a protected resource). Expiry of a held credential
// is detected earlier, by the response interceptor.
func FromResponse(status int, body []byte) error {
	msg := gjson.GetBytes(body, "message").String()
	code := gjson.GetBytes(body, "code").String()

	if status == http.StatusForbidden {
		return &AuthorizationDeniedError{Message: msg}
	}
	return &APIError{Status: status, Code: code, Message: msg}
}
