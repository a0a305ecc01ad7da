package apierror

import (
	"errors"
	"net/http"
	"testing"
)

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "403 with message",
			status: http.StatusForbidden,
			body:   `{"status":403,"code":"A002","message":"only the author may delete this post"}`,
			check: func(t *testing.T, err error) {
				var denied *AuthorizationDeniedError
				if !errors.As(err, &denied) {
					t.Fatalf("expected AuthorizationDeniedError, got %v", err)
				}
				if denied.Message != "only the author may delete this post" {
					t.Errorf("message = %q", denied.Message)
				}
			},
		},
		{
			name:   "403 without body",
			status: http.StatusForbidden,
			body:   "",
			check: func(t *testing.T, err error) {
				var denied *AuthorizationDeniedError
				if !errors.As(err, &denied) {
					t.Fatalf("expected AuthorizationDeniedError, got %v", err)
				}
				if denied.Error() != "you do not have permission to perform this action" {
					t.Errorf("fallback message = %q", denied.Error())
				}
			},
		},
		{
			name:   "validation error with code",
			status: http.StatusBadRequest,
			body:   `{"status":400,"code":"C001","message":"title must not be blank"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
				if apiErr.Status != http.StatusBadRequest || apiErr.Code != "C001" {
					t.Errorf("status/code = %d/%q", apiErr.Status, apiErr.Code)
				}
				if apiErr.Error() != "title must not be blank" {
					t.Errorf("message must surface verbatim, got %q", apiErr.Error())
				}
			},
		},
		{
			name:   "server error with non-json body",
			status: http.StatusInternalServerError,
			body:   "<html>Internal Server Error</html>",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
				if apiErr.Error() != "request failed with status 500" {
					t.Errorf("fallback message = %q", apiErr.Error())
				}
			},
		},
		{
			name:   "anonymous 401 stays a plain api error",
			status: http.StatusUnauthorized,
			body:   `{"message":"bad auth"}`,
			check: func(t *testing.T, err error) {
				var expired *SessionExpiredError
				if errors.As(err, &expired) {
					t.Fatal("classification must never produce a session expiry")
				}
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, FromResponse(tt.status, []byte(tt.body)))
		})
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("NetworkError must unwrap to the transport error")
	}
}
