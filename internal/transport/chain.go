// Package transport implements the request/response interceptor pipeline the
// content gateway composes over its HTTP transport.
//
// DESIGN: The pipeline is an explicit middleware chain over a Doer, not an
// ambient mutation of a shared client. Ordering is fixed and testable:
// request mutation happens before send, response inspection before the
// result reaches the caller.
//
// FLOW:
//  1. RequestID stamps X-Request-Id and logs the round trip
//  2. BearerAuth attaches the credential, if one is held
//  3. SessionExpiry inspects the response for credential rejection
package transport

import "net/http"

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Doer with additional behavior.
type Middleware func(next Doer) Doer

// Chain composes base with the given middleware. The first middleware is the
// outermost: its request mutation runs first and its response inspection
// runs last.
func Chain(base Doer, mw ...Middleware) Doer {
	d := base
	for i := len(mw) - 1; i >= 0; i-- {
		d = mw[i](d)
	}
	return d
}
