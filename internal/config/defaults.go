// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in multiple places should be defined
// here. This makes configuration more maintainable and auditable.
package config

import "time"

// DefaultBaseURL is where the imagepost service is expected to listen when
// no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// DefaultAuthPath is the base path for the login/logout endpoints, distinct
// from the content endpoints.
const DefaultAuthPath = "/api"

// DefaultPostsPath is the base path for the content endpoints.
const DefaultPostsPath = "/api/posts"

// DefaultScheme selects the auth scheme when the config is silent.
const DefaultScheme = "bearer"

// DefaultTimeout bounds each HTTP round trip. There is no retry layer; a
// request that outlives this fails at the call site.
const DefaultTimeout = 30 * time.Second

// DefaultStateFile is the SQLite database holding persisted client state
// (the login flag), relative to the user home directory.
const DefaultStateFile = ".imagepost/state.db"

// MaxImageCount caps attachments per submission. The server enforces the
// same limit; checking client-side rejects oversized selections before any
// network call.
const MaxImageCount = 5
