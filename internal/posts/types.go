// Package posts provides the typed content gateway for the imagepost
// service: list, get, create, update and delete operations over
// /api/posts, delegating transport to the interceptor pipeline.
//
// FILES:
//   - client.go:    gateway operations and HTTP plumbing
//   - multipart.go: multipart body construction and tag parsing
//   - types.go:     wire and submission types
package posts

import (
	"io"
	"strings"
	"time"
)

// PostImage is a server-hosted attachment on a post.
type PostImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"imageUrl"`
}

// Post is a post as the server reports it. Identity and authorship are
// server-assigned and never trusted from client input beyond submission.
type Post struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Author    string      `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
	Tags      []string    `json:"tags"`
	Images    []PostImage `json:"images"`
}

// Attachment is a named binary image to upload.
type Attachment struct {
	Name    string
	Content io.Reader
}

// Submission is the transient client-side input for create and update. It
// exists only for the duration of the call and is discarded after.
//
// Submitting any new images replaces the server's image set wholesale;
// partial image update is not supported.
type Submission struct {
	Title   string
	Content string

	// Tags is the raw comma-delimited user input; see ParseTags.
	Tags string

	Images []Attachment
}

// ParseTags splits a comma-delimited tag string into trimmed, non-empty
// tags, preserving first-seen order without deduplicating. An empty or
// whitespace-only input yields an empty sequence.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
