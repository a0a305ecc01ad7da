package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/imagepost/imagepost-cli/internal/apierror"
	"github.com/imagepost/imagepost-cli/internal/config"
	"github.com/imagepost/imagepost-cli/internal/transport"
)

// =============================================================================
// Client
// =============================================================================

// Client is the content gateway. All operations go through the injected
// transport pipeline, which owns credential attachment and expiry detection.
type Client struct {
	baseURL string
	http    transport.Doer
	logger  zerolog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a gateway client rooted at baseURL (the service root,
// not the posts path).
func NewClient(baseURL string, doer transport.Doer, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + config.DefaultPostsPath,
		http:    doer,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Operations
// =============================================================================

// List fetches all posts. Works anonymously.
func (c *Client) List(ctx context.Context) ([]Post, error) {
	var result []Post
	if err := c.do(ctx, http.MethodGet, "", nil, "", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Get fetches a single post by id. Works anonymously.
func (c *Client) Get(ctx context.Context, id int64) (*Post, error) {
	var result Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%d", id), nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create submits a new post as multipart form data.
func (c *Client) Create(ctx context.Context, sub Submission) (*Post, error) {
	body, contentType, err := buildMultipart(sub)
	if err != nil {
		return nil, err
	}

	var result Post
	if err := c.do(ctx, http.MethodPost, "", body, contentType, &result); err != nil {
		return nil, err
	}
	c.logger.Info().Int64("post_id", result.ID).Msg("posts: created")
	return &result, nil
}

// Update replaces a post's content. If the submission carries any images the
// server discards the existing image set and installs the new one; there is
// no partial image update.
func (c *Client) Update(ctx context.Context, id int64, sub Submission) (*Post, error) {
	body, contentType, err := buildMultipart(sub)
	if err != nil {
		return nil, err
	}

	var result Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/%d", id), body, contentType, &result); err != nil {
		return nil, err
	}
	c.logger.Info().Int64("post_id", id).Msg("posts: updated")
	return &result, nil
}

// Delete removes a post by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/%d", id), nil, "", nil); err != nil {
		return err
	}
	c.logger.Info().Int64("post_id", id).Msg("posts: deleted")
	return nil
}

// =============================================================================
// HTTP plumbing
// =============================================================================

// do builds and executes one request, classifying failures through the
// apierror taxonomy. Session-expiry errors produced by the pipeline pass
// through untouched; other transport failures become NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body *bytes.Buffer, contentType string, result any) error {
	var reader io.Reader
	if body != nil {
		reader = body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var expired *apierror.SessionExpiredError
		if errors.As(err, &expired) {
			return err
		}
		return &apierror.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierror.FromResponse(resp.StatusCode, respBody)
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
