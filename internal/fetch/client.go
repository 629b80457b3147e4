// Package fetch issues the HTTP requests for photo pages and images.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
)

// Response is a fully read 2xx response.
type Response struct {
	URL         string
	ContentType string
	Body        []byte
}

// Client fetches pages and images with browser-like headers.
// It never retries; callers decide what a failure means.
type Client struct {
	client *http.Client
}

// New creates a Client from the source section of cfg.
func New(cfg *config.Config) *Client {
	timeout := cfg.Source.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &browserTransport{
				RoundTripper:   http.DefaultTransport,
				UserAgent:      cfg.Source.UserAgent,
				AcceptLanguage: cfg.Source.AcceptLanguage,
			},
		},
	}
}

// Fetch performs a GET and returns the whole body.
// Transport failures are *NetworkError, non-2xx statuses *HTTPStatusError.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Cause: err}
	}

	return &Response{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
