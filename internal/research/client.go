package research

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize limits the API response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Poster is the HTTP collaborator: one JSON POST returning the response body.
// Non-2xx responses and transport failures are returned as errors.
type Poster interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) ([]byte, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string // truncated to 200 characters
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("research API error (status %d): %s", e.StatusCode, e.Body)
}

// Transient reports whether a retry could succeed (429 and 5xx).
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsTransient returns true if err wraps a transient StatusError.
func IsTransient(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}

// HTTPPoster implements Poster with net/http.
type HTTPPoster struct {
	client *http.Client
}

// NewHTTPPoster returns a Poster using client, or a fresh http.Client if nil.
func NewHTTPPoster(client *http.Client) *HTTPPoster {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPPoster{client: client}
}

// Post sends body to url. A positive timeout bounds the whole exchange.
func (p *HTTPPoster) Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create HTTP request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}
	return respBody, nil
}
