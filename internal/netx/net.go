// Package netx contains the HTTP plumbing of the entitlement client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// StatusError describes a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response %s; body: %s", e.Status, e.Body)
}

// Unwrap makes a StatusError match common.ErrTransport.
func (e *StatusError) Unwrap() error {
	return common.ErrTransport
}

// PostText sends body as text/plain to url and returns the response body.
// Network failures wrap common.ErrTransport; non-2xx responses are returned
// as *StatusError, which also matches common.ErrTransport. Nothing is retried.
func PostText(ctx context.Context, client *http.Client, url, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", common.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", common.ErrTransport, err)
	}
	return string(b), nil
}
