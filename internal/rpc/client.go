// Package rpc is the signed RPC client of the entitlement service.
//
// Every call is a POST of a compact HS256 token to <base>/<method>; the
// response body is a token signed with the same project secret whose
// "result" claim carries the answer. The server is the only source of
// entitlement truth: the client verifies and decodes, nothing more.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/dmitrijs2005/ezrevenue/internal/netx"
	"github.com/google/uuid"
)

// Client calls methods of the entitlement service over signed HTTP POSTs.
type Client struct {
	baseURL string
	codec   *Codec
	http    *http.Client
	logger  logging.Logger
}

// NewClient returns a Client posting to baseURL. A nil httpClient means
// http.DefaultClient; no timeout is imposed beyond the caller's context.
func NewClient(baseURL string, codec *Codec, httpClient *http.Client, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		codec:   codec,
		http:    httpClient,
		logger:  logger,
	}
}

// Call invokes method with params and unmarshals the verified result into out
// (skipped when out is nil). Errors match common.ErrTransport or
// common.ErrSignature; none are retried.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	log := c.logger.With("method", method, "request_id", uuid.NewString())
	start := time.Now()

	token, err := c.codec.Encode(method, params)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	log.Debug(ctx, "calling entitlement service")
	body, err := netx.PostText(ctx, c.http, c.baseURL+"/"+method, token)
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) {
			log.Warn(ctx, "call failed", "status", se.StatusCode, "body", se.Body)
		} else {
			log.Warn(ctx, "call failed", "error", err)
		}
		return fmt.Errorf("%s: %w", method, err)
	}

	result, err := c.codec.Decode(body)
	if err != nil {
		log.Warn(ctx, "response rejected", "error", err)
		return fmt.Errorf("%s: %w", method, err)
	}

	if out != nil {
		if err := json.Unmarshal(result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}

	log.Debug(ctx, "call succeeded", "elapsed", time.Since(start))
	return nil
}
