// Package storyapi is the HTTP gateway to the upstream story-generation API.
// It issues single-attempt JSON POSTs and classifies every outcome into a
// payload or a structured failure; no error ever escapes as a raw transport
// exception.
package storyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alokkumar353/story-mcp-server/pkg/logging"
)

// DefaultTimeout is the per-phase budget for upstream calls. Generation work
// can run for minutes, so it is deliberately generous.
const DefaultTimeout = 600 * time.Second

// Client posts to the story API. One configured client is shared across
// calls; keep-alives are disabled so every call dials its own connection and
// releases it when done.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *logging.Logger
}

// NewClient builds a gateway for the API at baseURL. The timeout applies
// independently to dial, TLS handshake and response-header phases, plus a
// per-call deadline covering the body read.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Transport: transport},
		logger:  logger,
	}
}

// Post issues one POST of body as JSON to the endpoint path and classifies
// the result. Single attempt, no retries.
func (c *Client) Post(ctx context.Context, endpoint string, body map[string]string) Outcome {
	target := c.baseURL + endpoint
	callID := uuid.NewString()

	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Error("request error", "call_id", callID, "err", err)
		return transportFailure(err)
	}

	c.logger.Info("making API request", "call_id", callID, "url", target, "payload", string(payload))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("request error", "call_id", callID, "err", err)
		return transportFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("timeout error", "call_id", callID, "err", err)
			return timeoutFailure()
		}
		c.logger.Error("request error", "call_id", callID, "err", err)
		return transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("timeout error", "call_id", callID, "err", err)
			return timeoutFailure()
		}
		c.logger.Error("read error", "call_id", callID, "err", err)
		return transportFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("HTTP error", "call_id", callID, "status", resp.StatusCode, "body", string(raw))
		return statusFailure(resp.StatusCode, string(raw))
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Error("malformed response", "call_id", callID, "err", err)
		return transportFailure(err)
	}

	c.logger.Info("API request successful", "call_id", callID, "status", resp.StatusCode)
	return success(parsed)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
