// Package remote holds the synchronous HTTP clients one service uses to call
// the /internal routes of its peers.
//
// Every client translates the peer's answer into the shared error taxonomy:
// a remote 404 and any transport failure become domain.ErrNotFound, which is
// the coarse granularity callers rely on.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Client performs JSON calls against one peer service.
type Client struct {
	target  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a client for the peer named target at baseURL. timeout
// bounds each call; a non-positive value falls back to the default.
func NewClient(target, baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		target:  target,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// errorBody is the subset of the peer's error envelope the client reads.
type errorBody struct {
	Message string `json:"message"`
}

// do sends in (when non-nil) as JSON and decodes the response into out (when
// non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", c.target, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", c.target, path, domain.ErrNotFound, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	withIdentity(ctx, req)

	return c.send(req, out)
}

// send executes req, records its duration and translates the answer.
func (c *Client) send(req *http.Request, out any) error {
	path := req.URL.Path
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RemoteCallDuration.WithLabelValues(c.target, outcome).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "error"
		c.log.Warn().Err(err).Str("target", c.target).Str("path", path).Msg("remote call failed")
		return fmt.Errorf("%s %s: %w: %v", c.target, path, domain.ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		err := statusError(resp)
		if errors.Is(err, domain.ErrNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return fmt.Errorf("%s %s: %w", c.target, path, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "error"
		return fmt.Errorf("%s %s: %w: decode response: %v", c.target, path, domain.ErrNotFound, err)
	}
	return nil
}

// statusError maps a peer's error status onto the taxonomy. Statuses with no
// specific meaning to the caller collapse to ErrNotFound.
func statusError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusConflict:
		sentinel = domain.ErrAlreadyExists
	case http.StatusBadRequest:
		sentinel = domain.ErrInvalidInput
	case http.StatusForbidden:
		sentinel = domain.ErrAccessDenied
	default:
		sentinel = domain.ErrNotFound
	}
	if eb.Message == "" {
		return fmt.Errorf("%w (status %d)", sentinel, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s", sentinel, eb.Message)
}

// withIdentity forwards the caller's trusted attributes so the peer logs and
// authorizes with the same principal.
func withIdentity(ctx context.Context, req *http.Request) {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return
	}
	req.Header.Set(domain.HeaderSubjectID, p.SubjectID)
	req.Header.Set(domain.HeaderRole, string(p.Role))
}
