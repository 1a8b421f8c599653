// Package directory is the HTTP client for the remote user directory.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/userdeck/userdeck/internal/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 1 << 20 // 1 MiB
	userAgent        = "userdeck"

	// maxResponseBodySize caps 2xx bodies; a larger body is a DecodeError.
	maxResponseBodySize = 16 << 20
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger

	token string
}

// New creates a directory client for baseURL. A non-positive timeout uses the default.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("directory base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("directory base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a copy of the client that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = strings.TrimSpace(token)
	return &cp
}

func (c *Client) ensureClient() error {
	if c == nil || c.BaseURL == "" {
		return errors.New("directory base URL is required")
	}
	if c.HTTP == nil {
		return errors.New("directory http client is not configured")
	}
	return nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	u.Fragment = ""
	return u.String(), nil
}

// do sends one request and decodes a 2xx JSON body into out. There are no
// retries: a failure surfaces as a single TransportError or RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload, out any) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.HTTP.Do(req)
	metrics.DirectoryRequestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.DirectoryRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		c.logger().Warn("directory request failed", "operation", op, "method", method, "err", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		if err != nil {
			metrics.DirectoryRequestsTotal.WithLabelValues(op, "transport_error").Inc()
			return &TransportError{Op: op, Err: err}
		}
		metrics.DirectoryRequestsTotal.WithLabelValues(op, outcomeForStatus(resp.StatusCode)).Inc()
		rerr := &RemoteError{Op: op, Status: resp.StatusCode, Message: remoteMessage(raw)}
		c.logStatus(op, method, rerr)
		return rerr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
	if err != nil {
		metrics.DirectoryRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return &TransportError{Op: op, Err: err}
	}
	if len(raw) > maxResponseBodySize {
		return c.decodeFailed(op, method, fmt.Errorf("body exceeds %d bytes", maxResponseBodySize))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		metrics.DirectoryRequestsTotal.WithLabelValues(op, "ok").Inc()
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.decodeFailed(op, method, err)
	}
	metrics.DirectoryRequestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

func (c *Client) decodeFailed(op, method string, err error) error {
	metrics.DirectoryRequestsTotal.WithLabelValues(op, "decode_error").Inc()
	c.logger().Warn("directory response unreadable", "operation", op, "method", method, "err", err)
	return &DecodeError{Op: op, Err: err}
}

func (c *Client) logStatus(op, method string, err *RemoteError) {
	log := c.logger().With("operation", op, "method", method, "status", err.Status)
	switch {
	case err.Status == http.StatusBadRequest:
		log.Warn("directory bad request", "message", err.Message)
	case err.Status == http.StatusUnauthorized:
		log.Info("directory rejected credentials")
	case err.Status == http.StatusForbidden:
		log.Warn("directory access forbidden")
	case err.Status == http.StatusNotFound:
		log.Warn("directory record not found")
	case err.Status >= 500:
		log.Error("directory server error", "message", err.Message)
	default:
		log.Warn("directory request rejected", "message", err.Message)
	}
}

func outcomeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}

func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return strings.TrimSpace(payload.Message)
	}
	return ""
}
