package clientcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole exchange: dial, write and read.
const DefaultTimeout = 30 * time.Second

// Client sends raw requests to an Eirserver. Each request uses a fresh
// connection; the server closes it after replying.
type Client struct {
	config  *Config
	dialer  *net.Dialer
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDialer sets a custom dialer.
func WithDialer(d *net.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:  cfg,
		dialer:  &net.Dialer{},
		timeout: DefaultTimeout,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get fetches path, sending etag as If-None-Match when non-empty.
func (c *Client) Get(ctx context.Context, path, etag string) (*Response, error) {
	return c.Do(ctx, Request{Method: "GET", Path: path, ETag: etag})
}

// Head fetches the headers for path.
func (c *Client) Head(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: "HEAD", Path: path})
}

// Shutdown requests the configured shutdown path. The server closes the
// connection without replying, so an empty reply is success.
func (c *Client) Shutdown(ctx context.Context) error {
	raw, err := c.exchange(ctx, c.encode(Request{Method: "GET", Path: c.config.ShutdownPath}))
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if len(raw) != 0 {
		resp, err := ParseResponse(raw)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return fmt.Errorf("shutdown: server replied %s", resp.Status())
	}
	return nil
}

// Do sends req and parses the reply.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Path == "" {
		return nil, ErrEmptyPath
	}

	raw, err := c.exchange(ctx, c.encode(req))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return resp, nil
}

func (c *Client) encode(req Request) []byte {
	version := req.Version
	if version == "" {
		version = c.config.Version
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s %s\r\n", req.Method, EscapePath(req.Path), version)
	fmt.Fprintf(&b, "Host: %s\r\n", c.config.Address)
	if req.ETag != "" {
		fmt.Fprintf(&b, "If-None-Match: %s\r\n", req.ETag)
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// exchange writes payload on a new connection and reads until the server
// closes it.
func (c *Client) exchange(ctx context.Context, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.config.Address)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// a reset after a full reply still carries a usable response
		if len(raw) == 0 {
			return nil, fmt.Errorf("read response: %w", err)
		}
	}
	return raw, nil
}

// EscapePath percent-encodes p so it survives the whitespace-delimited
// request line.
func EscapePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Path: p}).EscapedPath()
}

// ParseResponse splits a raw reply into status, headers and body.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	head, body, found := bytes.Cut(raw, []byte("\r\n\r\n"))
	if !found {
		return nil, fmt.Errorf("%w: missing header terminator", ErrMalformedResponse)
	}

	lines := strings.Split(string(head), "\r\n")

	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: status line %q", ErrMalformedResponse, lines[0])
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: status code %q", ErrMalformedResponse, parts[1])
	}

	resp := &Response{
		Version:    parts[0],
		StatusCode: code,
		Body:       body,
		Raw:        raw,
	}
	if len(parts) == 3 {
		resp.StatusText = parts[2]
	}

	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: header %q", ErrMalformedResponse, line)
		}
		resp.Headers = append(resp.Headers, Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	return resp, nil
}
