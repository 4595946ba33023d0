package clientcli

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultVersion is the protocol version sent when none is configured.
	DefaultVersion = "HTTP/1.1"

	// DefaultShutdownPath matches the server's default shutdown trigger.
	DefaultShutdownPath = "/shutdown"
)

// Request describes one raw request line plus optional revalidation header.
type Request struct {
	Method string
	// Path is the unescaped resource path; it is percent-encoded on the wire.
	Path    string
	Version string
	// ETag is sent as If-None-Match when non-empty.
	ETag string
}

// Header is a single response header in wire order.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Response is a parsed server reply.
type Response struct {
	Version    string
	StatusCode int
	StatusText string
	Headers    []Header
	Body       []byte
	// Raw holds the bytes exactly as received.
	Raw []byte
}

// Header returns the first header value with the given name, compared
// case-insensitively.
func (r *Response) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Status returns the status line without the version, e.g. "200 Ok".
func (r *Response) Status() string {
	return strconv.Itoa(r.StatusCode) + " " + r.StatusText
}

// IsText reports whether the body can be printed as text: valid UTF-8 with
// no NUL bytes.
func (r *Response) IsText() bool {
	return utf8.Valid(r.Body) && bytes.IndexByte(r.Body, 0) < 0
}
