package eir

import (
	"bytes"
	"slices"
	"strconv"
	"time"
)

// DateFormat is the layout of the Date header. Times are rendered in UTC.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Response is an HTTP response under construction.
type Response struct {
	Method  Method
	Status  Status
	Body    []byte
	headers map[string]string
}

func NewResponse(method Method) *Response {
	return &Response{Method: method, headers: make(map[string]string)}
}

// SetHeader stores a header; a later call with the same name wins.
func (r *Response) SetHeader(name, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[name] = value
}

// Header returns the value of a caller-set header.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// HeaderNames returns the caller-set header names in byte order.
func (r *Response) HeaderNames() []string {
	names := make([]string, 0, len(r.headers))
	for k := range r.headers {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Bytes serializes the response. Content-Length is emitted only for a
// non-empty body, and the body is written only for a 200 response to a
// non-HEAD request.
func (r *Response) Bytes(now time.Time) []byte {
	var b bytes.Buffer

	b.WriteString(ProtocolVersion + " " + r.Status.String() + "\r\n")
	b.WriteString("Server: " + ServerName + "\r\n")
	b.WriteString("Date: " + now.UTC().Format(DateFormat) + "\r\n")

	for _, name := range r.HeaderNames() {
		b.WriteString(name + ": " + r.headers[name] + "\r\n")
	}

	if len(r.Body) > 0 {
		b.WriteString("Content-Length: " + strconv.Itoa(len(r.Body)) + "\r\n")
	}
	b.WriteString("\r\n")

	if r.Method != MethodHead && r.Status == StatusOK {
		b.Write(r.Body)
	}

	return b.Bytes()
}
