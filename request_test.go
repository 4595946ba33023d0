package eir_test

import (
	"testing"

	"github.com/sagarc03/eir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T) *eir.Parser {
	t.Helper()
	root, err := eir.NewRequestPath("/srv/www")
	require.NoError(t, err)
	return eir.NewParser(root, eir.DefaultMimeTypes())
}

func TestParser_Parse(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		req := newParser(t).Parse([]byte("GET /a.txt HTTP/1.1\r\nHost: x\r\n\r\n"))

		assert.Equal(t, eir.MethodGet, req.Method)
		assert.Equal(t, "HTTP/1.1", req.Version)
		assert.Equal(t, "/a.txt", req.Path.Relative())
		assert.Equal(t, "/srv/www/a.txt", req.Path.Absolute())
		assert.Equal(t, "text/plain", req.MIME)
		assert.Empty(t, req.ETag)
		assert.Equal(t, "GET /a.txt HTTP/1.1", req.Line())
	})

	t.Run("decodes path", func(t *testing.T) {
		req := newParser(t).Parse([]byte("HEAD /my%20file+name.png HTTP/1.1\r\n\r\n"))

		assert.Equal(t, eir.MethodHead, req.Method)
		assert.Equal(t, "/my file name.png", req.Path.Relative())
		assert.Equal(t, "image/png", req.MIME)
	})

	t.Run("bad escape empties the path", func(t *testing.T) {
		req := newParser(t).Parse([]byte("GET /a%zz HTTP/1.1\r\n\r\n"))

		assert.Empty(t, req.Path.Relative())
		assert.False(t, req.Path.IsValid())
	})

	t.Run("if-none-match", func(t *testing.T) {
		req := newParser(t).Parse([]byte("GET / HTTP/1.1\r\nIf-None-Match: \"123\"\r\n\r\n"))
		assert.Equal(t, `"123"`, req.ETag)
	})

	t.Run("unknown extension", func(t *testing.T) {
		req := newParser(t).Parse([]byte("GET /data.bin HTTP/1.1\r\n\r\n"))
		assert.Equal(t, eir.DefaultMIME, req.MIME)
	})

	t.Run("missing version", func(t *testing.T) {
		req := newParser(t).Parse([]byte("GET /\r\n\r\n"))
		assert.Empty(t, req.Version)
	})

	t.Run("empty input", func(t *testing.T) {
		req := newParser(t).Parse(nil)
		assert.Equal(t, eir.MethodMalformed, req.Method)
		assert.Empty(t, req.Version)
		assert.False(t, req.Path.IsValid())
	})
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		token string
		want  eir.Method
	}{
		{"GET", eir.MethodGet},
		{"HEAD", eir.MethodHead},
		{"POST", eir.MethodUnknown},
		{"PUT", eir.MethodUnknown},
		{"DELETE", eir.MethodUnknown},
		{"CONNECT", eir.MethodUnknown},
		{"OPTIONS", eir.MethodUnknown},
		{"TRACE", eir.MethodUnknown},
		{"PATCH", eir.MethodUnknown},
		{"get", eir.MethodMalformed},
		{"BREW", eir.MethodMalformed},
		{"", eir.MethodMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, eir.ParseMethod(tt.token))
		})
	}
}

func TestDecodeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "plain", in: "/a/b", want: "/a/b", ok: true},
		{name: "plus", in: "/a+b", want: "/a b", ok: true},
		{name: "escape", in: "/%41%62", want: "/Ab", ok: true},
		{name: "lowercase hex", in: "/%2f", want: "//", ok: true},
		{name: "encoded percent", in: "/100%25", want: "/100%", ok: true},
		{name: "truncated escape", in: "/a%4", ok: false},
		{name: "trailing percent", in: "/a%", ok: false},
		{name: "non hex", in: "/%G1", ok: false},
		{name: "empty", in: "", want: "", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eir.DecodeURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractHeader(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: example\r\nIf-None-Match: \"42\"\r\n\r\n"

	v, ok := eir.ExtractHeader(raw, "If-None-Match")
	assert.True(t, ok)
	assert.Equal(t, `"42"`, v)

	v, ok = eir.ExtractHeader(raw, "Host")
	assert.True(t, ok)
	assert.Equal(t, "example", v)

	_, ok = eir.ExtractHeader(raw, "Accept")
	assert.False(t, ok)

	_, ok = eir.ExtractHeader("If-None-Match: x", "If-None-Match")
	assert.False(t, ok, "value without CRLF")

	_, ok = eir.ExtractHeader("If-None-Match", "If-None-Match")
	assert.False(t, ok, "name at end of input")
}
