package clientcli_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sagarc03/eir/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer accepts one connection, records the request and writes reply.
func fakeServer(t *testing.T, reply string) (addr string, requests <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4096)
		n, _ := conn.Read(buf)
		ch <- string(buf[:n])
		_, _ = io.WriteString(conn, reply)
	}()

	return ln.Addr().String(), ch
}

func newClient(t *testing.T, addr string) *clientcli.Client {
	t.Helper()
	c, err := clientcli.New(&clientcli.Config{Address: addr}, clientcli.WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := clientcli.New(nil)
	assert.ErrorIs(t, err, clientcli.ErrConfigRequired)

	_, err = clientcli.New(&clientcli.Config{Address: "no-port"})
	assert.ErrorIs(t, err, clientcli.ErrInvalidAddress)
}

func TestClient_Get(t *testing.T) {
	reply := "HTTP/1.1 200 Ok\r\nServer: Eirserver\r\nContent-Type: text/plain\r\nETag: \"42\"\r\nContent-Length: 5\r\n\r\nhello"
	addr, requests := fakeServer(t, reply)

	resp, err := newClient(t, addr).Get(context.Background(), "/docs/a file.txt", `"41"`)
	require.NoError(t, err)

	req := <-requests
	assert.Equal(t, "GET /docs/a%20file.txt HTTP/1.1\r\nHost: "+addr+"\r\nIf-None-Match: \"41\"\r\n\r\n", req)

	assert.Equal(t, "HTTP/1.1", resp.Version)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "200 Ok", resp.Status())
	assert.Equal(t, []byte("hello"), resp.Body)

	etag, ok := resp.Header("etag")
	require.True(t, ok)
	assert.Equal(t, `"42"`, etag)
}

func TestClient_Head(t *testing.T) {
	addr, requests := fakeServer(t, "HTTP/1.1 200 Ok\r\nContent-Length: 10\r\n\r\n")

	resp, err := newClient(t, addr).Head(context.Background(), "index.html")
	require.NoError(t, err)

	assert.Equal(t, "HEAD /index.html HTTP/1.1\r\nHost: "+addr+"\r\n\r\n", <-requests)
	assert.Empty(t, resp.Body)
	length, _ := resp.Header("Content-Length")
	assert.Equal(t, "10", length)
}

func TestClient_Do_CustomVersion(t *testing.T) {
	addr, requests := fakeServer(t, "HTTP/1.1 505 HTTP Version Not Supported\r\n\r\n")

	resp, err := newClient(t, addr).Do(context.Background(), clientcli.Request{
		Method: "GET", Path: "/", Version: "HTTP/1.0",
	})
	require.NoError(t, err)

	assert.Contains(t, <-requests, "GET / HTTP/1.0\r\n")
	assert.Equal(t, 505, resp.StatusCode)
	assert.Equal(t, "HTTP Version Not Supported", resp.StatusText)
}

func TestClient_Do_EmptyPath(t *testing.T) {
	c := newClient(t, "127.0.0.1:1")
	_, err := c.Do(context.Background(), clientcli.Request{Method: "GET"})
	assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
}

func TestClient_Get_EmptyReply(t *testing.T) {
	addr, _ := fakeServer(t, "")

	_, err := newClient(t, addr).Get(context.Background(), "/", "")
	assert.ErrorIs(t, err, clientcli.ErrEmptyResponse)
}

func TestClient_Shutdown(t *testing.T) {
	addr, requests := fakeServer(t, "")

	err := newClient(t, addr).Shutdown(context.Background())
	require.NoError(t, err)
	assert.Contains(t, <-requests, "GET /shutdown HTTP/1.1\r\n")
}

func TestClient_Shutdown_Rejected(t *testing.T) {
	addr, _ := fakeServer(t, "HTTP/1.1 404 Not Found\r\n\r\n")

	err := newClient(t, addr).Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
		code    int
	}{
		{"ok", "HTTP/1.1 200 Ok\r\nA: b\r\n\r\nbody", nil, 200},
		{"not modified", "HTTP/1.1 304 Not Modified\r\n\r\n", nil, 304},
		{"empty", "", clientcli.ErrEmptyResponse, 0},
		{"no terminator", "HTTP/1.1 200 Ok\r\n", clientcli.ErrMalformedResponse, 0},
		{"bad code", "HTTP/1.1 abc Ok\r\n\r\n", clientcli.ErrMalformedResponse, 0},
		{"bad header", "HTTP/1.1 200 Ok\r\nnocolon\r\n\r\n", clientcli.ErrMalformedResponse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := clientcli.ParseResponse([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "/a%20b/c.txt", clientcli.EscapePath("/a b/c.txt"))
	assert.Equal(t, "/x", clientcli.EscapePath("x"))
	assert.Equal(t, "/", clientcli.EscapePath("/"))
}
