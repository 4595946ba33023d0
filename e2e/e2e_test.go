package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(t *testing.T, s *Server, path string) map[string]string {
	t.Helper()

	resp, err := s.client.Head(context.Background(), path)
	require.NoError(t, err)

	out := map[string]string{"status": resp.Status()}
	for _, h := range resp.Headers {
		out[h.Name] = h.Value
	}
	return out
}

// TestE2E_Serving covers the content strategies over a real socket.
func TestE2E_Serving(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hello.txt", "hello, world\n", 0o644)
	writeFile(t, root, "docs/a.txt", "a", 0o644)
	writeFile(t, root, "docs/b file.txt", "b", 0o644)
	writeFile(t, root, "site/index.html", "<h1>site</h1>", 0o644)
	writeFile(t, root, "run.sh", "#!/bin/sh\necho script output\n", 0o755)
	writeFile(t, root, "blob", "plain text without extension", 0o644)

	srv := start(t, ServerConfig{RootDir: root, CacheTime: 60})
	ctx := context.Background()

	t.Run("regular file", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/hello.txt", "")
		require.NoError(t, err)

		assert.Equal(t, "200 Ok", resp.Status())
		assert.Equal(t, "hello, world\n", string(resp.Body))

		ct, _ := resp.Header("Content-Type")
		assert.Equal(t, "text/plain", ct)
		cc, _ := resp.Header("Cache-Control")
		assert.Equal(t, "public, max-age=60", cc)
		server, _ := resp.Header("Server")
		assert.Equal(t, "Eirserver", server)
		length, _ := resp.Header("Content-Length")
		assert.Equal(t, "13", length)
		etag, ok := resp.Header("ETag")
		assert.True(t, ok)
		assert.True(t, strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`))
	})

	t.Run("head has headers only", func(t *testing.T) {
		h := header(t, srv, "/hello.txt")

		assert.Equal(t, "200 Ok", h["status"])
		assert.Equal(t, "13", h["Content-Length"])
		assert.Equal(t, "text/plain", h["Content-Type"])
	})

	t.Run("extensionless text becomes text/plain", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/blob", "")
		require.NoError(t, err)

		ct, _ := resp.Header("Content-Type")
		assert.Equal(t, "text/plain", ct)
	})

	t.Run("directory listing", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/docs", "")
		require.NoError(t, err)

		body := string(resp.Body)
		assert.Equal(t, "200 Ok", resp.Status())
		assert.Contains(t, body, "Index of /docs")
		assert.Contains(t, body, ">a.txt</a>")
		assert.Contains(t, body, ">b file.txt</a>")
		assert.Less(t, strings.Index(body, "a.txt"), strings.Index(body, "b file.txt"))
	})

	t.Run("directory index", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/site", "")
		require.NoError(t, err)

		assert.Equal(t, "<h1>site</h1>", string(resp.Body))
		ct, _ := resp.Header("Content-Type")
		assert.Equal(t, "text/html", ct)
	})

	t.Run("script output", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/run.sh", "")
		require.NoError(t, err)

		assert.Equal(t, "200 Ok", resp.Status())
		assert.Equal(t, "script output\n", string(resp.Body))
	})

	t.Run("escaped path", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/docs/b file.txt", "")
		require.NoError(t, err)

		assert.Equal(t, "b", string(resp.Body))
	})

	t.Run("missing file", func(t *testing.T) {
		resp, err := srv.client.Get(ctx, "/nope.txt", "")
		require.NoError(t, err)

		assert.Equal(t, "404 Not Found", resp.Status())
		assert.Empty(t, resp.Body)
		_, ok := resp.Header("Content-Type")
		assert.False(t, ok)
	})
}

// TestE2E_Rejections sends malformed requests on raw sockets.
func TestE2E_Rejections(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x", 0o644)

	srv := start(t, ServerConfig{RootDir: root, CacheTime: 60})

	tests := []struct {
		name    string
		payload string
		status  string
	}{
		{"traversal", "GET /../etc/passwd HTTP/1.1\r\n\r\n", "400 Bad Request"},
		{"missing version", "GET /index.html\r\n\r\n", "400 Bad Request"},
		{"lowercase method", "get /index.html HTTP/1.1\r\n\r\n", "400 Bad Request"},
		{"old version", "GET /index.html HTTP/1.0\r\n\r\n", "505 HTTP Version Not Supported"},
		{"unimplemented method", "POST /index.html HTTP/1.1\r\n\r\n", "501 Not Implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rawRequest(t, srv.Addr, tt.payload)
			assert.True(t, strings.HasPrefix(got, "HTTP/1.1 "+tt.status+"\r\n"), "got %q", got)
		})
	}
}

// TestE2E_Revalidation checks 304 handling and invalidation on change.
func TestE2E_Revalidation(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "page.html", "v1", 0o644)

	srv := start(t, ServerConfig{RootDir: root, CacheTime: 60})
	ctx := context.Background()

	first, err := srv.client.Get(ctx, "/page.html", "")
	require.NoError(t, err)
	etag, ok := first.Header("ETag")
	require.True(t, ok)

	second, err := srv.client.Get(ctx, "/page.html", etag)
	require.NoError(t, err)
	assert.Equal(t, "304 Not Modified", second.Status())
	assert.Empty(t, second.Body)

	wrong, err := srv.client.Get(ctx, "/page.html", `"0"`)
	require.NoError(t, err)
	assert.Equal(t, "200 Ok", wrong.Status())

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	// the entry recorded by the previous GET is invalidated by the new mtime
	current, _ := wrong.Header("ETag")
	third, err := srv.client.Get(ctx, "/page.html", current)
	require.NoError(t, err)
	assert.Equal(t, "200 Ok", third.Status())
	assert.Equal(t, "v2", string(third.Body))

	newTag, _ := third.Header("ETag")
	assert.NotEqual(t, etag, newTag)
}

// TestE2E_CacheDisabled checks that cache time 0 never produces 304.
func TestE2E_CacheDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.html", "v1", 0o644)

	srv := start(t, ServerConfig{RootDir: root, CacheTime: 0})
	ctx := context.Background()

	resp, err := srv.client.Get(ctx, "/page.html", `"123"`)
	require.NoError(t, err)

	assert.Equal(t, "200 Ok", resp.Status())
	cc, _ := resp.Header("Cache-Control")
	assert.Equal(t, "no-store", cc)
	_, ok := resp.Header("ETag")
	assert.False(t, ok)
}

// TestE2E_ShutdownPath stops the server through its shutdown path.
func TestE2E_ShutdownPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x", 0o644)

	srv := start(t, ServerConfig{RootDir: root, CacheTime: 60})

	require.NoError(t, srv.client.Shutdown(context.Background()))
	assert.NoError(t, srv.waitExit(t, 10*time.Second))
}

// TestE2E_SignalShutdown stops the server with SIGTERM.
func TestE2E_SignalShutdown(t *testing.T) {
	srv := start(t, ServerConfig{RootDir: t.TempDir(), CacheTime: 60})

	require.NoError(t, srv.cmd.Process.Signal(os.Interrupt))
	assert.NoError(t, srv.waitExit(t, 10*time.Second))
}

// TestE2E_ClassicConfig starts the server from a key=value config file.
func TestE2E_ClassicConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hello.txt", "classic", 0o644)

	port := getOpenPort(t)
	configPath := filepath.Join(t.TempDir(), "eirserver.conf")
	content := "# classic format\n" +
		"ip=127.0.0.1\n" +
		"port=" + strconv.Itoa(port) + "\n" +
		"root_dir=" + root + "\n" +
		"cache_time=30\n" +
		"verbosity=none\n" +
		"off_address=/stop\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	srv := startServer(t, configPath, port)

	resp, err := srv.client.Get(context.Background(), "/hello.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "classic", string(resp.Body))
	cc, _ := resp.Header("Cache-Control")
	assert.Equal(t, "public, max-age=30", cc)

	got := rawRequest(t, srv.Addr, "GET /stop HTTP/1.1\r\n\r\n")
	assert.Empty(t, got)
	assert.NoError(t, srv.waitExit(t, 10*time.Second))
}

// TestE2E_PersistentBackends checks that revalidation survives a restart.
func TestE2E_PersistentBackends(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) ServerConfig
	}{
		{"leveldb", func(t *testing.T) ServerConfig {
			return ServerConfig{Backend: "leveldb", CachePath: filepath.Join(t.TempDir(), "cache")}
		}},
		{"sqlite", func(t *testing.T) ServerConfig {
			return ServerConfig{Backend: "sqlite", CacheDSN: filepath.Join(t.TempDir(), "cache.db")}
		}},
		{"postgres", func(t *testing.T) ServerConfig {
			if testing.Short() {
				t.Skip("skipping postgres in short mode")
			}
			return ServerConfig{Backend: "postgres", CacheDSN: getSharedPostgresDatabase(t)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "page.html", "persist", 0o644)

			cfg := tt.cfg(t)
			cfg.RootDir = root
			cfg.CacheTime = 600
			cfg.Port = getOpenPort(t)
			configPath := createConfigFile(t, cfg)

			first := startServer(t, configPath, cfg.Port)
			resp, err := first.client.Get(context.Background(), "/page.html", "")
			require.NoError(t, err)
			etag, ok := resp.Header("ETag")
			require.True(t, ok)

			require.NoError(t, first.client.Shutdown(context.Background()))
			require.NoError(t, first.waitExit(t, 10*time.Second))

			second := startServer(t, configPath, cfg.Port)
			resp, err = second.client.Get(context.Background(), "/page.html", etag)
			require.NoError(t, err)
			assert.Equal(t, "304 Not Modified", resp.Status())
		})
	}
}

// TestE2E_AdminAPI exercises the admin endpoints next to the file server.
func TestE2E_AdminAPI(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a", 0o644)
	writeFile(t, root, "b.txt", "b", 0o644)

	adminPort := getOpenPort(t)
	srv := start(t, ServerConfig{RootDir: root, CacheTime: 60, AdminPort: adminPort})
	ctx := context.Background()

	for _, p := range []string{"/a.txt", "/b.txt"} {
		_, err := srv.client.Get(ctx, p, "")
		require.NoError(t, err)
	}

	base := "http://127.0.0.1:" + strconv.Itoa(adminPort)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	resp, err := httpClient.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := func() map[string]int {
		resp, err := httpClient.Get(base + "/cache")
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	got := stats()
	assert.Equal(t, 2, got["entries"])
	assert.Equal(t, 60, got["ttl_seconds"])

	req, err := http.NewRequest(http.MethodDelete, base+"/cache", nil)
	require.NoError(t, err)
	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer e2e-token")
	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 0, stats()["entries"])
}
