package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// CacheAdmin is the view of the freshness cache exposed over the admin API.
type CacheAdmin interface {
	Len(ctx context.Context) (int, error)
	Purge(ctx context.Context) error
	TTL() time.Duration
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type HandlerConfig struct {
	// Token guards mutating routes. Empty disables the check.
	Token string
	CORS  CORSConfig
}

// CacheStats is the body of GET /cache.
type CacheStats struct {
	Entries    int   `json:"entries"`
	TTLSeconds int64 `json:"ttl_seconds"`
}

// Handler provides the admin HTTP endpoints.
type Handler struct {
	config HandlerConfig
	cache  CacheAdmin
}

// NewHandler creates a new Handler with the given configuration and cache.
func NewHandler(config *HandlerConfig, cache CacheAdmin) *Handler {
	return &Handler{
		config: *config,
		cache:  cache,
	}
}

// Router returns an http.Handler with the admin routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(writeDefaultNotFound)

	r.Get("/healthz", h.handleHealth)
	r.Get("/cache", h.handleCacheStats)

	r.Group(func(r chi.Router) {
		r.Use(TokenMiddleware(h.config.Token))
		r.Delete("/cache", h.handleCachePurge)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	n, err := h.cache.Len(r.Context())
	if err != nil {
		HandleError(w, fmt.Errorf("%w: count entries: %w", ErrStoreUnavailable, err))
		return
	}

	_ = WriteJSON(w, http.StatusOK, CacheStats{
		Entries:    n,
		TTLSeconds: int64(h.cache.TTL() / time.Second),
	})
}

func (h *Handler) handleCachePurge(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Purge(r.Context()); err != nil {
		HandleError(w, fmt.Errorf("%w: purge: %w", ErrStoreUnavailable, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
