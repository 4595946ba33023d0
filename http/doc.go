// Package http provides the optional admin API for Eirserver.
//
// The admin API runs on its own listener, separate from the raw-socket file
// server, and exposes the freshness cache:
//
//	GET    /healthz  liveness probe, {"status":"ok"}
//	GET    /cache    {"entries": n, "ttl_seconds": s}
//	DELETE /cache    drops every cache entry (204)
//
// # Authentication
//
// Mutating routes pass through TokenMiddleware. With a non-empty token the
// request must carry "Authorization: Bearer <token>"; otherwise a JSON 401 is
// returned. An empty token leaves the routes open.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{Token: token}, freshness)
//	srv := &nethttp.Server{Addr: "127.0.0.1:8081", Handler: handler.Router()}
//
// CORS is applied through go-chi/cors when HandlerConfig.CORS.Enabled is set.
package http
