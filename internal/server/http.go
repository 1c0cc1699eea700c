package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies on create/update.
const maxBodyBytes = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except health and token decoding)
// must include a valid Authorization: Bearer <token> header.
func (s *ConfigServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/configurations", s.handleListConfigurations)
	mux.HandleFunc("POST /v1/configurations", s.handleCreateConfiguration)
	mux.HandleFunc("GET /v1/configurations/decode", s.handleDecodeToken)
	mux.HandleFunc("GET /v1/configurations/{id}", s.handleGetConfiguration)
	mux.HandleFunc("PUT /v1/configurations/{id}", s.handleUpdateConfiguration)
	mux.HandleFunc("DELETE /v1/configurations/{id}", s.handleDeleteConfiguration)
	mux.HandleFunc("GET /v1/configurations/{id}/token", s.handleGetToken)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = s.metricsMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// handleHealth handles GET /v1/health.
func (s *ConfigServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		s.log(r.Context()).Warn("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
