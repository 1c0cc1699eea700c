package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/configs/internal/model"
)

// pathID parses the {id} path segment. It writes a 400 and returns false
// when the segment is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ID format")
		return 0, false
	}
	return id, true
}

// decodeInput reads a configuration body. It writes a 400 and returns nil on
// malformed JSON.
func decodeInput(w http.ResponseWriter, r *http.Request) *model.ConfigurationInput {
	var in model.ConfigurationInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil
	}
	return &in
}

// writeServiceError maps service errors to HTTP status codes.
func (s *ConfigServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ie, ok := isInputError(err); ok {
		writeError(w, http.StatusBadRequest, ie.Error())
		return
	}
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case isExpired(err):
		writeError(w, http.StatusUnauthorized, "token expired")
	case isInvalidToken(err):
		writeError(w, http.StatusUnauthorized, "invalid token")
	default:
		s.log(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleListConfigurations handles GET /v1/configurations.
func (s *ConfigServer) handleListConfigurations(w http.ResponseWriter, r *http.Request) {
	cfgs, err := s.listConfigurations(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfgs)
}

// handleGetConfiguration handles GET /v1/configurations/{id}.
func (s *ConfigServer) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cfg, err := s.getConfiguration(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleCreateConfiguration handles POST /v1/configurations.
func (s *ConfigServer) handleCreateConfiguration(w http.ResponseWriter, r *http.Request) {
	in := decodeInput(w, r)
	if in == nil {
		return
	}
	cfg, err := s.createConfiguration(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

// handleUpdateConfiguration handles PUT /v1/configurations/{id}.
func (s *ConfigServer) handleUpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in := decodeInput(w, r)
	if in == nil {
		return
	}
	cfg, err := s.updateConfiguration(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleDeleteConfiguration handles DELETE /v1/configurations/{id}.
func (s *ConfigServer) handleDeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.deleteConfiguration(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetToken handles GET /v1/configurations/{id}/token.
func (s *ConfigServer) handleGetToken(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tok, err := s.getToken(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok.Token})
}

// handleDecodeToken handles GET /v1/configurations/decode?token=.
func (s *ConfigServer) handleDecodeToken(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.decodeToken(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
