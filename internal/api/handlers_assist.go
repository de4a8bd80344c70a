package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/assist"
)

type assistRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		jsonError(w, "assist is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req assistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	action, err := assist.ParseAction(req.Action)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	out, err := s.assist.Rewrite(r.Context(), action, req.Text)
	if err != nil {
		var retry *assist.RetryableError
		if errors.As(err, &retry) {
			jsonError(w, "assist temporarily unavailable: "+err.Error(), http.StatusBadGateway)
			return
		}
		jsonError(w, "assist failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"action": action,
		"text":   out,
	})
}

func (s *Server) handleAssistStats(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		jsonError(w, "assist is not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": s.assist.Model(),
		"stats": s.assist.Stats().Snapshot(),
	})
}
