package api

import (
	"encoding/json"
	"net/http"

	"github.com/inkpost/inkpost/internal/blocks"
)

type previewRequest struct {
	Blocks blocks.Document `json:"blocks"`
}

// handlePreview converts editor blocks to Markdown and rendered HTML
// without touching the store.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	markdown := blocks.ToMarkdown(req.Blocks)
	html, err := s.renderer.HTML(markdown)
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"markdown": markdown,
		"html":     html,
	})
}
