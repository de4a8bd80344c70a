package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/inkpost/inkpost/internal/blocks"
	"github.com/inkpost/inkpost/internal/store"
)

// postResponse is the editor view of one post: metadata plus the body
// both as blocks and as raw Markdown.
type postResponse struct {
	Meta     store.Meta      `json:"meta"`
	Blocks   blocks.Document `json:"blocks"`
	Markdown string          `json:"markdown"`
}

// savePostRequest is what the editor sends on save.
type savePostRequest struct {
	Meta   store.Meta      `json:"meta"`
	Blocks blocks.Document `json:"blocks"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	metas, err := s.store.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list posts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"posts": metas,
		"count": len(metas),
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := s.store.Load(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load post: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postResponse{
		Meta:     post.Meta,
		Blocks:   blocks.FromMarkdown(post.Markdown),
		Markdown: post.Markdown,
	})
}

func (s *Server) handleSavePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	var req savePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Blocks) == 0 {
		jsonError(w, "blocks are required", http.StatusBadRequest)
		return
	}

	// The URL names the post; a mismatched slug in the body is ignored.
	req.Meta.Slug = slug

	markdown := blocks.ToMarkdown(req.Blocks)
	store.EnrichMeta(&req.Meta, markdown, time.Now())

	post := &store.Post{Meta: req.Meta, Markdown: markdown}
	if err := s.store.Save(r.Context(), post); err != nil {
		var verr validation.Errors
		if errors.As(err, &verr) {
			jsonError(w, "invalid post: "+err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "failed to save post: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"meta": post.Meta})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	err := s.store.Delete(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete post: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": slug})
}

func (s *Server) handleListRevisions(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	revs, err := s.store.Revisions(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to list revisions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"revisions": revs,
		"count":     len(revs),
	})
}

func (s *Server) handleGetRevision(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	revID := chi.URLParam(r, "revID")
	post, err := s.store.Revision(r.Context(), slug, revID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "revision not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load revision: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postResponse{
		Meta:     post.Meta,
		Blocks:   blocks.FromMarkdown(post.Markdown),
		Markdown: post.Markdown,
	})
}
