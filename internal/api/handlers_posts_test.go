package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/inkpost/inkpost/internal/blocks"
)

const savePostBody = `{
	"meta": {"title": "Hello World", "tags": ["go", "blog"], "draft": false},
	"blocks": [
		{"type": "header", "data": {"text": "Hello World", "level": 1}},
		{"type": "paragraph", "data": {"text": "First post on the new engine."}}
	]
}`

func TestSaveAndGetPost(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/api/posts/hello-world", "application/json", strings.NewReader(savePostBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/posts/hello-world", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Meta.Title != "Hello World" {
		t.Errorf("expected title %q, got %q", "Hello World", resp.Meta.Title)
	}
	if resp.Meta.Slug != "hello-world" {
		t.Errorf("expected slug %q, got %q", "hello-world", resp.Meta.Slug)
	}
	if resp.Meta.ReadingTime < 1 {
		t.Errorf("expected enriched reading time, got %d", resp.Meta.ReadingTime)
	}
	if resp.Meta.Description == "" {
		t.Error("expected enriched description")
	}
	if len(resp.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(resp.Blocks))
	}
	if h, ok := resp.Blocks[0].(blocks.Header); !ok || h.Text != "Hello World" {
		t.Errorf("expected header block first, got %#v", resp.Blocks[0])
	}
	if !strings.Contains(resp.Markdown, "# Hello World\n") {
		t.Errorf("markdown lost heading: %q", resp.Markdown)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/posts/no-such-post", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSavePostRejectsMissingTitle(t *testing.T) {
	s := newTestServer(t)
	body := `{"meta": {}, "blocks": [{"type": "paragraph", "data": {"text": "body"}}]}`
	rec := doRequest(t, s, http.MethodPut, "/api/posts/untitled-post", "application/json", strings.NewReader(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing title, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSavePostRejectsEmptyBlocks(t *testing.T) {
	s := newTestServer(t)
	body := `{"meta": {"title": "Empty"}, "blocks": []}`
	rec := doRequest(t, s, http.MethodPut, "/api/posts/empty", "application/json", strings.NewReader(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty blocks, got %d", rec.Code)
	}
}

func TestListPosts(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var empty struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &empty); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if empty.Count != 0 {
		t.Errorf("expected empty listing, got count %d", empty.Count)
	}

	doRequest(t, s, http.MethodPut, "/api/posts/hello-world", "application/json", strings.NewReader(savePostBody))

	rec = doRequest(t, s, http.MethodGet, "/api/posts", "", nil)
	var listing struct {
		Count int `json:"count"`
		Posts []struct {
			Slug string `json:"slug"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if listing.Count != 1 || len(listing.Posts) != 1 {
		t.Fatalf("expected 1 post, got count=%d len=%d", listing.Count, len(listing.Posts))
	}
	if listing.Posts[0].Slug != "hello-world" {
		t.Errorf("expected slug %q, got %q", "hello-world", listing.Posts[0].Slug)
	}
}

func TestDeletePost(t *testing.T) {
	s := newTestServer(t)
	doRequest(t, s, http.MethodPut, "/api/posts/hello-world", "application/json", strings.NewReader(savePostBody))

	rec := doRequest(t, s, http.MethodDelete, "/api/posts/hello-world", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/posts/hello-world", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/posts/hello-world", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice, got %d", rec.Code)
	}
}

func TestRevisionsAfterOverwrite(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPut, "/api/posts/hello-world", "application/json", strings.NewReader(savePostBody))

	updated := strings.Replace(savePostBody, "First post", "Updated post", 1)
	doRequest(t, s, http.MethodPut, "/api/posts/hello-world", "application/json", strings.NewReader(updated))

	rec := doRequest(t, s, http.MethodGet, "/api/posts/hello-world/revisions", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revisions: expected 200, got %d", rec.Code)
	}
	var listing struct {
		Count     int `json:"count"`
		Revisions []struct {
			ID string `json:"id"`
		} `json:"revisions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if listing.Count != 1 {
		t.Fatalf("expected 1 revision, got %d", listing.Count)
	}

	// The archived version holds the original body.
	rec = doRequest(t, s, http.MethodGet, "/api/posts/hello-world/revisions/"+listing.Revisions[0].ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revision: expected 200, got %d", rec.Code)
	}
	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.Markdown, "First post") {
		t.Errorf("revision lost original text: %q", resp.Markdown)
	}
}

func TestPreviewRendersHTML(t *testing.T) {
	s := newTestServer(t)
	body := `{"blocks": [
		{"type": "header", "data": {"text": "Preview Me", "level": 2}},
		{"type": "paragraph", "data": {"text": "Check the output."}}
	]}`

	rec := doRequest(t, s, http.MethodPost, "/api/preview", "application/json", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.Markdown, "## Preview Me\n") {
		t.Errorf("unexpected markdown: %q", resp.Markdown)
	}
	if !strings.Contains(resp.HTML, "<h2") || !strings.Contains(resp.HTML, "Preview Me") {
		t.Errorf("unexpected html: %q", resp.HTML)
	}
}
