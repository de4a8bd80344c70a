package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func testPost(slug string) *Post {
	return &Post{
		Meta: Meta{
			Title: "A Title",
			Slug:  slug,
			Date:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
			Tags:  []string{"go", "notes"},
		},
		Markdown: "# A Title\n\nBody text.\n",
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	post := testPost("a-title")
	if err := s.Save(ctx, post); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := s.Load(ctx, "a-title")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.Meta.Title != post.Meta.Title {
		t.Errorf("expected title %q, got %q", post.Meta.Title, got.Meta.Title)
	}
	if got.Meta.Slug != "a-title" {
		t.Errorf("expected slug a-title, got %q", got.Meta.Slug)
	}
	if !got.Meta.Date.Equal(post.Meta.Date) {
		t.Errorf("expected date %v, got %v", post.Meta.Date, got.Meta.Date)
	}
	if len(got.Meta.Tags) != 2 || got.Meta.Tags[0] != "go" {
		t.Errorf("unexpected tags %v", got.Meta.Tags)
	}
	if got.Markdown != post.Markdown {
		t.Errorf("expected markdown %q, got %q", post.Markdown, got.Markdown)
	}
}

func TestStore_SaveRejectsInvalidMeta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		meta Meta
	}{
		{"missing title", Meta{Slug: "ok-slug"}},
		{"missing slug", Meta{Title: "Title"}},
		{"uppercase slug", Meta{Title: "Title", Slug: "Not-Lower"}},
		{"path traversal slug", Meta{Title: "Title", Slug: "../escape"}},
		{"trailing hyphen", Meta{Title: "Title", Slug: "bad-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Save(ctx, &Post{Meta: tt.meta, Markdown: "x"})
			if err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Load(ctx, "nothing-here"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// Invalid slugs can never name a stored file.
	if _, err := s.Load(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for invalid slug, got %v", err)
	}
}

func TestStore_OverwriteArchivesRevision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testPost("a-title")
	first.Markdown = "original body\n"
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}

	second := testPost("a-title")
	second.Markdown = "revised body\n"
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	revs, err := s.Revisions(ctx, "a-title")
	if err != nil {
		t.Fatalf("Revisions() failed: %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(revs))
	}
	if revs[0].Size == 0 {
		t.Error("expected non-zero revision size")
	}

	old, err := s.Revision(ctx, "a-title", revs[0].ID)
	if err != nil {
		t.Fatalf("Revision() failed: %v", err)
	}
	if old.Markdown != "original body\n" {
		t.Errorf("expected archived original body, got %q", old.Markdown)
	}

	current, err := s.Load(ctx, "a-title")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if current.Markdown != "revised body\n" {
		t.Errorf("expected revised body, got %q", current.Markdown)
	}
}

func TestStore_RevisionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		post := testPost("a-title")
		post.Markdown = fmt.Sprintf("version %d\n", i)
		if err := s.Save(ctx, post); err != nil {
			t.Fatalf("Save() %d failed: %v", i, err)
		}
	}

	revs, err := s.Revisions(ctx, "a-title")
	if err != nil {
		t.Fatalf("Revisions() failed: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revs))
	}
	for i := 1; i < len(revs); i++ {
		if revs[i-1].ID <= revs[i].ID {
			t.Errorf("revisions not newest first: %s before %s", revs[i-1].ID, revs[i].ID)
		}
	}

	newest, err := s.Revision(ctx, "a-title", revs[0].ID)
	if err != nil {
		t.Fatalf("Revision() failed: %v", err)
	}
	if newest.Markdown != "version 2\n" {
		t.Errorf("expected newest archive to be version 2, got %q", newest.Markdown)
	}
}

func TestStore_RevisionCap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxRevisionsPerPost+5; i++ {
		post := testPost("a-title")
		post.Markdown = fmt.Sprintf("version %d\n", i)
		if err := s.Save(ctx, post); err != nil {
			t.Fatalf("Save() %d failed: %v", i, err)
		}
	}

	revs, err := s.Revisions(ctx, "a-title")
	if err != nil {
		t.Fatalf("Revisions() failed: %v", err)
	}
	if len(revs) != maxRevisionsPerPost {
		t.Errorf("expected %d revisions after pruning, got %d", maxRevisionsPerPost, len(revs))
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testPost("a-title")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Delete(ctx, "a-title"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := s.Load(ctx, "a-title"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "a-title"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	// The deleted content stays recoverable as a revision.
	revs, err := s.Revisions(ctx, "a-title")
	if err != nil {
		t.Fatalf("Revisions() failed: %v", err)
	}
	if len(revs) != 1 {
		t.Errorf("expected 1 archived revision after delete, got %d", len(revs))
	}
}

func TestStore_ListSortedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dates := map[string]time.Time{
		"oldest": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"middle": time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		"newest": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for slug, date := range dates {
		post := testPost(slug)
		post.Meta.Date = date
		if err := s.Save(ctx, post); err != nil {
			t.Fatalf("Save(%s) failed: %v", slug, err)
		}
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(metas))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if metas[i].Slug != want {
			t.Errorf("position %d: expected %s, got %s", i, want, metas[i].Slug)
		}
	}
}

func TestStore_ListSkipsForeignFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testPost("real-post")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	junk := filepath.Join(s.root, postsDir, "notes.txt")
	if err := os.WriteFile(junk, []byte("not a post"), 0o644); err != nil {
		t.Fatalf("write junk file: %v", err)
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(metas) != 1 || metas[0].Slug != "real-post" {
		t.Errorf("expected only real-post, got %+v", metas)
	}
}

func TestStore_BodyWithoutFrontMatter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Hand-authored files may lack front matter entirely.
	path := filepath.Join(s.root, postsDir, "plain.md")
	if err := os.WriteFile(path, []byte("just some text\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	post, err := s.Load(ctx, "plain")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if post.Meta.Slug != "plain" {
		t.Errorf("expected slug backfilled from filename, got %q", post.Meta.Slug)
	}
	if post.Markdown != "just some text\n" {
		t.Errorf("unexpected body %q", post.Markdown)
	}
}
