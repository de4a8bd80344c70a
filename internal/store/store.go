// Package store persists posts as Markdown files with YAML front
// matter under a content directory. Writes go through a temp file and
// rename, guarded by a cross-process file lock, and every overwrite
// archives the previous version as a revision.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// ErrNotFound reports that no post (or revision) exists for the
// requested slug.
var ErrNotFound = errors.New("post not found")

const (
	postsDir     = "posts"
	revisionsDir = "revisions"

	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond

	// maxRevisionsPerPost bounds how many archived versions a single
	// post accumulates before the oldest are pruned.
	maxRevisionsPerPost = 50
)

// Post is one stored piece of content: front matter plus the Markdown
// body below it.
type Post struct {
	Meta     Meta
	Markdown string
}

// RevisionInfo describes one archived version of a post.
type RevisionInfo struct {
	ID    string    `json:"id"`
	Saved time.Time `json:"saved"`
	Size  int64     `json:"size"`
}

// Store reads and writes posts under a single content directory.
// Reads are lock-free: writes replace files atomically via rename, so
// a reader never observes a partial post.
type Store struct {
	root     string
	fileLock *flock.Flock
	logger   *slog.Logger
}

// New prepares the content directory layout and the write lock. The
// lock lives in its own file so replacing post files never invalidates
// a held lock.
func New(root string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, postsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, revisionsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create revisions dir: %w", err)
	}
	return &Store{
		root:     root,
		fileLock: flock.New(filepath.Join(root, ".inkpost.lock")),
		logger:   logger,
	}, nil
}

// Save validates the post, archives the previous version if one
// exists, and writes the new content atomically.
func (s *Store) Save(ctx context.Context, post *Post) error {
	if err := post.Meta.Validate(); err != nil {
		return fmt.Errorf("invalid post metadata: %w", err)
	}

	data, err := encodePost(post)
	if err != nil {
		return err
	}

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	path := s.postPath(post.Meta.Slug)
	if prev, err := os.ReadFile(path); err == nil {
		if err := s.archiveRevision(post.Meta.Slug, prev); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read existing post %s: %w", post.Meta.Slug, err)
	}

	return writeFileAtomic(path, data)
}

// Load reads one post by slug.
func (s *Store) Load(ctx context.Context, slug string) (*Post, error) {
	if !slugRe.MatchString(slug) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.postPath(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", slug, err)
	}
	post, err := decodePost(data)
	if err != nil {
		return nil, fmt.Errorf("decode post %s: %w", slug, err)
	}
	if post.Meta.Slug == "" {
		post.Meta.Slug = slug
	}
	return post, nil
}

// Delete archives the current version as a final revision and removes
// the post file. Revisions are kept for recovery.
func (s *Store) Delete(ctx context.Context, slug string) error {
	if !slugRe.MatchString(slug) {
		return ErrNotFound
	}
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	path := s.postPath(slug)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read post %s: %w", slug, err)
	}
	if err := s.archiveRevision(slug, data); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove post %s: %w", slug, err)
	}
	return nil
}

// List returns the metadata of every stored post, newest first.
// Files that fail to decode are logged and skipped so one corrupt
// post cannot take down the whole listing.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, postsDir))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	metas := make([]Meta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		post, err := s.Load(ctx, slug)
		if err != nil {
			s.logger.Warn("skipping unreadable post", "slug", slug, "error", err)
			continue
		}
		metas = append(metas, post.Meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].Date.Equal(metas[j].Date) {
			return metas[i].Date.After(metas[j].Date)
		}
		return metas[i].Slug < metas[j].Slug
	})
	return metas, nil
}

// Revisions lists the archived versions of a post, newest first.
func (s *Store) Revisions(ctx context.Context, slug string) ([]RevisionInfo, error) {
	if !slugRe.MatchString(slug) {
		return nil, ErrNotFound
	}
	entries, err := os.ReadDir(filepath.Join(s.root, revisionsDir, slug))
	if errors.Is(err, fs.ErrNotExist) {
		return []RevisionInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list revisions for %s: %w", slug, err)
	}

	revs := make([]RevisionInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".md")
		saved, err := revisionTime(id)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		revs = append(revs, RevisionInfo{ID: id, Saved: saved, Size: info.Size()})
	}

	sort.Slice(revs, func(i, j int) bool { return revs[i].ID > revs[j].ID })
	return revs, nil
}

// Revision reads one archived version of a post.
func (s *Store) Revision(ctx context.Context, slug, id string) (*Post, error) {
	if !slugRe.MatchString(slug) {
		return nil, ErrNotFound
	}
	if _, err := revisionTime(id); err != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.root, revisionsDir, slug, id+".md"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read revision %s/%s: %w", slug, id, err)
	}
	post, err := decodePost(data)
	if err != nil {
		return nil, fmt.Errorf("decode revision %s/%s: %w", slug, id, err)
	}
	return post, nil
}

func (s *Store) postPath(slug string) string {
	return filepath.Join(s.root, postsDir, slug+".md")
}

// acquireLock takes the exclusive write lock, retrying until ctx or
// the lock timeout expires.
func (s *Store) acquireLock(ctx context.Context) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return errors.New("store lock held by another process")
	}
	return nil
}

// archiveRevision writes previous post content under a fresh revision
// ID and prunes the oldest archives beyond the per-post cap. Caller
// must hold the write lock.
func (s *Store) archiveRevision(slug string, content []byte) error {
	dir := filepath.Join(s.root, revisionsDir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create revision dir for %s: %w", slug, err)
	}
	id := newRevisionID()
	if err := writeFileAtomic(filepath.Join(dir, id+".md"), content); err != nil {
		return err
	}
	s.pruneRevisions(dir)
	return nil
}

func (s *Store) pruneRevisions(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) <= maxRevisionsPerPost {
		return
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= maxRevisionsPerPost {
		return
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-maxRevisionsPerPost] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			s.logger.Warn("pruning revision failed", "file", name, "error", err)
		}
	}
}

// writeFileAtomic writes via a temp file in the same directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// encodePost renders front matter and body into the on-disk form.
func encodePost(post *Post) ([]byte, error) {
	fm, err := yaml.Marshal(post.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(post.Markdown)
	if !strings.HasSuffix(post.Markdown, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// decodePost splits front matter from body. Files without front matter
// decode to an empty Meta with the whole file as body.
func decodePost(data []byte) (*Post, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	return &Post{
		Meta:     meta,
		Markdown: strings.TrimPrefix(string(body), "\n"),
	}, nil
}
