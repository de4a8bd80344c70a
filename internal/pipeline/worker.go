package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/assist"
	"github.com/inkpost/inkpost/internal/blocks"
	"github.com/inkpost/inkpost/internal/importer"
	"github.com/inkpost/inkpost/internal/store"
)

// Worker processes a single import job.
type Worker struct {
	store  *store.Store
	assist *assist.Client
	log    *slog.Logger
	cfg    WorkerConfig
}

// WorkerConfig carries the processing knobs a worker needs.
type WorkerConfig struct {
	AutoProofread        bool
	MaxConcurrentAssist  int
	DefaultAuthor        string
	PDFFallbackPdftotext bool
}

func NewWorker(st *store.Store, client *assist.Client, log *slog.Logger, cfg WorkerConfig) *Worker {
	if cfg.MaxConcurrentAssist <= 0 {
		cfg.MaxConcurrentAssist = 1
	}
	return &Worker{
		store:  st,
		assist: client,
		log:    log,
		cfg:    cfg,
	}
}

// Process runs the full import pipeline for a job: parse the uploaded
// document, convert it to Markdown, optionally proofread it, and save
// the result as a draft post.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	imp, err := importer.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdf, ok := imp.(*importer.PDFImporter); ok {
		pdf.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	result, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	title := result.Title
	if job.Title != "" {
		title = job.Title
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	// Phase 2: Convert blocks to Markdown.
	job.SetStatus(StatusConverting, "converting")
	job.SetBlocks(len(result.Blocks))
	markdown := blocks.ToMarkdown(result.Blocks)
	if strings.TrimSpace(markdown) == "" {
		log.Warn("no convertible content")
		job.AddError("no convertible content")
		job.SetStatus(StatusFailed, "converting")
		return
	}

	hash := ContentHashHex([]byte(markdown))
	job.SetContentHash(hash)

	// Phase 2.5: Dedup check against stored posts.
	dupSlug, err := w.findDuplicate(ctx, hash)
	if err != nil {
		log.Warn("duplicate check failed, proceeding", "error", err)
	} else if dupSlug != "" {
		log.Info("duplicate content, skipping", "existing_slug", dupSlug)
		job.SetSlug(dupSlug)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Optional proofread pass.
	if w.assist != nil && w.cfg.AutoProofread {
		job.SetStatus(StatusAssisting, "proofreading")
		markdown = w.proofread(ctx, job, markdown, log)
	}

	// Phase 4: Save as a draft post.
	job.SetStatus(StatusStoring, "storing")
	meta := store.Meta{
		Title:  title,
		Author: w.cfg.DefaultAuthor,
		Draft:  true,
	}
	store.EnrichMeta(&meta, markdown, time.Now())
	if meta.Slug == "" {
		// Title had no sluggable characters at all.
		meta.Slug = "untitled"
	}
	meta.Slug = w.freeSlug(ctx, meta.Slug)

	if err := w.store.Save(ctx, &store.Post{Meta: meta, Markdown: markdown}); err != nil {
		log.Error("save failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetSlug(meta.Slug)
	job.SetStatus(StatusCompleted, "done")
	log.Info("import complete", "slug", meta.Slug, "blocks", len(result.Blocks))
}

// proofread runs every segment of the body through the assist client
// with bounded concurrency, keeping a segment's original text whenever
// its rewrite fails.
func (w *Worker) proofread(ctx context.Context, job *Job, markdown string, log *slog.Logger) string {
	segments := assist.SplitMarkdown(markdown, 0)
	job.SetTotalSegments(len(segments))
	if len(segments) == 0 {
		return markdown
	}

	edited := make([]string, len(segments))
	type segResult struct {
		idx int
		err error
	}
	results := make(chan segResult, len(segments))
	sem := make(chan struct{}, w.cfg.MaxConcurrentAssist)

	for i, seg := range segments {
		sem <- struct{}{}
		go func(i int, seg string) {
			defer func() { <-sem }()
			out, err := w.rewriteWithRetry(ctx, assist.ActionProofread, seg)
			if err != nil {
				edited[i] = seg
				results <- segResult{idx: i, err: err}
				return
			}
			edited[i] = out
			results <- segResult{idx: i}
		}(i, seg)
	}

	for range segments {
		r := <-results
		job.IncrSegmentsProofread()
		if r.err != nil {
			log.Warn("segment kept original text", "segment", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("proofread segment %d: %s", r.idx, r.err))
		}
	}

	return strings.Join(edited, "\n\n")
}

// rewriteWithRetry retries retryable assist errors with backoff.
func (w *Worker) rewriteWithRetry(ctx context.Context, action assist.Action, text string) (string, error) {
	var out string
	var lastErr error
	for attempt := range MaxRetries {
		out, lastErr = w.assist.Rewrite(ctx, action, text)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		w.log.Warn("retryable assist error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return out, nil
}

// findDuplicate scans stored posts for one whose body hashes to hash.
// Returns the matching slug, or "" when the content is new.
func (w *Worker) findDuplicate(ctx context.Context, hash string) (string, error) {
	metas, err := w.store.List(ctx)
	if err != nil {
		return "", err
	}
	for _, m := range metas {
		post, err := w.store.Load(ctx, m.Slug)
		if err != nil {
			continue
		}
		if ContentHashHex([]byte(post.Markdown)) == hash {
			return m.Slug, nil
		}
	}
	return "", nil
}

// freeSlug returns slug if no post uses it yet, otherwise the first
// free "slug-N" variant. Imports never overwrite an existing post;
// overwriting is the explicit edit flow.
func (w *Worker) freeSlug(ctx context.Context, slug string) string {
	if _, err := w.store.Load(ctx, slug); errors.Is(err, store.ErrNotFound) {
		return slug
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if _, err := w.store.Load(ctx, candidate); errors.Is(err, store.ErrNotFound) {
			return candidate
		}
	}
}
