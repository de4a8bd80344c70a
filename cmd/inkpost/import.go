package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/pipeline"
)

var (
	importTitle  string
	importAuthor string
)

var importCmd = &cobra.Command{
	Use:   "import <file> [<file>...]",
	Short: "Import documents as draft posts",
	Long: `Import converts documents (md, txt, html, csv, docx, pdf) into draft
posts in the content directory. Each file becomes one post; the title
comes from the document, the file name, or --title.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "", "Override the post title (single file only)")
	importCmd.Flags().StringVar(&importAuthor, "author", "", "Author recorded in the front matter")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importTitle != "" && len(args) > 1 {
		return fmt.Errorf("--title applies to a single file, got %d", len(args))
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	// The same worker the server pipeline uses, run inline. No assist
	// client here: CLI imports never call out to the network.
	w := pipeline.NewWorker(st, nil, cliLogger(), pipeline.WorkerConfig{
		DefaultAuthor:        importAuthor,
		PDFFallbackPdftotext: true,
	})

	ctx := context.Background()
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}

		now := time.Now()
		job := &pipeline.Job{
			ID:        uuid.NewString(),
			Status:    pipeline.StatusQueued,
			Phase:     "queued",
			Filename:  filepath.Base(path),
			Title:     importTitle,
			CreatedAt: now,
			UpdatedAt: now,
		}
		job.SetFileData(data)

		w.Process(ctx, job)

		snap := job.Snapshot()
		switch snap.Status {
		case pipeline.StatusCompleted:
			fmt.Printf("%s -> %s\n", path, snap.Slug)
		case pipeline.StatusDupSkipped:
			fmt.Printf("%s: already stored as %s\n", path, snap.Slug)
		default:
			fmt.Fprintf(os.Stderr, "%s: import failed %v\n", path, snap.Progress.Errors)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(args))
	}
	return nil
}
