package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/store"
)

var contentDir string

var rootCmd = &cobra.Command{
	Use:   "inkpost",
	Short: "Inkpost CLI - manage blog content offline",
	Long: `Inkpost manages the Markdown content directory of an inkpost site
without going through the HTTP API. Posts are plain Markdown files with
YAML front matter; import, export and list operate on them directly.

Examples:
  # Import a document as a draft post
  inkpost import resume.docx

  # Print a post's Markdown body
  inkpost export my-first-post

  # List all posts
  inkpost list`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&contentDir, "content", "c", defaultContentDir(), "Content directory")
}

func defaultContentDir() string {
	if v := os.Getenv("CONTENT_DIR"); v != "" {
		return v
	}
	return "./content"
}

// cliLogger keeps command output clean: only warnings and errors.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func openStore() (*store.Store, error) {
	return store.New(contentDir, cliLogger())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
