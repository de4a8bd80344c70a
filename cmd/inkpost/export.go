package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/render"
)

var exportHTML bool

var exportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Print a post's body to stdout",
	Long: `Export prints the Markdown body of a post. With --html the body is
rendered to HTML instead, for feeding static site tooling.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportHTML, "html", false, "Render the body to HTML")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	post, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if exportHTML {
		html, err := render.New(render.Options{}).HTML(post.Markdown)
		if err != nil {
			return err
		}
		fmt.Print(html)
		return nil
	}
	fmt.Print(post.Markdown)
	return nil
}
