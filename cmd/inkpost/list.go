package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored posts, newest first",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	metas, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tDATE\tSTATUS\tREAD")
	for _, m := range metas {
		date := ""
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		status := "published"
		if m.Draft {
			status = "draft"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d min\n", m.Slug, m.Title, date, status, m.ReadingTime)
	}
	return tw.Flush()
}
