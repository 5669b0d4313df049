package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/spf13/cobra"

	"stratint/outlook/app/render"
)

func infoCmd() *cobra.Command {
	var digestFile string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize a digest written by scan --digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, digestFile)
		},
	}
	cmd.Flags().StringVar(&digestFile, "digest", "feed.xml", "digest file to read")
	return cmd
}

func runInfo(cmd *cobra.Command, digestFile string) error {
	file, err := os.Open(digestFile)
	if err != nil {
		return fmt.Errorf("opening digest: %w", err)
	}
	defer file.Close()

	parsed, err := gofeed.NewParser().Parse(file)
	if err != nil {
		return fmt.Errorf("parsing digest: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", parsed.Title)
	if parsed.Description != "" {
		fmt.Fprintf(out, "%s\n", parsed.Description)
	}
	fmt.Fprintln(out)

	t := render.NewTable(out, []string{"#", "Title", "Published"})
	for i, item := range parsed.Items {
		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC().Format(time.RFC3339)
		}
		t.AddRow(strconv.Itoa(i+1), item.Title, published)
	}
	if err := t.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal items: %d\n", len(parsed.Items))
	return nil
}
