package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/marcus/fathom/internal/issue"
	"github.com/marcus/fathom/internal/search"
	"github.com/marcus/fathom/internal/source"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit       int
		recursive   bool
		showExtract bool
	)
	cmd := &cobra.Command{
		Use:   "query [terms...]",
		Short: "Search the documents once and print the matches",
		Long: `query runs a single search over the configured documents and prints the
key and summary of every match. With no terms every document matches.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			snap, err := source.Load(cmd.Context(), sourceOptions(cfg))
			if err != nil {
				return fmt.Errorf("load documents: %w", err)
			}

			extract := search.ExtractFunc(issue.Extract)
			if recursive {
				extract = search.Recursive
			}
			engine, err := search.New(snap.Docs, extract)
			if err != nil {
				return err
			}
			engine.Search(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			indices := engine.Indices()
			for i, doc := range engine.Results(limit) {
				fmt.Fprintln(out, queryLine(doc))
				if showExtract {
					fmt.Fprintln(out, "    "+engine.Extract(indices[i]))
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d matched\n", engine.Count(), engine.Len())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of matches to print (0 prints all)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "search every string in the documents, not only issue fields")
	cmd.Flags().BoolVar(&showExtract, "show-extract", false, "print the searched text under each match")
	return cmd
}

func queryLine(doc search.Document) string {
	iss, err := issue.FromDocument(doc)
	if err != nil {
		text, _ := search.Recursive(doc)
		return runewidth.Truncate(text, 80, "…")
	}
	return runewidth.FillRight(iss.Key, 15) + iss.Summary
}
