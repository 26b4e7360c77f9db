package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pustaka-digital/pustaka/pkg/pustaka"
)

func newBooksCmd(connect connectFunc) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "Catalog record commands",
	}

	var req pustaka.DescribeRequest
	describe := &cobra.Command{
		Use:   "describe",
		Short: "Generate or fetch the cached description of a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, c, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			d, err := c.DescribeBook(ctx, req)
			if err != nil {
				return err
			}
			printDescription(cmd, d)
			return nil
		},
	}
	describe.Flags().StringVar(&req.BookID, "id", "", "book ID")
	describe.Flags().StringVar(&req.Title, "title", "", "title (looked up in the catalog when empty)")
	describe.Flags().StringVar(&req.Author, "author", "", "author")
	describe.Flags().StringVar(&req.Year, "year", "", "publication year")
	_ = describe.MarkFlagRequired("id")

	books.AddCommand(describe)
	return books
}

func printDescription(cmd *cobra.Command, d pustaka.Description) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "book:        %s\n", d.BookID)
	fmt.Fprintf(w, "source:      %s (confidence %.2f)\n", d.Source, d.Confidence)
	fmt.Fprintf(w, "description: %s\n", d.Text)
	m := d.Metadata
	fmt.Fprintf(w, "themes:      %s\n", strings.Join(m.KeyThemes, ", "))
	fmt.Fprintf(w, "geography:   %s\n", strings.Join(m.GeographicFocus, ", "))
	fmt.Fprintf(w, "periods:     %s\n", strings.Join(m.HistoricalPeriod, ", "))
	fmt.Fprintf(w, "categories:  %s\n", strings.Join(m.SubjectCategories, ", "))
	fmt.Fprintf(w, "content:     %s\n", m.ContentType)
	fmt.Fprintf(w, "coverage:    %s\n", m.TemporalCoverage)
}
