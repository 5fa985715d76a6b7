package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/widget"
)

// searchResultJSON is the --output form of one result.
type searchResultJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl,omitempty"`
	Path     string `json:"path"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Long:  "Runs one product search. Queries shorter than 2 characters return nothing without contacting the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), cmd.OutOrStdout(), c, c.Locale(), args[0], outputJSON)
		},
	}

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, searcher widget.Searcher, locale, query string, outputJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var results []domain.SearchResult
	if q := strings.TrimSpace(query); utf8.RuneCountInString(q) >= domain.MinQueryLength {
		resp, err := searcher.Search(ctx, q)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		results = resp.Results
	}
	if len(results) > domain.MaxSearchResults {
		results = results[:domain.MaxSearchResults]
	}

	if outputJSON {
		out := make([]searchResultJSON, 0, len(results))
		for _, r := range results {
			out = append(out, searchResultJSON{
				ID:       r.ID,
				Name:     r.Name,
				Slug:     r.Slug,
				Price:    r.Price.String(),
				ImageURL: r.ImageURL,
				Path:     widget.ProductPath(locale, r.Slug),
			})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d products:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, r.Name, i18n.FormatPrice(locale, r.Price))
		fmt.Fprintf(w, "   %s\n", widget.ProductPath(locale, r.Slug))
	}
	return nil
}
