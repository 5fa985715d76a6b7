package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/cli"
	"github.com/cloo-solutions/storefront/internal/collection"
)

// CollectionCmd creates the collection command.
func CollectionCmd() *cobra.Command {
	var sel collection.Selection

	cmd := &cobra.Command{
		Use:   "collection",
		Short: "List the product collection",
		Long:  "Lists the collection filtered by price bucket and sorted server-side.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			page, err := c.Collection(cmd.Context(), sel.Values())
			if err != nil {
				return fmt.Errorf("failed to load collection: %w", err)
			}
			return printCollection(cmd.OutOrStdout(), page, outputJSON)
		},
	}

	cli.AddEnumFlag(cmd, "price", "Price bucket", cli.NewEnumValue(&sel.Price, collection.DefaultPriceRange, collection.PriceRanges, "price"))
	cli.AddEnumFlag(cmd, "sort", "Sort order", cli.NewEnumValue(&sel.Sort, collection.DefaultSortOrder, collection.SortOrders, "sort"))

	return cmd
}

// ProductCmd creates the product command.
func ProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <slug>",
		Short: "Show a product page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			page, err := c.Product(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load product: %w", err)
			}
			return printProduct(cmd.OutOrStdout(), page, outputJSON)
		},
	}
}

// HomeCmd creates the home command.
func HomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the home page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			page, err := c.Home(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load home page: %w", err)
			}
			return printHome(cmd.OutOrStdout(), page, outputJSON)
		},
	}
}

// AboutCmd creates the about command.
func AboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show the about page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			page, err := c.About(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load about page: %w", err)
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", page.Title, page.Body)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printCards(w io.Writer, cards []api.ProductCard) {
	for i, c := range cards {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, c.Name, c.PriceFormatted)
		fmt.Fprintf(w, "   slug: %s\n", c.Slug)
	}
}

func printCollection(w io.Writer, page *api.CollectionResponse, outputJSON bool) error {
	if outputJSON {
		return printJSON(w, page)
	}

	fmt.Fprintf(w, "%s (%s)\n", page.Title, page.Count)
	fmt.Fprintf(w, "%s\n", page.Canonical)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	if len(page.Products) == 0 {
		fmt.Fprintln(w, page.EmptyText)
		return nil
	}
	printCards(w, page.Products)
	return nil
}

func printProduct(w io.Writer, page *api.ProductDetailResponse, outputJSON bool) error {
	if outputJSON {
		return printJSON(w, page)
	}

	fmt.Fprintf(w, "%s  %s\n", page.Name, page.PriceFormatted)
	if page.Description != "" {
		fmt.Fprintf(w, "\n%s\n", page.Description)
	}
	for _, img := range page.Gallery {
		fmt.Fprintf(w, "image: %s\n", img)
	}
	fmt.Fprintf(w, "\n%s\n%s\n", page.Pickup.Heading, page.Pickup.Hint)
	if page.Pickup.Phone != "" {
		fmt.Fprintf(w, "%s\n", page.Pickup.Phone)
	}
	if page.Pickup.Address != "" {
		fmt.Fprintf(w, "%s\n", page.Pickup.Address)
	}
	if len(page.Related) > 0 {
		fmt.Fprintf(w, "\n%s\n", page.RelatedTitle)
		printCards(w, page.Related)
	}
	return nil
}

func printHome(w io.Writer, page *api.HomeResponse, outputJSON bool) error {
	if outputJSON {
		return printJSON(w, page)
	}

	fmt.Fprintf(w, "%s\n%s\n[%s -> %s]\n", page.Hero.Heading, page.Hero.Subheading, page.Hero.CTAText, page.Hero.CTALink)
	fmt.Fprintf(w, "\n%s\n", page.FeaturedTitle)
	printCards(w, page.Featured)
	return nil
}
