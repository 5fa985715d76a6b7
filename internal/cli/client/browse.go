package client

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/cli"
	"github.com/cloo-solutions/storefront/internal/collection"
	"github.com/cloo-solutions/storefront/internal/tui"
)

// BrowseCmd creates the interactive browse command.
func BrowseCmd() *cobra.Command {
	var sel collection.Selection

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the store interactively",
		Long:  "Opens the terminal storefront: the collection with price and sort filters, product pages and search (press /).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			m := tui.New(tui.Config{
				Locale:   c.Locale(),
				Pages:    c,
				Searcher: c,
				Feedback: c,
				Filters:  sel.Values(),
				Timeout:  c.Timeout(),
			})
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse failed: %w", err)
			}
			return nil
		},
	}

	cli.AddEnumFlag(cmd, "price", "Initial price bucket", cli.NewEnumValue(&sel.Price, collection.DefaultPriceRange, collection.PriceRanges, "price"))
	cli.AddEnumFlag(cmd, "sort", "Initial sort order", cli.NewEnumValue(&sel.Sort, collection.DefaultSortOrder, collection.SortOrders, "sort"))

	return cmd
}
