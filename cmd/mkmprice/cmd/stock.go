package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func stockCmd() *cobra.Command {
	stockRoot := &cobra.Command{
		Use:   "stock",
		Short: "Inspect your stock",
	}

	stockRoot.AddCommand(
		stockListCmd(),
		stockTopCmd(),
	)

	return stockRoot
}

func stockListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the full stock with its total value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			articles, err := a.client.GetStock(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(articles)
			}
			if len(articles) == 0 {
				fmt.Println("Stock is empty.")
				return nil
			}

			if err := printStockTable(articles); err != nil {
				return err
			}

			var total float64
			for i := range articles {
				total += articles[i].TotalValue()
			}
			fmt.Printf("\n%d articles, total value %.2f\n", len(articles), total)
			return nil
		},
	}
}

func stockTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most expensive stock articles",
		Example: `  # Top 20 by unit price
  mkmprice stock top

  # Top 5
  mkmprice stock top --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			articles, err := a.client.GetStock(cmd.Context())
			if err != nil {
				return err
			}

			sort.Slice(articles, func(i, j int) bool {
				return articles[i].Price > articles[j].Price
			})
			if limit < len(articles) {
				articles = articles[:limit]
			}

			if jsonOutput() {
				return outputJSON(articles)
			}
			if len(articles) == 0 {
				fmt.Println("Stock is empty.")
				return nil
			}
			return printStockTable(articles)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of articles to show")

	return cmd
}
