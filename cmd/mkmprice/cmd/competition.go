package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkmtools/mkmprice/internal/mkm"
	"github.com/mkmtools/mkmprice/pkg/pricemath"
)

func competitionCmd() *cobra.Command {
	var foil bool

	cmd := &cobra.Command{
		Use:   "competition <name>",
		Short: "Show competing listings for a product",
		Long: "Search the marketplace for a product and list the current offers\n" +
			"in the configured language, with summary statistics.",
		Example: `  mkmprice competition "Lightning Bolt"
  mkmprice competition "Lightning Bolt" --foil`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			products, err := a.client.FindProduct(ctx, args[0], mkm.SearchFilter{
				GameID:     a.cfg.Pricing.GameID,
				LanguageID: a.languageID(),
			})
			if err != nil {
				return fmt.Errorf("searching for %q: %w", args[0], err)
			}
			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			product := &products[0]
			if len(products) > 1 {
				a.log.Info("multiple products matched, using first",
					"matches", len(products), "product", product.Name)
			}

			articles, err := a.client.GetArticles(ctx, product.ProductID, mkm.ArticleFilter{
				IsFoil:     mkm.Bool(foil),
				LanguageID: a.languageID(),
			})
			if err != nil {
				return fmt.Errorf("fetching listings for %q: %w", product.Name, err)
			}

			if jsonOutput() {
				return outputJSON(articles)
			}

			fmt.Printf("%s (%s, %s)  trend %.2f\n\n",
				product.Name, product.Expansion, product.Rarity, product.PriceGuide.Trend)

			if len(articles) == 0 {
				fmt.Println("No current listings.")
				return nil
			}
			if err := printListingsTable(articles); err != nil {
				return err
			}
			fmt.Printf("\n%d listings  lowest %.2f  median %.2f  average %.2f\n",
				len(articles),
				pricemath.Lowest(articles),
				pricemath.Median(articles),
				pricemath.Average(articles))
			return nil
		},
	}
	cmd.Flags().BoolVar(&foil, "foil", false, "show foil listings")

	return cmd
}
