package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkmtools/mkmprice/internal/engine"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

func articleCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "article <name>",
		Short: "Reprice the stock articles matching a product name",
		Long: "Search your own stock for articles of the named product, compute\n" +
			"recommended prices for them, and submit the changes after\n" +
			"confirmation.",
		Example: `  mkmprice article "Hymn to Tourach"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			articles, err := a.client.FindStockArticles(ctx, args[0], a.cfg.Pricing.GameID)
			if err != nil {
				return fmt.Errorf("searching stock for %q: %w", args[0], err)
			}
			if len(articles) == 0 {
				fmt.Println("No matching stock articles.")
				return nil
			}

			var changes []domain.PriceChange
			for i := range articles {
				change, err := a.repricer.RepriceArticle(ctx, &articles[i])
				if err != nil {
					if errors.Is(err, engine.ErrNoPriceAvailable) {
						a.log.Warn("no price available",
							"article_id", articles[i].ArticleID, "product", articles[i].ProductName)
						continue
					}
					return err
				}
				if change != nil {
					changes = append(changes, *change)
				}
			}

			if jsonOutput() {
				return outputJSON(changes)
			}
			if len(changes) == 0 {
				fmt.Println("No price changes needed.")
				return nil
			}

			if err := printChangesTable(changes); err != nil {
				return err
			}
			if !yes && !confirm("Submit these changes") {
				fmt.Println("Aborted, nothing submitted.")
				return nil
			}
			return submitChanges(ctx, a, changes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "submit without confirmation")

	return cmd
}
