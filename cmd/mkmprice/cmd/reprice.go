package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkmtools/mkmprice/internal/mkm"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

func repriceCmd() *cobra.Command {
	var (
		yes      bool
		showRows int
	)

	cmd := &cobra.Command{
		Use:   "reprice",
		Short: "Reprice the whole stock",
		Long: "Read the full stock, compute a recommended price for every article,\n" +
			"and submit the changes after confirmation. Articles that cannot be\n" +
			"priced are skipped and the sweep continues.",
		Example: `  # Review and confirm interactively
  mkmprice reprice

  # Submit without prompting
  mkmprice reprice --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			result, err := a.repricer.RepriceAll(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			fmt.Printf("Articles: %d  Skipped: %d  Stock value: %.2f  Elapsed: %s\n\n",
				result.Articles, result.Skipped, result.TotalValue, result.Elapsed.Round(time.Millisecond))

			if len(result.Changes) == 0 {
				fmt.Println("No price changes needed.")
				return nil
			}

			if err := printChangeDigest(result.Changes, showRows); err != nil {
				return err
			}
			fmt.Printf("\n%d changes, total difference %+.2f\n", len(result.Changes), result.TotalDiff())

			if !yes && !confirm("Submit these changes") {
				fmt.Println("Aborted, nothing submitted.")
				return nil
			}

			return submitChanges(ctx, a, result.Changes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "submit without confirmation")
	cmd.Flags().IntVar(&showRows, "show", 10, "rows to show per digest table")

	return cmd
}

// printChangeDigest shows the largest increases and decreases instead of the
// full change set, which for a big stock runs to thousands of rows.
func printChangeDigest(changes []domain.PriceChange, rows int) error {
	sorted := make([]domain.PriceChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PriceDiff > sorted[j].PriceDiff
	})

	if n := min(rows, len(sorted)); n > 0 && sorted[0].PriceDiff > 0 {
		fmt.Println("Largest increases:")
		if err := printChangesTable(sorted[:n]); err != nil {
			return err
		}
	}

	last := len(sorted)
	first := max(0, last-rows)
	if first < last && sorted[last-1].PriceDiff < 0 {
		fmt.Println("\nLargest decreases:")
		if err := printChangesTable(sorted[first:last]); err != nil {
			return err
		}
	}
	return nil
}

// submitChanges pushes the accepted change set to the marketplace and
// reports the per-chunk outcomes.
func submitChanges(ctx context.Context, a *app, changes []domain.PriceChange) error {
	updates := make([]mkm.StockUpsert, 0, len(changes))
	for i := range changes {
		updates = append(updates, mkm.StockUpsert{
			ArticleID: changes[i].ArticleID,
			Price:     changes[i].NewPrice,
			Count:     changes[i].Count,
		})
	}

	results, err := a.client.SetStock(ctx, updates)
	if err != nil {
		return fmt.Errorf("submitting stock update: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if err := printChunkResults(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d chunks failed", failed, len(results))
	}
	fmt.Printf("Submitted %d changes in %d chunks.\n", len(updates), len(results))
	return nil
}
