package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkmtools/mkmprice/internal/engine"
	"github.com/mkmtools/mkmprice/internal/mkm"
)

// importRow is one parsed line of an import file.
type importRow struct {
	Name       string
	Count      int
	Foil       bool
	LanguageID int
}

func importCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add cards from a CSV file to your stock",
		Long: "Read a CSV file with columns name, count, foil, language and add the\n" +
			"cards to your stock, priced by the usual recommendation heuristics.\n" +
			"Rows whose product cannot be identified or priced are reported and\n" +
			"skipped.",
		Example: `  mkmprice import cards.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			rows, err := readImportFile(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("Nothing to import.")
				return nil
			}

			var (
				additions []mkm.StockUpsert
				skipped   int
			)
			for _, row := range rows {
				entry, err := resolveImportRow(ctx, a, row)
				if err != nil {
					skipped++
					a.log.Warn("skipping row", "name", row.Name, "err", err)
					continue
				}
				additions = append(additions, *entry)
			}

			fmt.Printf("Resolved %d of %d rows.\n", len(additions), len(rows))
			if len(additions) == 0 {
				return nil
			}
			if !yes && !confirm(fmt.Sprintf("Add %d articles to stock", len(additions))) {
				fmt.Println("Aborted, nothing added.")
				return nil
			}

			results, err := a.client.AddStock(ctx, additions)
			if err != nil {
				return fmt.Errorf("adding stock: %w", err)
			}
			if err := printChunkResults(results); err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Printf("%d rows skipped.\n", skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "add without confirmation")

	return cmd
}

// readImportFile parses the CSV, tolerating an optional header row.
func readImportFile(path string) ([]importRow, error) {
	f, err := os.Open(path) //nolint:gosec // import path from trusted CLI argument
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}

	var rows []importRow
	for i, record := range records {
		row, err := parseImportRecord(record)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

func parseImportRecord(record []string) (*importRow, error) {
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, errors.New("empty card name")
	}

	count, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil || count < 1 {
		return nil, fmt.Errorf("invalid count %q", record[1])
	}

	var foil bool
	switch strings.ToLower(strings.TrimSpace(record[2])) {
	case "", "no", "false", "0":
	case "yes", "true", "1", "foil":
		foil = true
	default:
		return nil, fmt.Errorf("invalid foil flag %q", record[2])
	}

	languageID, err := mkm.LanguageID(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, err
	}

	return &importRow{Name: name, Count: count, Foil: foil, LanguageID: languageID}, nil
}

// resolveImportRow looks up the product for a row and prices the addition.
func resolveImportRow(ctx context.Context, a *app, row importRow) (*mkm.StockUpsert, error) {
	products, err := a.client.FindProduct(ctx, row.Name, mkm.SearchFilter{
		GameID: a.cfg.Pricing.GameID,
		Exact:  true,
	})
	if err != nil {
		if errors.Is(err, mkm.ErrNoResults) {
			return nil, fmt.Errorf("no product named %q", row.Name)
		}
		return nil, err
	}
	if len(products) != 1 {
		return nil, fmt.Errorf("ambiguous product name %q (%d matches)", row.Name, len(products))
	}
	product := &products[0]

	price, err := a.pricer.PriceFor(ctx, product.ProductID, product.Rarity, row.Foil, row.LanguageID)
	if err != nil {
		if errors.Is(err, engine.ErrNoPriceAvailable) {
			return nil, fmt.Errorf("no price available for %q", row.Name)
		}
		return nil, err
	}

	return &mkm.StockUpsert{
		ProductID:  product.ProductID,
		LanguageID: row.LanguageID,
		Count:      row.Count,
		Price:      price,
		Condition:  "NM",
		IsFoil:     mkm.Bool(row.Foil),
	}, nil
}
