package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mkmtools/mkmprice/internal/mkm"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printStockTable(articles []domain.Article) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tEXPANSION\tCOND\tLANG\tFOIL\tCOUNT\tPRICE\tVALUE\n")
	for i := range articles {
		a := &articles[i]
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			a.ArticleID,
			truncate(a.ProductName, 40),
			truncate(a.Expansion, 24),
			a.Condition,
			a.LanguageName,
			flag(a.IsFoil),
			a.Count,
			a.Price,
			a.TotalValue(),
		)
	}
	return tw.finish()
}

func printChangesTable(changes []domain.PriceChange) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tCOND\tLANG\tFOIL\tCOUNT\tOLD\tNEW\tDIFF\n")
	for i := range changes {
		c := &changes[i]
		tw.writef("%d\t%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%+.2f\n",
			c.ArticleID,
			truncate(c.ProductName, 40),
			c.Condition,
			c.LanguageName,
			flag(c.IsFoil),
			c.Count,
			c.OldPrice,
			c.NewPrice,
			c.PriceDiff,
		)
	}
	return tw.finish()
}

func printListingsTable(articles []domain.Article) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SELLER\tCOUNTRY\tCOND\tLANG\tFOIL\tCOUNT\tPRICE\n")
	for i := range articles {
		a := &articles[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%d\t%.2f\n",
			truncate(a.SellerName, 24),
			a.SellerCountry,
			a.Condition,
			a.LanguageName,
			flag(a.IsFoil),
			a.Count,
			a.Price,
		)
	}
	return tw.finish()
}

func printAccountDetail(a *domain.Account) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Username:\t%s\n", a.Username)
	tw.writef("Country:\t%s\n", a.Country)
	tw.writef("On vacation:\t%v\n", a.OnVacation)
	return tw.finish()
}

func printWantslistsTable(lists []domain.Wantslist) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tGAME\tITEMS\n")
	for i := range lists {
		tw.writef("%d\t%s\t%d\t%d\n",
			lists[i].WantslistID,
			truncate(lists[i].Name, 40),
			lists[i].GameID,
			lists[i].ItemCount,
		)
	}
	return tw.finish()
}

func printOrdersTable(orders []domain.Order) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSTATE\tARTICLES\tTOTAL\n")
	for i := range orders {
		tw.writef("%d\t%s\t%d\t%.2f\n",
			orders[i].OrderID,
			orders[i].State,
			orders[i].ArticleCount,
			orders[i].TotalValue,
		)
	}
	return tw.finish()
}

// printChunkResults reports the outcome of a chunked stock write, one line
// per chunk.
func printChunkResults(results []mkm.ChunkResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("OFFSET\tSIZE\tRESULT\n")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = truncate(r.Err.Error(), 60)
		}
		tw.writef("%d\t%d\t%s\n", r.Offset, r.Size, status)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func flag(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
