// Package mkm provides a Cardmarket API client abstracted behind interfaces
// for testability. It covers the operations the pricing core depends on:
// product lookup, stock read/write, competitor listing read, and account
// data, all fetched through the paginated-response protocol the upstream
// service uses.
package mkm

import (
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// Page size constants of the upstream service. These are protocol facts,
// not tunables: bulk endpoints (stock, orders) page by 100, per-product and
// per-user article endpoints page by 1000.
const (
	StockPageSize   = 100
	ArticlePageSize = 1000

	// WriteChunkSize caps stock write payloads per request.
	WriteChunkSize = 100
)

// Languages lists the marketplace languages; language IDs are the 1-based
// index into this list.
var Languages = []string{
	"English",
	"French",
	"German",
	"Spanish",
	"Italian",
	"S-Chinese",
	"Japanese",
	"Portuguese",
	"Russian",
	"Korean",
	"T-Chinese",
	"Dutch",
	"Polish",
	"Czech",
	"Hungarian",
}

// LanguageID resolves a language name to its marketplace ID (1..15).
func LanguageID(name string) (int, error) {
	for i, l := range Languages {
		if l == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown language %q", name)
}

// ArticleFilter narrows a competitor-listing query. Nil boolean fields are
// not sent, letting the upstream default apply.
type ArticleFilter struct {
	IsFoil       *bool
	IsSigned     *bool
	IsAltered    *bool
	MinCondition domain.Condition
	LanguageID   int
	Country      string
}

// values encodes the filter as query parameters. Booleans go out as
// lowercase text literals; the upstream treats "False" as true.
func (f ArticleFilter) values() url.Values {
	params := url.Values{}
	setBool := func(key string, v *bool) {
		if v != nil {
			params.Set(key, strconv.FormatBool(*v))
		}
	}
	setBool("isFoil", f.IsFoil)
	setBool("isSigned", f.IsSigned)
	setBool("isAltered", f.IsAltered)
	if f.MinCondition != "" {
		params.Set("minCondition", string(f.MinCondition))
	}
	if f.LanguageID > 0 {
		params.Set("idLanguage", strconv.Itoa(f.LanguageID))
	}
	if f.Country != "" {
		params.Set("country", f.Country)
	}
	return params
}

// SearchFilter narrows a free-text product search.
type SearchFilter struct {
	GameID     int
	LanguageID int
	Exact      bool
}

func (f SearchFilter) values() url.Values {
	params := url.Values{}
	if f.GameID > 0 {
		params.Set("idGame", strconv.Itoa(f.GameID))
	}
	if f.LanguageID > 0 {
		params.Set("idLanguage", strconv.Itoa(f.LanguageID))
	}
	if f.Exact {
		params.Set("exact", "true")
	}
	return params
}

// Bool returns a pointer to b, for ArticleFilter literals.
func Bool(b bool) *bool {
	return &b
}
