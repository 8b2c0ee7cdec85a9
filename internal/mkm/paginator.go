package mkm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkmtools/mkmprice/internal/metrics"
	"github.com/mkmtools/mkmprice/pkg/logger"
)

// NoOffset marks a first request that carries no explicit offset. The stock
// and order endpoint families answer such a request either directly or with
// a temporary redirect, which is retried once at offset 1.
const NoOffset = -1

// Page is one response from a paginated endpoint, as interpreted by the
// endpoint adapter: decoded records, the HTTP status, and the total result
// count declared in the Content-Range header (TotalUnknown when absent).
type Page[T any] struct {
	Records    []T
	StatusCode int
	Total      int
	Body       []byte
}

// TotalUnknown is the Total value for responses without range information.
const TotalUnknown = -1

// PageFunc fetches a single page at the given offset. An offset of NoOffset
// means the request is sent without pagination parameters.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (*Page[T], error)

// Paginator drives a PageFunc to completion, accumulating every record the
// endpoint holds. Fetches are one-shot: a fresh FetchAll call starts over
// from the beginning. Pages are requested strictly in sequence since each
// continuation offset depends on the previous response.
type Paginator[T any] struct {
	pageSize int
	logger   *slog.Logger
}

// PaginatorOption configures the Paginator.
type PaginatorOption[T any] func(*Paginator[T])

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger[T any](l *slog.Logger) PaginatorOption[T] {
	return func(p *Paginator[T]) {
		p.logger = l
	}
}

// NewPaginator creates a Paginator with the given page size, which must be
// the page size of the target endpoint (a protocol constant, not a tunable).
func NewPaginator[T any](pageSize int, opts ...PaginatorOption[T]) *Paginator[T] {
	p := &Paginator[T]{
		pageSize: pageSize,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchAll retrieves the complete result set starting at anchor (NoOffset
// for endpoints that take no initial offset), preserving record order.
//
// Termination is driven by the declared total, never by page emptiness:
// empty-but-not-final pages are possible while the upstream is being written
// concurrently, so the offset always advances by one full page per response.
func (p *Paginator[T]) FetchAll(ctx context.Context, anchor int, fetch PageFunc[T]) ([]T, error) {
	offset := anchor
	redirected := false

	var out []T
	for {
		page, err := fetch(ctx, offset, p.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}
		metrics.PagesFetchedTotal.Inc()

		switch page.StatusCode {
		case http.StatusTemporaryRedirect:
			// The upstream redirects the very first request of some endpoint
			// families instead of answering it; retry once at offset 1.
			if offset != NoOffset || redirected {
				return nil, &RemoteError{StatusCode: page.StatusCode, Body: string(page.Body)}
			}
			redirected = true
			offset = 1
			p.logger.Debug("redirected first page request, retrying", "offset", offset)
			continue

		case http.StatusOK:
			// Complete result, no range information.
			return append(out, page.Records...), nil

		case http.StatusNoContent:
			// Documented empty-result terminator; never observed in practice
			// but handled for robustness.
			return out, nil

		case http.StatusPartialContent:
			cur := offset
			if cur == NoOffset {
				cur = 0
			}
			if page.Total != TotalUnknown && cur > page.Total {
				// Past the declared end; whatever the page carries is stale.
				return out, nil
			}
			out = append(out, page.Records...)
			p.logger.Debug("fetched partial page",
				"offset", cur, "records", len(page.Records), "total", page.Total)
			if page.Total == TotalUnknown || cur+p.pageSize >= page.Total {
				return out, nil
			}
			offset = cur + p.pageSize

		default:
			metrics.APIErrorsTotal.WithLabelValues(strconv.Itoa(page.StatusCode)).Inc()
			return nil, &RemoteError{StatusCode: page.StatusCode, Body: string(page.Body)}
		}
	}
}
