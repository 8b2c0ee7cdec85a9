package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkmtools/mkmprice/internal/metrics"
	"github.com/mkmtools/mkmprice/pkg/logger"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// StockReader supplies a fresh stock snapshot for a repricing run.
type StockReader interface {
	GetStock(ctx context.Context) ([]domain.Article, error)
}

// ArticlePricer prices a single stock article; nil means no change.
type ArticlePricer interface {
	PriceArticle(ctx context.Context, article *domain.Article) (*domain.PriceChange, error)
}

// Repricer sweeps the user's whole stock through the pricing engine and
// aggregates the recommended changes. It never writes to the marketplace:
// submission of the returned change set is the caller's decision.
type Repricer struct {
	stock  StockReader
	pricer ArticlePricer
	logger *slog.Logger
}

// RepricerOption configures the Repricer.
type RepricerOption func(*Repricer)

// WithRepricerLogger sets the logger.
func WithRepricerLogger(l *slog.Logger) RepricerOption {
	return func(r *Repricer) {
		r.logger = l
	}
}

// NewRepricer creates a Repricer.
func NewRepricer(stock StockReader, pricer ArticlePricer, opts ...RepricerOption) *Repricer {
	r := &Repricer{
		stock:  stock,
		pricer: pricer,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of one repricing run.
type Result struct {
	RunID   uuid.UUID
	Changes []domain.PriceChange

	// TotalValue sums every article's best-known price: the new price when a
	// change was produced, the existing price otherwise. A no-op pricing
	// never counts twice.
	TotalValue float64

	Articles int
	Skipped  int
	Elapsed  time.Duration
}

// TotalDiff returns the aggregate price difference of the change set,
// weighted by copy count.
func (r *Result) TotalDiff() float64 {
	var sum float64
	for _, c := range r.Changes {
		sum += c.PriceDiff * float64(c.Count)
	}
	return sum
}

// RepriceAll reads a fresh stock snapshot and prices every article in it.
// Each article's pricing attempt is isolated: a failure (no price available,
// a remote error on that product's competition fetch) skips the article and
// the sweep continues.
func (r *Repricer) RepriceAll(ctx context.Context) (*Result, error) {
	start := time.Now()

	stock, err := r.stock.GetStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stock: %w", err)
	}

	result := &Result{
		RunID:    uuid.New(),
		Articles: len(stock),
	}
	log := r.logger.With("run_id", result.RunID)
	log.Info("repricing stock", "articles", len(stock))

	for i := range stock {
		article := &stock[i]

		change, err := r.pricer.PriceArticle(ctx, article)
		if err != nil {
			result.Skipped++
			result.TotalValue += article.Price
			metrics.ArticlesSkippedTotal.Inc()
			if errors.Is(err, ErrNoPriceAvailable) {
				log.Debug("no price available, skipping",
					"article_id", article.ArticleID, "product", article.ProductName)
			} else {
				log.Warn("pricing failed, skipping",
					"article_id", article.ArticleID, "product", article.ProductName, "err", err)
			}
			continue
		}

		if change == nil {
			result.TotalValue += article.Price
			continue
		}

		result.Changes = append(result.Changes, *change)
		result.TotalValue += change.NewPrice
	}

	result.Elapsed = time.Since(start)

	metrics.RepriceDuration.Observe(result.Elapsed.Seconds())
	metrics.PriceChangesTotal.Add(float64(len(result.Changes)))
	metrics.StockValue.Set(result.TotalValue)

	log.Info("repricing done",
		"changes", len(result.Changes),
		"skipped", result.Skipped,
		"stock_value", result.TotalValue,
		"elapsed", result.Elapsed)

	return result, nil
}

// RepriceArticle prices one already-fetched article, with the same isolation
// contract as the full sweep. It returns nil when the price is unchanged.
func (r *Repricer) RepriceArticle(ctx context.Context, article *domain.Article) (*domain.PriceChange, error) {
	return r.pricer.PriceArticle(ctx, article)
}
