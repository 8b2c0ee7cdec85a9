package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkmtools/mkmprice/internal/engine"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

type fakeStock struct {
	articles []domain.Article
	err      error
}

func (s *fakeStock) GetStock(context.Context) ([]domain.Article, error) {
	return s.articles, s.err
}

// fakePricer prices articles from a script keyed by article ID.
type fakePricer struct {
	changes map[int]*domain.PriceChange
	errs    map[int]error
}

func (p *fakePricer) PriceArticle(_ context.Context, article *domain.Article) (*domain.PriceChange, error) {
	if err := p.errs[article.ArticleID]; err != nil {
		return nil, err
	}
	return p.changes[article.ArticleID], nil
}

func TestRepriceAll(t *testing.T) {
	t.Parallel()

	stock := &fakeStock{articles: []domain.Article{
		{ArticleID: 1, ProductName: "changed", Price: 1.00, Count: 2},
		{ArticleID: 2, ProductName: "unchanged", Price: 0.50, Count: 1},
		{ArticleID: 3, ProductName: "unpriceable", Price: 3.00, Count: 1},
	}}
	pricer := &fakePricer{
		changes: map[int]*domain.PriceChange{
			1: {ArticleID: 1, OldPrice: 1.00, NewPrice: 2.00, PriceDiff: 1.00, Count: 2},
		},
		errs: map[int]error{
			3: fmt.Errorf("product 30: %w", engine.ErrNoPriceAvailable),
		},
	}

	repricer := engine.NewRepricer(stock, pricer)
	result, err := repricer.RepriceAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Articles)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, 1, result.Changes[0].ArticleID)

	// Each article counts once at its best-known price: the new price for
	// the changed one, the existing price for the rest.
	assert.InDelta(t, 2.00+0.50+3.00, result.TotalValue, 0.001)
	assert.InDelta(t, 2.00, result.TotalDiff(), 0.001)
	assert.NotEqual(t, result.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRepriceAllContinuesPastFailures(t *testing.T) {
	t.Parallel()

	stock := &fakeStock{articles: []domain.Article{
		{ArticleID: 1, Price: 1.00, Count: 1},
		{ArticleID: 2, Price: 1.00, Count: 1},
		{ArticleID: 3, Price: 1.00, Count: 1},
	}}
	pricer := &fakePricer{
		changes: map[int]*domain.PriceChange{
			3: {ArticleID: 3, OldPrice: 1.00, NewPrice: 1.25, PriceDiff: 0.25, Count: 1},
		},
		errs: map[int]error{
			1: errors.New("connection refused"),
			2: engine.ErrNoPriceAvailable,
		},
	}

	repricer := engine.NewRepricer(stock, pricer)
	result, err := repricer.RepriceAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, 3, result.Changes[0].ArticleID)
}

func TestRepriceAllStockError(t *testing.T) {
	t.Parallel()

	repricer := engine.NewRepricer(&fakeStock{err: errors.New("boom")}, &fakePricer{})
	_, err := repricer.RepriceAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading stock")
}

func TestRepriceAllEmptyStock(t *testing.T) {
	t.Parallel()

	repricer := engine.NewRepricer(&fakeStock{}, &fakePricer{})
	result, err := repricer.RepriceAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Articles)
	assert.Empty(t, result.Changes)
	assert.Zero(t, result.TotalValue)
}
