package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkmtools/mkmprice/internal/engine"
	"github.com/mkmtools/mkmprice/internal/mkm"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// fakeMarket implements engine.Market with canned responses.
type fakeMarket struct {
	product     *domain.Product
	productErr  error
	articles    []domain.Article
	articlesErr error
	account     *domain.Account
	accountErr  error

	lastFilter  mkm.ArticleFilter
	accountGets int
}

func (m *fakeMarket) GetProduct(context.Context, int) (*domain.Product, error) {
	return m.product, m.productErr
}

func (m *fakeMarket) GetArticles(_ context.Context, _ int, filter mkm.ArticleFilter) ([]domain.Article, error) {
	m.lastFilter = filter
	return m.articles, m.articlesErr
}

func (m *fakeMarket) GetAccount(context.Context) (*domain.Account, error) {
	m.accountGets++
	return m.account, m.accountErr
}

func mustPolicy(t *testing.T, defaultStep float64, overrides map[string]float64) *domain.RoundingPolicy {
	t.Helper()
	policy, err := domain.NewRoundingPolicy(defaultStep, overrides)
	require.NoError(t, err)
	return policy
}

func TestPriceForNonFoil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		trend  float64
		rarity string
		want   float64
	}{
		{name: "trend rounds up to quarter", trend: 3.30, rarity: "Rare", want: 3.50},
		{name: "exact multiple unchanged", trend: 3.25, rarity: "Rare", want: 3.25},
		{name: "unknown rarity uses default step", trend: 3.30, rarity: "Time Shifted", want: 3.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := &fakeMarket{
				product: &domain.Product{
					ProductID:  12345,
					Rarity:     tt.rarity,
					PriceGuide: domain.PriceGuide{Trend: tt.trend},
				},
			}
			pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

			price, err := pricer.PriceFor(context.Background(), 12345, tt.rarity, false, 1)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, price, 0.001)
		})
	}
}

func TestPriceForNonFoilWithoutTrend(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		product: &domain.Product{ProductID: 12345},
	}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	_, err := pricer.PriceFor(context.Background(), 12345, "Rare", false, 1)
	require.ErrorIs(t, err, engine.ErrNoPriceAvailable)
}

func TestPriceForFoil(t *testing.T) {
	t.Parallel()

	account := &domain.Account{Username: "me", Country: "D"}

	tests := []struct {
		name     string
		articles []domain.Article
		want     float64
	}{
		{
			name: "local competition undercuts cheapest local seller",
			articles: []domain.Article{
				{SellerName: "localA", SellerCountry: "D", Price: 2.00, Count: 1},
				{SellerName: "localB", SellerCountry: "D", Price: 3.00, Count: 1},
				{SellerName: "abroad", SellerCountry: "F", Price: 1.00, Count: 1},
			},
			// guided 1.25 caps the undercut price 1.75.
			want: 1.25,
		},
		{
			name: "no local competition adds a premium",
			articles: []domain.Article{
				{SellerName: "abroadA", SellerCountry: "F", Price: 1.00, Count: 1},
				{SellerName: "abroadB", SellerCountry: "F", Price: 3.00, Count: 1},
			},
			// guided 1.25, plus twenty percent, rounded up.
			want: 1.50,
		},
		{
			name: "own listings do not count as local competition",
			articles: []domain.Article{
				{SellerName: "me", SellerCountry: "D", Price: 1.00, Count: 1},
				{SellerName: "abroad", SellerCountry: "F", Price: 3.00, Count: 1},
			},
			want: 1.50,
		},
		{
			name: "price never drops below one step",
			articles: []domain.Article{
				{SellerName: "localA", SellerCountry: "D", Price: 0.30, Count: 1},
				{SellerName: "localB", SellerCountry: "D", Price: 0.30, Count: 1},
			},
			// Undercutting 0.25 by a step would hit zero; clamp to the step.
			want: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := &fakeMarket{account: account, articles: tt.articles}
			pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

			price, err := pricer.PriceFor(context.Background(), 12345, "Rare", true, 1)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, price, 0.001)
		})
	}
}

func TestPriceForFoilFilter(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		account:  &domain.Account{Username: "me", Country: "D"},
		articles: []domain.Article{{SellerName: "x", SellerCountry: "F", Price: 1.00, Count: 1}},
	}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	_, err := pricer.PriceFor(context.Background(), 12345, "Rare", true, 3)
	require.NoError(t, err)

	filter := market.lastFilter
	require.NotNil(t, filter.IsFoil)
	assert.True(t, *filter.IsFoil)
	require.NotNil(t, filter.IsSigned)
	assert.False(t, *filter.IsSigned)
	require.NotNil(t, filter.IsAltered)
	assert.False(t, *filter.IsAltered)
	assert.Equal(t, domain.ConditionGood, filter.MinCondition)
	assert.Equal(t, 3, filter.LanguageID)
}

func TestPriceForFoilWithoutListings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		market *fakeMarket
	}{
		{
			name: "empty listing table",
			market: &fakeMarket{
				account: &domain.Account{Username: "me", Country: "D"},
			},
		},
		{
			name: "no results from upstream",
			market: &fakeMarket{
				account:     &domain.Account{Username: "me", Country: "D"},
				articlesErr: mkm.ErrNoResults,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pricer := engine.NewPricer(tt.market, mustPolicy(t, 0.25, nil))
			_, err := pricer.PriceFor(context.Background(), 12345, "Rare", true, 1)
			require.ErrorIs(t, err, engine.ErrNoPriceAvailable)
		})
	}
}

func TestPricerCachesAccount(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		account:  &domain.Account{Username: "me", Country: "D"},
		articles: []domain.Article{{SellerName: "x", SellerCountry: "F", Price: 1.00, Count: 1}},
	}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	for range 3 {
		_, err := pricer.PriceFor(context.Background(), 12345, "Rare", true, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, market.accountGets)
}

func TestPriceArticle(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		product: &domain.Product{
			ProductID:  12345,
			PriceGuide: domain.PriceGuide{Trend: 3.30},
		},
	}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	article := &domain.Article{
		ArticleID:   9001,
		ProductID:   12345,
		ProductName: "Lightning Bolt",
		Rarity:      "Common",
		Price:       2.00,
		Count:       3,
	}

	change, err := pricer.PriceArticle(context.Background(), article)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, 9001, change.ArticleID)
	assert.InDelta(t, 2.00, change.OldPrice, 0.001)
	assert.InDelta(t, 3.50, change.NewPrice, 0.001)
	assert.InDelta(t, 1.50, change.PriceDiff, 0.001)
	assert.Equal(t, 3, change.Count)
}

func TestPriceArticleUnchanged(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		product: &domain.Product{
			ProductID:  12345,
			PriceGuide: domain.PriceGuide{Trend: 3.25},
		},
	}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	change, err := pricer.PriceArticle(context.Background(), &domain.Article{
		ArticleID: 9001,
		ProductID: 12345,
		Price:     3.25,
		Count:     1,
	})
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestPriceArticlePropagatesLookupError(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{productErr: errors.New("connection refused")}
	pricer := engine.NewPricer(market, mustPolicy(t, 0.25, nil))

	_, err := pricer.PriceArticle(context.Background(), &domain.Article{
		ProductID: 12345,
		Price:     1.00,
		Count:     1,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, engine.ErrNoPriceAvailable)
}
