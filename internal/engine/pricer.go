// Package engine implements the pricing heuristics and the stock repricing
// sweep. The engine only reads from the marketplace; submitting the
// resulting changes is the caller's decision.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mkmtools/mkmprice/internal/mkm"
	"github.com/mkmtools/mkmprice/pkg/logger"
	"github.com/mkmtools/mkmprice/pkg/pricemath"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// ErrNoPriceAvailable is returned when no price can be computed for a
// product: no published trend and no qualifying competing listings. Callers
// skip the item and continue.
var ErrNoPriceAvailable = errors.New("no price available")

// foilMinCondition filters foil competitor listings to Good or better. The
// non-foil path deliberately ignores condition and works from the aggregate
// trend value alone.
const foilMinCondition = domain.ConditionGood

// Market is the read-only marketplace surface the pricer needs.
type Market interface {
	GetProduct(ctx context.Context, productID int) (*domain.Product, error)
	GetArticles(ctx context.Context, productID int, filter mkm.ArticleFilter) ([]domain.Article, error)
	GetAccount(ctx context.Context) (*domain.Account, error)
}

// Pricer computes recommended sale prices. It is deterministic for a given
// listing snapshot and retains no listings across calls.
type Pricer struct {
	market Market
	policy *domain.RoundingPolicy
	logger *slog.Logger

	mu      sync.Mutex
	account *domain.Account
}

// PricerOption configures the Pricer.
type PricerOption func(*Pricer)

// WithPricerLogger sets the logger.
func WithPricerLogger(l *slog.Logger) PricerOption {
	return func(p *Pricer) {
		p.logger = l
	}
}

// NewPricer creates a Pricer using the given marketplace and rounding
// policy.
func NewPricer(market Market, policy *domain.RoundingPolicy, opts ...PricerOption) *Pricer {
	p := &Pricer{
		market: market,
		policy: policy,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PriceFor computes the recommended price for a product variant.
//
// Non-foil articles anchor on the product's published trend price, rounded
// up to the rarity's step. Foil articles have no authoritative trend, so the
// price is inferred from live competing listings.
func (p *Pricer) PriceFor(ctx context.Context, productID int, rarity string, isFoil bool, languageID int) (float64, error) {
	step := p.stepFor(rarity)

	if !isFoil {
		product, err := p.market.GetProduct(ctx, productID)
		if err != nil {
			return 0, fmt.Errorf("looking up product %d: %w", productID, err)
		}
		trend := product.PriceGuide.Trend
		if trend <= 0 {
			return 0, fmt.Errorf("product %d: %w", productID, ErrNoPriceAvailable)
		}
		return pricemath.RoundUpToStep(step, trend), nil
	}

	return p.foilPrice(ctx, productID, step, languageID)
}

// foilPrice prices a foil from the current competition:
//
//  1. qualifying listings: foil, unaltered, unsigned, Good or better,
//     requested language;
//  2. guided price: lowest + (median-lowest)/4, rounded up to the step;
//  3. with local competition, undercut the cheapest local seller by one
//     step, capped at the guided price;
//  4. never below one step.
func (p *Pricer) foilPrice(ctx context.Context, productID int, step float64, languageID int) (float64, error) {
	account, err := p.getAccount(ctx)
	if err != nil {
		return 0, fmt.Errorf("looking up account: %w", err)
	}

	articles, err := p.market.GetArticles(ctx, productID, mkm.ArticleFilter{
		IsFoil:       mkm.Bool(true),
		IsAltered:    mkm.Bool(false),
		IsSigned:     mkm.Bool(false),
		MinCondition: foilMinCondition,
		LanguageID:   languageID,
	})
	if err != nil {
		if errors.Is(err, mkm.ErrNoResults) {
			return 0, fmt.Errorf("product %d: %w", productID, ErrNoPriceAvailable)
		}
		return 0, fmt.Errorf("fetching competition for product %d: %w", productID, err)
	}
	if len(articles) == 0 {
		return 0, fmt.Errorf("product %d: %w", productID, ErrNoPriceAvailable)
	}

	var local []domain.Article
	for _, a := range articles {
		if a.SellerCountry == account.Country && a.SellerName != account.Username {
			local = append(local, a)
		}
	}

	median := pricemath.Median(articles)
	lowest := pricemath.Lowest(articles)
	guided := pricemath.RoundUpToStep(step, lowest+(median-lowest)/4)

	if len(local) > 0 {
		lowestLocal := pricemath.RoundDownToStep(step, pricemath.Lowest(local))
		return max(step, min(guided, lowestLocal-step)), nil
	}

	// No competition in our country, set the price a bit higher.
	return pricemath.RoundUpToStep(step, guided*1.2), nil
}

// PriceArticle prices one stock article. It returns nil when the computed
// price equals the article's current price.
func (p *Pricer) PriceArticle(ctx context.Context, article *domain.Article) (*domain.PriceChange, error) {
	newPrice, err := p.PriceFor(ctx, article.ProductID, article.Rarity, article.IsFoil, article.LanguageID)
	if err != nil {
		return nil, err
	}

	diff := newPrice - article.Price
	if diff == 0 {
		return nil, nil
	}

	return &domain.PriceChange{
		ArticleID:    article.ArticleID,
		ProductName:  article.ProductName,
		IsFoil:       article.IsFoil,
		IsPlayset:    article.IsPlayset,
		LanguageName: article.LanguageName,
		Condition:    article.Condition,
		OldPrice:     article.Price,
		NewPrice:     newPrice,
		PriceDiff:    diff,
		Count:        article.Count,
	}, nil
}

// stepFor resolves the rounding step, logging when an unrecognized rarity
// falls back to the default. Pricing never fails on a bad rarity string.
func (p *Pricer) stepFor(rarity string) float64 {
	step, known := p.policy.StepFor(rarity)
	if !known {
		p.logger.Warn("unknown rarity, using default rounding step",
			"rarity", rarity, "step", step)
	}
	return step
}

// getAccount fetches and caches the acting user's account; the country and
// username partition competitor listings into local and foreign.
func (p *Pricer) getAccount(ctx context.Context) (*domain.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.account != nil {
		return p.account, nil
	}
	account, err := p.market.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	p.account = account
	return account, nil
}
