// Package domain defines the core business types for the Cardmarket
// pricing assistant.
package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Condition represents the card-quality scale used by the marketplace,
// ordered best to worst.
type Condition string

// Condition constants, best to worst.
const (
	ConditionMint      Condition = "MT"
	ConditionNearMint  Condition = "NM"
	ConditionExcellent Condition = "EX"
	ConditionGood      Condition = "GD"
	ConditionLightPlay Condition = "LP"
	ConditionPlayed    Condition = "PL"
	ConditionPoor      Condition = "PO"
)

// conditionScale orders conditions best (index 0) to worst.
var conditionScale = []Condition{
	ConditionMint,
	ConditionNearMint,
	ConditionExcellent,
	ConditionGood,
	ConditionLightPlay,
	ConditionPlayed,
	ConditionPoor,
}

// Rank returns the position of c on the quality scale (0 = best).
// Unknown conditions rank below Poor.
func (c Condition) Rank() int {
	if i := slices.Index(conditionScale, c); i >= 0 {
		return i
	}
	return len(conditionScale)
}

// AtLeast reports whether c is of quality min or better.
func (c Condition) AtLeast(min Condition) bool {
	return c.Rank() <= min.Rank()
}

// Article is one seller's offer for one product variant. Articles read from
// the acting user's own stock additionally carry the product rarity, which
// selects the rounding policy during repricing.
type Article struct {
	ArticleID     int       `json:"idArticle"`
	ProductID     int       `json:"idProduct"`
	ProductName   string    `json:"name,omitempty"`
	Expansion     string    `json:"expansion,omitempty"`
	Rarity        string    `json:"rarity,omitempty"`
	SellerName    string    `json:"seller_name,omitempty"`
	SellerCountry string    `json:"seller_country,omitempty"`
	Condition     Condition `json:"condition"`
	IsFoil        bool      `json:"isFoil"`
	IsSigned      bool      `json:"isSigned"`
	IsAltered     bool      `json:"isAltered"`
	IsPlayset     bool      `json:"isPlayset"`
	LanguageID    int       `json:"idLanguage"`
	LanguageName  string    `json:"language,omitempty"`
	Price         float64   `json:"price"`
	Count         int       `json:"count"`
}

// Valid reports whether the article satisfies the basic invariants
// (positive price, at least one copy).
func (a *Article) Valid() bool {
	return a.Price > 0 && a.Count >= 1
}

// TotalValue returns price times copy count.
func (a *Article) TotalValue() float64 {
	return a.Price * float64(a.Count)
}

// PriceChange is one recommended price update for a stock article. It exists
// only within a single repricing run.
type PriceChange struct {
	ArticleID    int       `json:"idArticle"`
	ProductName  string    `json:"name"`
	IsFoil       bool      `json:"isFoil"`
	IsPlayset    bool      `json:"isPlayset"`
	LanguageName string    `json:"language"`
	Condition    Condition `json:"condition"`
	OldPrice     float64   `json:"old_price"`
	NewPrice     float64   `json:"price"`
	PriceDiff    float64   `json:"price_diff"`
	Count        int       `json:"count"`
}

// PriceGuide holds the market-aggregate prices published per product.
// Foil variants have no trend entry of their own on older product records,
// which is why foil pricing works from live listings instead.
type PriceGuide struct {
	Sell      float64 `json:"SELL"`
	Low       float64 `json:"LOW"`
	LowExPlus float64 `json:"LOWEX"`
	LowFoil   float64 `json:"LOWFOIL"`
	Average   float64 `json:"AVG"`
	Trend     float64 `json:"TREND"`
	TrendFoil float64 `json:"TRENDFOIL"`
}

// Product is a marketplace product record.
type Product struct {
	ProductID  int        `json:"idProduct"`
	Name       string     `json:"enName"`
	Expansion  string     `json:"expansion"`
	Rarity     string     `json:"rarity"`
	PriceGuide PriceGuide `json:"priceGuide"`
}

// Account is the acting user's account record. Country determines what
// counts as local competition.
type Account struct {
	Username   string `json:"username"`
	Country    string `json:"country"`
	OnVacation bool   `json:"onVacation"`
}

// Wantslist is a saved list of wanted products.
type Wantslist struct {
	WantslistID int    `json:"idWantslist"`
	Name        string `json:"name"`
	GameID      int    `json:"idGame"`
	ItemCount   int    `json:"itemCount"`
}

// Order is a marketplace order in some state (bought, paid, received, ...).
type Order struct {
	OrderID      int     `json:"idOrder"`
	State        string  `json:"state"`
	ArticleCount int     `json:"articleCount"`
	TotalValue   float64 `json:"totalValue"`
}

// RoundingPolicy maps a product rarity to the minimum price increment used
// when rounding recommended prices. A default step always exists and is used
// for unrecognized rarities.
type RoundingPolicy struct {
	steps       map[string]float64
	defaultStep float64
}

// NewRoundingPolicy builds a policy from a default step and optional
// per-rarity overrides. Rarity keys are matched case-insensitively.
// Every step must be strictly positive.
func NewRoundingPolicy(defaultStep float64, overrides map[string]float64) (*RoundingPolicy, error) {
	if defaultStep <= 0 {
		return nil, fmt.Errorf("default rounding step must be positive, got %v", defaultStep)
	}
	steps := make(map[string]float64, len(overrides))
	for rarity, step := range overrides {
		if step <= 0 {
			return nil, fmt.Errorf("rounding step for rarity %q must be positive, got %v", rarity, step)
		}
		steps[strings.ToLower(rarity)] = step
	}
	return &RoundingPolicy{steps: steps, defaultStep: defaultStep}, nil
}

// StepFor returns the rounding step for a rarity. The second return value is
// false when the rarity was not configured and the default step was used.
func (p *RoundingPolicy) StepFor(rarity string) (float64, bool) {
	if step, ok := p.steps[strings.ToLower(rarity)]; ok {
		return step, true
	}
	return p.defaultStep, false
}

// DefaultStep returns the policy's fallback step.
func (p *RoundingPolicy) DefaultStep() float64 {
	return p.defaultStep
}
