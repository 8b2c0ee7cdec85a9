// Package pricemath provides the price arithmetic used by the pricing
// engine: rounding to a rarity step and aggregate statistics over listing
// tables. All results are rounded to whole cents.
package pricemath

import (
	"math"
	"sort"

	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// RoundUpToStep rounds price up to the nearest multiple of step. A price
// already on an exact multiple is returned unchanged. Step must be positive.
func RoundUpToStep(step, price float64) float64 {
	inverse := 1 / step
	return roundCents(math.Ceil(price*inverse) / inverse)
}

// RoundDownToStep rounds price down to the nearest multiple of step, but
// never below one step. A price already on an exact multiple is returned
// unchanged. Step must be positive.
func RoundDownToStep(step, price float64) float64 {
	inverse := 1 / step
	return roundCents(math.Max(step, math.Floor(price*inverse)/inverse))
}

// Lowest returns the minimum price across the articles. It returns 0 for an
// empty slice; callers are expected to check for emptiness first.
func Lowest(articles []domain.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	low := articles[0].Price
	for _, a := range articles[1:] {
		if a.Price < low {
			low = a.Price
		}
	}
	return low
}

// Median returns the count-weighted median price: each article contributes
// one sample per copy offered. With unit counts this is the plain median
// (middle element, or average of the two middle elements).
func Median(articles []domain.Article) float64 {
	prices := expand(articles)
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	n := len(prices)
	if n%2 == 1 {
		return roundCents(prices[n/2])
	}
	return roundCents((prices[n/2-1] + prices[n/2]) / 2)
}

// Average returns the count-weighted mean price.
func Average(articles []domain.Article) float64 {
	prices := expand(articles)
	if len(prices) == 0 {
		return 0
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return roundCents(sum / float64(len(prices)))
}

func expand(articles []domain.Article) []float64 {
	var prices []float64
	for _, a := range articles {
		for range a.Count {
			prices = append(prices, a.Price)
		}
	}
	return prices
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
