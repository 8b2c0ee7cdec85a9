package pricemath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkmtools/mkmprice/pkg/pricemath"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

func TestRoundUpToStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		step  float64
		price float64
		want  float64
	}{
		{name: "rounds up to next quarter", step: 0.25, price: 3.30, want: 3.50},
		{name: "exact multiple unchanged", step: 0.25, price: 3.25, want: 3.25},
		{name: "rounds up to next dime", step: 0.10, price: 1.01, want: 1.10},
		{name: "tiny price rounds to one step", step: 0.25, price: 0.01, want: 0.25},
		{name: "half step", step: 0.50, price: 2.60, want: 3.00},
		{name: "whole euro step", step: 1.00, price: 7.10, want: 8.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, pricemath.RoundUpToStep(tt.step, tt.price), 0.001)
		})
	}
}

func TestRoundDownToStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		step  float64
		price float64
		want  float64
	}{
		{name: "rounds down to quarter", step: 0.25, price: 3.30, want: 3.25},
		{name: "exact multiple unchanged", step: 0.25, price: 3.25, want: 3.25},
		{name: "never below one step", step: 0.25, price: 0.10, want: 0.25},
		{name: "zero clamps to step", step: 0.25, price: 0, want: 0.25},
		{name: "rounds down to dime", step: 0.10, price: 1.19, want: 1.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, pricemath.RoundDownToStep(tt.step, tt.price), 0.001)
		})
	}
}

func TestLowest(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Price: 2.00, Count: 1},
		{Price: 0.75, Count: 3},
		{Price: 1.50, Count: 2},
	}
	assert.InDelta(t, 0.75, pricemath.Lowest(articles), 0.001)
	assert.Zero(t, pricemath.Lowest(nil))
}

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		articles []domain.Article
		want     float64
	}{
		{
			name: "odd number of samples",
			articles: []domain.Article{
				{Price: 1.00, Count: 1},
				{Price: 2.00, Count: 1},
				{Price: 9.00, Count: 1},
			},
			want: 2.00,
		},
		{
			name: "even number averages the middle pair",
			articles: []domain.Article{
				{Price: 1.00, Count: 1},
				{Price: 2.00, Count: 1},
				{Price: 3.00, Count: 1},
				{Price: 10.00, Count: 1},
			},
			want: 2.50,
		},
		{
			name: "copy counts weight the samples",
			articles: []domain.Article{
				{Price: 1.00, Count: 4},
				{Price: 50.00, Count: 1},
			},
			want: 1.00,
		},
		{
			name: "empty is zero",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, pricemath.Median(tt.articles), 0.001)
		})
	}
}

func TestAverage(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Price: 1.00, Count: 2},
		{Price: 4.00, Count: 1},
	}
	assert.InDelta(t, 2.00, pricemath.Average(articles), 0.001)
	assert.Zero(t, pricemath.Average(nil))
}
