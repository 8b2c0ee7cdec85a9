package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mkmtools/mkmprice/pkg/types"
)

func TestConditionRank(t *testing.T) {
	t.Parallel()

	ordered := []domain.Condition{
		domain.ConditionMint,
		domain.ConditionNearMint,
		domain.ConditionExcellent,
		domain.ConditionGood,
		domain.ConditionLightPlay,
		domain.ConditionPlayed,
		domain.ConditionPoor,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank(),
			"%s should rank better than %s", ordered[i-1], ordered[i])
	}

	// Unknown conditions rank below Poor.
	assert.Greater(t, domain.Condition("XX").Rank(), domain.ConditionPoor.Rank())
}

func TestConditionAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond domain.Condition
		min  domain.Condition
		want bool
	}{
		{name: "better passes", cond: domain.ConditionNearMint, min: domain.ConditionGood, want: true},
		{name: "equal passes", cond: domain.ConditionGood, min: domain.ConditionGood, want: true},
		{name: "worse fails", cond: domain.ConditionLightPlay, min: domain.ConditionGood, want: false},
		{name: "unknown fails", cond: domain.Condition("XX"), min: domain.ConditionPoor, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cond.AtLeast(tt.min))
		})
	}
}

func TestArticleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, (&domain.Article{Price: 0.25, Count: 1}).Valid())
	assert.False(t, (&domain.Article{Price: 0, Count: 1}).Valid())
	assert.False(t, (&domain.Article{Price: 1.00, Count: 0}).Valid())
}

func TestArticleTotalValue(t *testing.T) {
	t.Parallel()

	a := &domain.Article{Price: 1.50, Count: 4}
	assert.InDelta(t, 6.00, a.TotalValue(), 0.001)
}

func TestNewRoundingPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		defaultStep float64
		overrides   map[string]float64
		wantErr     bool
	}{
		{name: "default only", defaultStep: 0.25},
		{name: "with overrides", defaultStep: 0.25, overrides: map[string]float64{"Mythic": 0.50}},
		{name: "zero default rejected", defaultStep: 0, wantErr: true},
		{name: "negative default rejected", defaultStep: -0.25, wantErr: true},
		{name: "zero override rejected", defaultStep: 0.25, overrides: map[string]float64{"rare": 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy, err := domain.NewRoundingPolicy(tt.defaultStep, tt.overrides)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, policy)
		})
	}
}

func TestRoundingPolicyStepFor(t *testing.T) {
	t.Parallel()

	policy, err := domain.NewRoundingPolicy(0.25, map[string]float64{"Mythic": 1.00})
	require.NoError(t, err)

	step, known := policy.StepFor("mythic")
	assert.True(t, known, "rarity matching is case-insensitive")
	assert.InDelta(t, 1.00, step, 0.001)

	step, known = policy.StepFor("time shifted")
	assert.False(t, known)
	assert.InDelta(t, 0.25, step, 0.001)

	assert.InDelta(t, 0.25, policy.DefaultStep(), 0.001)
}
