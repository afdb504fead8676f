package scorecard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBand(t *testing.T) {
	cfg, err := Validate(exampleDefinition())
	require.NoError(t, err)

	tests := []struct {
		score float64
		want  string
	}{
		{-1000, "LOW"},
		{595, "LOW"},
		{635, "LOW"},
		{635.01, "MEDIUM"},
		{670, "MEDIUM"},
		{671, "HIGH"},
		{705, "HIGH"},
		{705.5, "CRITICAL"},
		{710, "CRITICAL"},
		{math.MaxFloat64, "CRITICAL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ResolveBand(tt.score).Label(), "score %v", tt.score)
	}
}

// Every score maps to exactly one band under first-match, and scores
// above every finite ceiling land in the unbounded band.
func TestResolveBand_TotalAndExclusive(t *testing.T) {
	cfg, err := Validate(exampleDefinition())
	require.NoError(t, err)
	bands := cfg.Bands()

	for score := 500.0; score <= 800; score += 0.5 {
		got := cfg.ResolveBand(score)

		matches := 0
		lower := math.Inf(-1)
		for _, b := range bands {
			upper, bounded := b.UpperBound()
			if !bounded {
				upper = math.Inf(1)
			}
			if score > lower && score <= upper {
				matches++
				assert.Equal(t, b.Label(), got.Label(), "score %v", score)
			}
			lower = upper
		}
		assert.Equal(t, 1, matches, "score %v", score)
	}
}

func TestFeature_MatchNumber(t *testing.T) {
	cfg, err := Validate(exampleDefinition())
	require.NoError(t, err)
	f, ok := cfg.Feature("downstream_critical_deps")
	require.True(t, ok)

	b, ok := f.MatchNumber(0)
	require.True(t, ok)
	assert.Equal(t, "[0,1)", b.Label())

	b, ok = f.MatchNumber(3)
	require.True(t, ok)
	assert.Equal(t, "[3,6)", b.Label())
	assert.Equal(t, 10.0, b.Points())

	b, ok = f.MatchNumber(1e9)
	require.True(t, ok)
	assert.Equal(t, "[6,inf)", b.Label())

	_, ok = f.MatchNumber(-1)
	assert.False(t, ok, "below declared minimum")
	_, ok = f.MatchNumber(math.NaN())
	assert.False(t, ok)
}

func TestFeature_MatchCategory(t *testing.T) {
	cfg, err := Validate(exampleDefinition())
	require.NoError(t, err)
	f, ok := cfg.Feature("test_depth")
	require.True(t, ok)

	b, ok := f.MatchCategory("FULL_PLUS_CHAOS")
	require.True(t, ok)
	assert.Equal(t, -5.0, b.Points())

	_, ok = f.MatchCategory("full")
	assert.False(t, ok, "matching is case-sensitive")
}

func TestConfig_AccessorsReturnCopies(t *testing.T) {
	cfg, err := Validate(exampleDefinition())
	require.NoError(t, err)

	bands := cfg.Bands()
	bands[0] = Band{label: "MUTATED"}
	assert.Equal(t, "LOW", cfg.Bands()[0].Label())

	f, _ := cfg.Feature("change_size")
	bins := f.Bins()
	bins[0] = Bin{label: "MUTATED"}
	assert.Equal(t, "XS", f.Bins()[0].Label())
}
