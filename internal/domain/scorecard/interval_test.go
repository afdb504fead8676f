package scorecard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want Interval
	}{
		{"[0,2)", Interval{Low: 0, High: 2, LowClosed: true}},
		{"(2,4]", Interval{Low: 2, High: 4, HighClosed: true}},
		{"[ 1.5 , 3 ]", Interval{Low: 1.5, High: 3, LowClosed: true, HighClosed: true}},
		{"[10,inf)", Interval{Low: 10, High: math.Inf(1), LowClosed: true}},
		{"[-inf,2)", Interval{Low: math.Inf(-1), High: 2}},
		{"(-inf,+inf)", Interval{Low: math.Inf(-1), High: math.Inf(1)}},
		{"[3,3]", Interval{Low: 3, High: 3, LowClosed: true, HighClosed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInterval_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"0,2",
		"{0,2}",
		"[0;2)",
		"[0,2,3)",
		"[a,2)",
		"[4,2)",
		"[2,2)",
		"[inf,5)",
		"[0,-inf)",
		"[nan,1)",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseInterval(in)
			assert.Error(t, err)
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	halfOpen, err := ParseInterval("[2,4)")
	require.NoError(t, err)
	assert.False(t, halfOpen.Contains(1.999))
	assert.True(t, halfOpen.Contains(2))
	assert.True(t, halfOpen.Contains(3.5))
	assert.False(t, halfOpen.Contains(4))
	assert.False(t, halfOpen.Contains(math.NaN()))

	open, err := ParseInterval("(10,inf)")
	require.NoError(t, err)
	assert.False(t, open.Contains(10))
	assert.True(t, open.Contains(1e12))
}

func TestInterval_String(t *testing.T) {
	for _, in := range []string{"[0,2)", "(2,4]", "[10,inf)", "(-inf,0.5]"} {
		iv, err := ParseInterval(in)
		require.NoError(t, err)
		assert.Equal(t, in, iv.String())
	}
}

func TestMeet(t *testing.T) {
	iv := func(s string) Interval {
		v, err := ParseInterval(s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, adjacent, meet(iv("[0,2)"), iv("[2,4)")))
	assert.Equal(t, adjacent, meet(iv("[0,2]"), iv("(2,4)")))
	assert.Equal(t, overlapping, meet(iv("[0,2]"), iv("[2,4)")))
	assert.Equal(t, overlapping, meet(iv("[0,3)"), iv("[2,4)")))
	assert.Equal(t, gapped, meet(iv("[0,2)"), iv("(2,4)")))
	assert.Equal(t, gapped, meet(iv("[0,1)"), iv("[2,4)")))
}

func TestLooksLikeInterval(t *testing.T) {
	assert.True(t, looksLikeInterval("[0,2)"))
	assert.True(t, looksLikeInterval(" (1,inf) "))
	assert.False(t, looksLikeInterval("infrastructure"))
	assert.False(t, looksLikeInterval("XL"))
	assert.False(t, looksLikeInterval("[draft]"))
}
