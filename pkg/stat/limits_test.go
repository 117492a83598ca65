package stat

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorsFor(t *testing.T) {
	f, err := FactorsFor(5)
	require.NoError(t, err)
	assert.Equal(t, DefaultFactors, f)

	for n := MinSubgroupSize; n <= MaxSubgroupSize; n++ {
		f, err := FactorsFor(n)
		require.NoError(t, err)
		assert.NoError(t, f.Validate(), "size %d", n)
	}

	for _, n := range []int{-1, 0, 1, 26} {
		_, err := FactorsFor(n)
		var ie InputError
		assert.True(t, errors.As(err, &ie), "size %d", n)
	}
}

func TestFactorsValidate(t *testing.T) {
	tt := []struct {
		name  string
		f     Factors
		error bool
	}{
		{name: "default", f: DefaultFactors},
		{name: "zero A2", f: Factors{A2: 0, D3: 0, D4: 2, D2: 2}, error: true},
		{name: "zero d2", f: Factors{A2: 1, D3: 0, D4: 2, D2: 0}, error: true},
		{name: "negative D3", f: Factors{A2: 1, D3: -0.1, D4: 2, D2: 2}, error: true},
		{name: "D4 below one", f: Factors{A2: 1, D3: 0, D4: 0.5, D2: 2}, error: true},
		{name: "NaN", f: Factors{A2: math.NaN(), D3: 0, D4: 2, D2: 2}, error: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if tc.error {
				assert.Error(t, tc.f.Validate())
			} else {
				assert.NoError(t, tc.f.Validate())
			}
		})
	}
}

func TestSubgroupStatistics(t *testing.T) {
	s := NewSubgroup("a", 5, 7, 6, 8, 9)
	m, err := s.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, m, 1e-12)
	r, err := s.Range()
	require.NoError(t, err)
	assert.Equal(t, 4.0, r)

	_, err = NewSubgroup("empty").Mean()
	assert.Error(t, err)
	_, err = NewSubgroup("nan", 1, math.NaN()).Range()
	assert.Error(t, err)
}

func TestNewSubgroupCopies(t *testing.T) {
	values := []float64{1, 2, 3}
	s := NewSubgroup("a", values...)
	values[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, s.Values)
}

func TestControlLimits(t *testing.T) {
	subgroups := []Subgroup{
		NewSubgroup("", 5, 7, 6, 8, 9),
		NewSubgroup("", 6, 6, 7, 7, 8),
	}
	c, err := ControlLimits(subgroups, DefaultFactors)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{7.0, 6.8}, c.Mean.Series.Values(), 1e-12)
	assert.Equal(t, []float64{4, 2}, c.Range.Series.Values())
	assert.Equal(t, []string{"1", "2"}, c.Mean.Series.IDs())
	assert.InDelta(t, 3.0, c.MeanRange, 1e-12)
	assert.InDelta(t, 6.9, c.GrandMean, 1e-12)

	assert.InDelta(t, 6.9, c.Mean.Limits.Center, 1e-12)
	assert.InDelta(t, 8.631, c.Mean.Limits.Upper, 1e-9)
	assert.InDelta(t, 5.169, c.Mean.Limits.Lower, 1e-9)
	assert.InDelta(t, 3.0, c.Range.Limits.Center, 1e-12)
	assert.InDelta(t, 6.342, c.Range.Limits.Upper, 1e-9)
	assert.Equal(t, 0.0, c.Range.Limits.Lower)

	assert.Empty(t, c.Mean.OutOfControl)
	assert.Empty(t, c.Range.OutOfControl)
	assert.True(t, c.InControl())
	assert.Empty(t, c.Warnings)

	vs, err := DetectViolations(c.Mean.Series, c.Mean.Limits.Center, c.Mean.Limits.Upper)
	require.NoError(t, err)
	assert.Empty(t, vs)
	assert.Equal(t, []string{NoViolations}, Describe(vs))
}

func TestControlLimitsOutOfControl(t *testing.T) {
	f, _ := FactorsFor(2)
	subgroups := []Subgroup{
		NewSubgroup("a", 1, 2),
		NewSubgroup("b", 1, 2),
		NewSubgroup("c", 1, 2),
		NewSubgroup("d", 1, 2),
		NewSubgroup("e", 10, 11),
	}
	c, err := ControlLimits(subgroups, f)
	require.NoError(t, err)
	assert.InDelta(t, 3.3, c.Mean.Limits.Center, 1e-12)
	assert.InDelta(t, 5.18, c.Mean.Limits.Upper, 1e-9)
	assert.Equal(t, []Point{{Index: 4, ID: "e", Value: 10.5}}, c.Mean.OutOfControl)
	assert.Empty(t, c.Range.OutOfControl)
	assert.False(t, c.InControl())
}

func TestControlLimitsRangeLowerLimit(t *testing.T) {
	f, _ := FactorsFor(7)
	subgroups := []Subgroup{
		NewSubgroup("", 1, 2, 3, 4, 5, 6, 7),
		NewSubgroup("", 2, 3, 4, 5, 6, 7, 8),
	}
	c, err := ControlLimits(subgroups, f)
	require.NoError(t, err)
	assert.InDelta(t, 0.076*6, c.Range.Limits.Lower, 1e-12)
	assert.True(t, c.Range.Limits.Lower <= c.Range.Limits.Center)
}

func TestControlLimitsErrors(t *testing.T) {
	tt := []struct {
		name      string
		subgroups []Subgroup
		factors   Factors
	}{
		{name: "no subgroups", factors: DefaultFactors},
		{name: "empty subgroup", subgroups: []Subgroup{NewSubgroup("1", 1, 2), NewSubgroup("2")}, factors: DefaultFactors},
		{name: "infinite value", subgroups: []Subgroup{NewSubgroup("1", 1, math.Inf(1))}, factors: DefaultFactors},
		{name: "bad factors", subgroups: []Subgroup{NewSubgroup("1", 1, 2)}, factors: Factors{}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ControlLimits(tc.subgroups, tc.factors)
			var ie InputError
			assert.True(t, errors.As(err, &ie), "expected InputError, got %v", err)
		})
	}
}

func TestControlLimitsWarnings(t *testing.T) {
	c, err := ControlLimits([]Subgroup{NewSubgroup("", 3, 3, 3), NewSubgroup("", 3, 3, 3)}, DefaultFactors)
	require.NoError(t, err)
	assert.Equal(t, []Warning{WarnZeroRange}, c.Warnings)
	assert.Equal(t, c.Mean.Limits.Center, c.Mean.Limits.Upper)
	assert.Equal(t, c.Mean.Limits.Center, c.Mean.Limits.Lower)

	c, err = ControlLimits([]Subgroup{NewSubgroup("", 1, 2, 3), NewSubgroup("", 1, 2), NewSubgroup("", 1)}, DefaultFactors)
	require.NoError(t, err)
	assert.Equal(t, []Warning{WarnMixedSizes}, c.Warnings)
}

func TestControlLimitsFlatProcess(t *testing.T) {
	for _, v := range []float64{4.92, 0.1, 1.1, 4.93} {
		var subgroups []Subgroup
		for i := 0; i < 7; i++ {
			subgroups = append(subgroups, NewSubgroup("", v, v, v, v, v))
		}
		c, err := ControlLimits(subgroups, DefaultFactors)
		require.NoError(t, err)

		_, first := c.Mean.Series.At(0)
		assert.Equal(t, first, c.Mean.Limits.Center, "v=%g", v)
		assert.Empty(t, c.Mean.OutOfControl, "v=%g", v)
		assert.Empty(t, c.Range.OutOfControl, "v=%g", v)
		assert.True(t, c.InControl(), "v=%g", v)

		violations, err := DetectViolations(c.Mean.Series, c.Mean.Limits.Center, c.Mean.Limits.Upper)
		require.NoError(t, err)
		assert.Empty(t, violations, "v=%g", v)
	}
}
