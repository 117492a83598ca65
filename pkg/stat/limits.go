package stat

import (
	"fmt"
	"math"
	"strconv"

	"github.com/BTBurke/spc/pkg/metric"
	"github.com/montanaflynn/stats"
)

// Series names for the two charts
const (
	MeanChartName  = "xbar"
	RangeChartName = "range"
)

// Limits are the center line and control limits of a chart
type Limits struct {
	Center float64 `yaml:"center"`
	Upper  float64 `yaml:"upper"`
	Lower  float64 `yaml:"lower"`
}

// Contains reports whether v lies within the closed interval [Lower, Upper]
func (l Limits) Contains(v float64) bool {
	return v >= l.Lower && v <= l.Upper
}

// Point is a single plotted value on a chart
type Point struct {
	Index int
	ID    string
	Value float64
}

// Chart is a plotted series together with its limits and the points that fall outside them
type Chart struct {
	Series       *metric.Series
	Limits       Limits
	OutOfControl []Point
}

// InControl reports whether every point of the chart is within its limits
func (c Chart) InControl() bool {
	return len(c.OutOfControl) == 0
}

// ControlCharts holds the X-bar and R charts computed from one set of subgroups
type ControlCharts struct {
	Mean      Chart
	Range     Chart
	GrandMean float64
	MeanRange float64
	Warnings  []Warning
}

// ControlLimits reduces subgroups to their means and ranges and computes the limits of the
// X-bar chart (grand mean +/- A2 * mean range) and the R chart (D3 * mean range, D4 * mean range).
func ControlLimits(subgroups []Subgroup, f Factors) (*ControlCharts, error) {
	if len(subgroups) == 0 {
		return nil, inputErrorf("no subgroups to analyze")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	means, err := metric.NewSeries(metric.WithName(MeanChartName, nil))
	if err != nil {
		return nil, err
	}
	ranges, err := metric.NewSeries(metric.WithName(RangeChartName, nil))
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	size := len(subgroups[0].Values)
	for i, sg := range subgroups {
		m, err := sg.Mean()
		if err != nil {
			return nil, fmt.Errorf("subgroup %d: %w", i+1, err)
		}
		r, err := sg.Range()
		if err != nil {
			return nil, fmt.Errorf("subgroup %d: %w", i+1, err)
		}
		id := sg.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		means.Record(id, m)
		ranges.Record(id, r)
		if len(sg.Values) != size && !containsWarning(warnings, WarnMixedSizes) {
			warnings = append(warnings, WarnMixedSizes)
		}
	}

	grandMean, err := stats.Mean(means.Values())
	if err != nil {
		return nil, err
	}
	// summing identical means can drift a few ulps off the value itself, which would put
	// every point of a flat process outside zero width limits
	if m, ok := constant(means.Values()); ok {
		grandMean = m
	}
	meanRange, err := stats.Mean(ranges.Values())
	if err != nil {
		return nil, err
	}
	if meanRange == 0 {
		warnings = append(warnings, WarnZeroRange)
	}

	meanLimits := Limits{
		Center: grandMean,
		Upper:  grandMean + f.A2*meanRange,
		Lower:  grandMean - f.A2*meanRange,
	}
	rangeLimits := Limits{
		Center: meanRange,
		Upper:  f.D4 * meanRange,
		Lower:  math.Max(0, f.D3*meanRange),
	}

	return &ControlCharts{
		Mean: Chart{
			Series:       means,
			Limits:       meanLimits,
			OutOfControl: outside(means, meanLimits),
		},
		Range: Chart{
			Series:       ranges,
			Limits:       rangeLimits,
			OutOfControl: outside(ranges, rangeLimits),
		},
		GrandMean: grandMean,
		MeanRange: meanRange,
		Warnings:  warnings,
	}, nil
}

// InControl reports whether both charts are free of points outside their limits
func (c *ControlCharts) InControl() bool {
	return c.Mean.InControl() && c.Range.InControl()
}

func outside(s *metric.Series, l Limits) []Point {
	var out []Point
	for i := 0; i < s.Len(); i++ {
		id, v := s.At(i)
		if !l.Contains(v) {
			out = append(out, Point{Index: i, ID: id, Value: v})
		}
	}
	return out
}

// constant returns the common value when every element of values is identical
func constant(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return 0, false
		}
	}
	return values[0], true
}

func containsWarning(all []Warning, w Warning) bool {
	for _, a := range all {
		if a == w {
			return true
		}
	}
	return false
}
