package stat

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Reliability is the probability that at least MinGood of Items independent parts are good,
// where each part is good with probability PGood
type Reliability struct {
	Items       int
	MinGood     int
	HalfWidth   float64
	Shift       float64
	PGood       float64
	Probability float64
}

// AnalyzeReliability takes the per-part good probability from a normal process whose mean has shifted
// by shift sigma against a +/- halfWidth sigma tolerance and returns P(at least minGood good of items)
func AnalyzeReliability(items, minGood int, halfWidth, shift float64) (*Reliability, error) {
	if !(halfWidth > 0) || math.IsInf(halfWidth, 1) {
		return nil, inputErrorf("tolerance half width must be positive, got %g", halfWidth)
	}
	if undefined(shift) {
		return nil, inputErrorf("mean shift must be finite, got %g", shift)
	}
	p := ShiftedCoverage(halfWidth, shift)
	prob, err := BinomialSurvival(minGood, items, p)
	if err != nil {
		return nil, err
	}
	return &Reliability{
		Items:       items,
		MinGood:     minGood,
		HalfWidth:   halfWidth,
		Shift:       shift,
		PGood:       p,
		Probability: prob,
	}, nil
}

// BinomialSurvival returns P(X >= k) for X ~ Binomial(n, p)
func BinomialSurvival(k, n int, p float64) (float64, error) {
	if n < 0 {
		return 0, inputErrorf("number of trials must not be negative, got %d", n)
	}
	if !(p >= 0 && p <= 1) {
		return 0, inputErrorf("success probability must be within [0, 1], got %g", p)
	}
	switch {
	case k <= 0:
		return 1, nil
	case k > n:
		return 0, nil
	case p == 0:
		return 0, nil
	case p == 1:
		return 1, nil
	}

	b := distuv.Binomial{N: float64(n), P: p}
	// Survival(x) is P(X > x)
	return b.Survival(float64(k - 1)), nil
}
