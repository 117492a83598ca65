package stat

import (
	"math"

	"github.com/montanaflynn/stats"
)

// SpecLimits are the externally supplied lower and upper specification limits of the characteristic
type SpecLimits struct {
	Lower float64 `yaml:"lsl"`
	Upper float64 `yaml:"usl"`
}

// Validate returns an InputError when the limits are not finite or upper is below lower
func (s SpecLimits) Validate() error {
	if undefined(s.Lower) || undefined(s.Upper) {
		return inputErrorf("specification limits must be finite, got lsl=%g usl=%g", s.Lower, s.Upper)
	}
	if s.Upper < s.Lower {
		return inputErrorf("upper specification limit %g is below lower specification limit %g", s.Upper, s.Lower)
	}
	return nil
}

// Tail is the probability that a single measurement exceeds Threshold
type Tail struct {
	Threshold   float64
	Probability float64
}

// Capability summarizes how well a normally distributed process with the estimated mean and
// sigma fits within its specification limits
type Capability struct {
	Mean     float64
	SigmaHat float64
	Limits   SpecLimits

	// Yield is the probability that a measurement falls within the specification limits
	Yield float64
	Cp    float64
	Cpk   float64
	Cpu   float64
	Cpl   float64
	Tails []Tail
}

// SigmaHat estimates the process standard deviation from the mean subgroup range as R-bar / d2
func SigmaHat(meanRange float64, f Factors) (float64, error) {
	if f.D2 <= 0 || undefined(f.D2) {
		return 0, inputErrorf("factor d2 must be positive, got %g", f.D2)
	}
	return meanRange / f.D2, nil
}

// AnalyzeCapability computes yield and the capability indices of a Normal(mean, sigmaHat) process
// against the specification limits, plus the upper tail probability at each threshold.
func AnalyzeCapability(mean, sigmaHat float64, limits SpecLimits, thresholds ...float64) (*Capability, error) {
	if err := checkNormal(mean, sigmaHat); err != nil {
		return nil, err
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	cpu := (limits.Upper - mean) / (3 * sigmaHat)
	cpl := (mean - limits.Lower) / (3 * sigmaHat)
	c := &Capability{
		Mean:     mean,
		SigmaHat: sigmaHat,
		Limits:   limits,
		Yield:    Coverage((limits.Lower-mean)/sigmaHat, (limits.Upper-mean)/sigmaHat),
		Cp:       (limits.Upper - limits.Lower) / (6 * sigmaHat),
		Cpk:      math.Min(cpu, cpl),
		Cpu:      cpu,
		Cpl:      cpl,
	}
	for _, t := range thresholds {
		p, err := TailProbability(mean, sigmaHat, t)
		if err != nil {
			return nil, err
		}
		c.Tails = append(c.Tails, Tail{Threshold: t, Probability: p})
	}
	return c, nil
}

// TailProbability returns P(X > threshold) for X ~ Normal(mean, sigmaHat)
func TailProbability(mean, sigmaHat, threshold float64) (float64, error) {
	if err := checkNormal(mean, sigmaHat); err != nil {
		return 0, err
	}
	if undefined(threshold) {
		return 0, inputErrorf("threshold must be finite, got %g", threshold)
	}
	return 1 - normCDF((threshold-mean)/sigmaHat), nil
}

// Coverage returns the probability that a standard normal variable falls between lowerZ and upperZ
func Coverage(lowerZ, upperZ float64) float64 {
	return normCDF(upperZ) - normCDF(lowerZ)
}

// ShiftedCoverage returns the fraction of a normal process inside a tolerance of +/- halfWidth
// standard deviations around the target when the process mean has drifted by shift standard deviations
func ShiftedCoverage(halfWidth, shift float64) float64 {
	return Coverage(-halfWidth-shift, halfWidth-shift)
}

func normCDF(z float64) float64 {
	return stats.NormCdf(z, 0, 1)
}

func checkNormal(mean, sigmaHat float64) error {
	if undefined(mean) {
		return inputErrorf("process mean must be finite, got %g", mean)
	}
	if !(sigmaHat > 0) || math.IsInf(sigmaHat, 1) {
		return inputErrorf("estimated process sigma must be positive, got %g", sigmaHat)
	}
	return nil
}
