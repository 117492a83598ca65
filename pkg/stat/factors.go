package stat

// Factors are the control chart constants for a subgroup size.  A2 scales the mean range
// into the X-bar limits, D3 and D4 give the range chart limits and D2 converts the
// mean range into an estimate of the process standard deviation.
type Factors struct {
	A2 float64 `yaml:"a2"`
	D3 float64 `yaml:"d3"`
	D4 float64 `yaml:"d4"`
	D2 float64 `yaml:"d2"`
}

// DefaultFactors are the factors for subgroups of size 5
var DefaultFactors = Factors{A2: 0.577, D3: 0, D4: 2.114, D2: 2.326}

// MinSubgroupSize and MaxSubgroupSize bound the sizes covered by FactorsFor
const (
	MinSubgroupSize = 2
	MaxSubgroupSize = 25
)

var factorTable = [...]Factors{
	{A2: 1.880, D3: 0, D4: 3.267, D2: 1.128},
	{A2: 1.023, D3: 0, D4: 2.574, D2: 1.693},
	{A2: 0.729, D3: 0, D4: 2.282, D2: 2.059},
	{A2: 0.577, D3: 0, D4: 2.114, D2: 2.326},
	{A2: 0.483, D3: 0, D4: 2.004, D2: 2.534},
	{A2: 0.419, D3: 0.076, D4: 1.924, D2: 2.704},
	{A2: 0.373, D3: 0.136, D4: 1.864, D2: 2.847},
	{A2: 0.337, D3: 0.184, D4: 1.816, D2: 2.970},
	{A2: 0.308, D3: 0.223, D4: 1.777, D2: 3.078},
	{A2: 0.285, D3: 0.256, D4: 1.744, D2: 3.173},
	{A2: 0.266, D3: 0.283, D4: 1.717, D2: 3.258},
	{A2: 0.249, D3: 0.307, D4: 1.693, D2: 3.336},
	{A2: 0.235, D3: 0.328, D4: 1.672, D2: 3.407},
	{A2: 0.223, D3: 0.347, D4: 1.653, D2: 3.472},
	{A2: 0.212, D3: 0.363, D4: 1.637, D2: 3.532},
	{A2: 0.203, D3: 0.378, D4: 1.622, D2: 3.588},
	{A2: 0.194, D3: 0.391, D4: 1.608, D2: 3.640},
	{A2: 0.187, D3: 0.403, D4: 1.597, D2: 3.689},
	{A2: 0.180, D3: 0.415, D4: 1.585, D2: 3.735},
	{A2: 0.173, D3: 0.425, D4: 1.575, D2: 3.778},
	{A2: 0.167, D3: 0.434, D4: 1.566, D2: 3.819},
	{A2: 0.162, D3: 0.443, D4: 1.557, D2: 3.858},
	{A2: 0.157, D3: 0.451, D4: 1.548, D2: 3.895},
	{A2: 0.153, D3: 0.459, D4: 1.541, D2: 3.931},
}

// FactorsFor returns the tabulated factors for subgroups of size n
func FactorsFor(n int) (Factors, error) {
	if n < MinSubgroupSize || n > MaxSubgroupSize {
		return Factors{}, inputErrorf("no control chart factors for subgroup size %d, supply them explicitly (table covers %d-%d)", n, MinSubgroupSize, MaxSubgroupSize)
	}
	return factorTable[n-MinSubgroupSize], nil
}

// Validate checks that the factors describe a usable chart
func (f Factors) Validate() error {
	switch {
	case undefined(f.A2) || undefined(f.D3) || undefined(f.D4) || undefined(f.D2):
		return inputErrorf("control chart factors must be finite, got %+v", f)
	case f.A2 <= 0:
		return inputErrorf("factor A2 must be positive, got %g", f.A2)
	case f.D2 <= 0:
		return inputErrorf("factor d2 must be positive, got %g", f.D2)
	case f.D3 < 0 || f.D3 > 1:
		return inputErrorf("factor D3 must be within [0, 1], got %g", f.D3)
	case f.D4 < 1:
		return inputErrorf("factor D4 must be at least 1, got %g", f.D4)
	}
	return nil
}
