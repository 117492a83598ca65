package stat

import "github.com/BTBurke/spc/constants"

// Zones partitions a chart into bands one sigma wide on each side of the center line.
// The C edges are at 1 sigma, the B edges at 2 sigma and the A edges at 3 sigma, which are
// the control limits themselves.
type Zones struct {
	Center float64
	Sigma  float64

	UpperC float64
	UpperB float64
	UpperA float64
	LowerC float64
	LowerB float64
	LowerA float64
}

// NewZones derives the zone edges from a chart's center line and upper control limit.  The lower
// limit is taken to be symmetric.  When upper equals center every edge collapses to the center line.
func NewZones(center, upper float64) Zones {
	sigma := (upper - center) / 3.0
	return Zones{
		Center: center,
		Sigma:  sigma,
		UpperC: center + sigma,
		UpperB: center + 2*sigma,
		UpperA: upper,
		LowerC: center - sigma,
		LowerB: center - 2*sigma,
		LowerA: center - (upper - center),
	}
}

// Edge returns the boundary k sigma from the center line on the given side.  k = 0 is the center line.
func (z Zones) Edge(side constants.Side, k int) float64 {
	switch {
	case k <= 0:
		return z.Center
	case k == 1 && side == constants.Above:
		return z.UpperC
	case k == 2 && side == constants.Above:
		return z.UpperB
	case k >= 3 && side == constants.Above:
		return z.UpperA
	case k == 1:
		return z.LowerC
	case k == 2:
		return z.LowerB
	default:
		return z.LowerA
	}
}

// Beyond reports whether v lies strictly past the k-sigma edge on the given side
func (z Zones) Beyond(v float64, side constants.Side, k int) bool {
	edge := z.Edge(side, k)
	if side == constants.Below {
		return v < edge
	}
	return v > edge
}
