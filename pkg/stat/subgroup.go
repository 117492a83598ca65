package stat

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Subgroup is a rational subgroup of measurements taken together, tagged with the
// identifier of the sample it belongs to
type Subgroup struct {
	ID     string
	Values []float64
}

// NewSubgroup returns a subgroup holding a copy of values
func NewSubgroup(id string, values ...float64) Subgroup {
	v := make([]float64, len(values))
	copy(v, values)
	return Subgroup{ID: id, Values: v}
}

// Validate returns an InputError if the subgroup is empty or contains a value that is not finite
func (s Subgroup) Validate() error {
	if len(s.Values) == 0 {
		return inputErrorf("subgroup %s is empty", s.label())
	}
	for i, v := range s.Values {
		if undefined(v) {
			return inputErrorf("subgroup %s value %d is not a finite number", s.label(), i+1)
		}
	}
	return nil
}

// Mean returns the arithmetic mean of the subgroup
func (s Subgroup) Mean() (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return stats.Mean(s.Values)
}

// Range returns the difference between the largest and smallest value in the subgroup
func (s Subgroup) Range() (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	max, err := stats.Max(s.Values)
	if err != nil {
		return 0, err
	}
	min, err := stats.Min(s.Values)
	if err != nil {
		return 0, err
	}
	return max - min, nil
}

func (s Subgroup) label() string {
	if s.ID == "" {
		return "(unlabeled)"
	}
	return s.ID
}

func undefined(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
