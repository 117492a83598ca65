package metric

import (
	"fmt"
	"strconv"
)

// Series is an ordered sequence of values, one per sample, each tagged with the
// sample identifier it was computed from
type Series struct {
	name   Name
	ids    []string
	values []float64
}

type SeriesOption func(s *Series) error

// Values returns a copy of the values in sample order
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// IDs returns a copy of the sample identifiers in sample order
func (s *Series) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// At returns the sample identifier and value at index i
func (s *Series) At(i int) (string, float64) {
	return s.ids[i], s.values[i]
}

// Record appends a new value for the sample id.  An empty id is replaced with the
// 1-based position of the value in the series.
func (s *Series) Record(id string, v float64) {
	if id == "" {
		id = strconv.Itoa(len(s.values) + 1)
	}
	s.ids = append(s.ids, id)
	s.values = append(s.values, v)
}

// Len returns the number of values in the series
func (s *Series) Len() int {
	return len(s.values)
}

// Name returns the name of the series and associated metadata
func (s *Series) Name() Name {
	return s.name
}

// NewSeries creates a new empty series
func NewSeries(opts ...SeriesOption) (*Series, error) {
	s := &Series{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithName sets the name of the series
func WithName(name string, md map[string]string) SeriesOption {
	return func(s *Series) error {
		if name == "" {
			return fmt.Errorf("series name must be the non-empty string")
		}
		s.name = NewName(name, md)
		return nil
	}
}

// WithValues initializes a series from an existing set of values identified by position
func WithValues(values []float64) SeriesOption {
	return func(s *Series) error {
		for _, v := range values {
			s.Record("", v)
		}
		return nil
	}
}
