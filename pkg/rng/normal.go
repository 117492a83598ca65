package rng

import (
	"math/rand"
	"strconv"

	"github.com/BTBurke/spc/pkg/stat"
)

var _ RNG = &NormalRNG{}

// NormalRNG generates normally distributed random numbers
type NormalRNG struct {
	mean  float64
	stdev float64
	r     *rand.Rand
}

func (r *NormalRNG) Rand() float64 {
	return r.r.NormFloat64()*r.stdev + r.mean
}

// NewSeededNormalRNG returns a generator that produces the same sequence for the same seed
func NewSeededNormalRNG(mean float64, stdev float64, seed int64) *NormalRNG {
	return &NormalRNG{
		mean:  mean,
		stdev: stdev,
		r:     rand.New(rand.NewSource(seed)),
	}
}

// Subgroups draws count subgroups of size values each from r, identified by their 1-based position
func Subgroups(r RNG, count int, size int) []stat.Subgroup {
	out := make([]stat.Subgroup, 0, count)
	for i := 0; i < count; i++ {
		values := make([]float64, size)
		for j := range values {
			values[j] = r.Rand()
		}
		out = append(out, stat.Subgroup{ID: strconv.Itoa(i + 1), Values: values})
	}
	return out
}
