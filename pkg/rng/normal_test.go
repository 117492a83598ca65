package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalRNG(t *testing.T) {
	r := NewSeededNormalRNG(5.0, 1.0, 7)
	val := make([]float64, 10000)
	for i := 0; i < 10000; i++ {
		val[i] = r.Rand()
	}

	sum := 0.0
	for _, v := range val {
		sum += v
	}
	mean := sum / float64(10000)
	assert.InDelta(t, 5.0, mean, 0.05)

	variance := 0.0
	for _, v := range val {
		variance += math.Pow(v-mean, 2.0)
	}
	variance = variance / float64(10000-1)
	assert.InDelta(t, 1.0, math.Sqrt(variance), 0.05)
}

func TestSeededIsRepeatable(t *testing.T) {
	a := NewSeededNormalRNG(0, 1, 42)
	b := NewSeededNormalRNG(0, 1, 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Rand(), b.Rand())
	}
}

func TestSubgroups(t *testing.T) {
	sg := Subgroups(NewSeededNormalRNG(10, 2, 1), 4, 5)
	assert.Len(t, sg, 4)
	for i, s := range sg {
		assert.Len(t, s.Values, 5)
		assert.NoError(t, s.Validate())
		assert.Equal(t, []string{"1", "2", "3", "4"}[i], s.ID)
	}
}
