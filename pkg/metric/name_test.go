package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameMarshal(t *testing.T) {
	tt := []struct {
		name string
		n    string
		md   map[string]string
		exp  string
	}{
		{name: "no metadata", n: "xbar", exp: "xbar"},
		{name: "metadata", n: "xbar", md: map[string]string{"source": "a.json", "line": "upper"}, exp: "xbar[line=upper source=a.json]"},
		{name: "metadata spaces", n: "range", md: map[string]string{"source": "my samples.json"}, exp: "range[source=\"my samples.json\"]"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			n := NewName(tc.n, tc.md)
			assert.Equal(t, tc.exp, n.String())
		})
	}
}

func TestWithDoesNotModify(t *testing.T) {
	n := NewName("xbar", map[string]string{"a": "b"})
	m := n.With("c", "d")
	assert.Equal(t, "xbar[a=b]", n.String())
	assert.Equal(t, "xbar[a=b c=d]", m.String())
	assert.Equal(t, "xbar", m.Base())
}

func TestLabels(t *testing.T) {
	n := NewName("xbar", map[string]string{"z": "1", "a": "2"})
	assert.Equal(t, []Label{{Key: "a", Value: "2"}, {Key: "z", Value: "1"}}, n.Labels())
}
