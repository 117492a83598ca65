package metric

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-logfmt/logfmt"
)

type metadata map[string]string

// Name identifies a chart series, such as xbar or range, with optional metadata
// describing where the samples came from.  Names are marshalled to a string using a modified logfmt,
// e.g. xbar[line=upper source=prova.json]
type Name struct {
	name string
	md   metadata
}

// Label is a single key=value metadata entry
type Label struct {
	Key   string
	Value string
}

// String marshals the name to a string representation, such as xbar[source=prova.json]
func (n Name) String() string {
	md, err := MarshalText(n.md)
	if err != nil {
		md = []byte{}
	}
	return n.name + string(md)
}

// Base returns the name without metadata
func (n Name) Base() string {
	return n.name
}

// NewName returns a new name with a copy of the associated metadata
func NewName(name string, md map[string]string) Name {
	copied := make(metadata, len(md))
	for k, v := range md {
		copied[k] = v
	}
	return Name{name: name, md: copied}
}

// With returns a copy of the name with the key set to value.  The receiver is not modified.
func (n Name) With(key, value string) Name {
	out := NewName(n.name, n.md)
	out.md[key] = value
	return out
}

// Labels returns the metadata in sorted key order
func (n Name) Labels() []Label {
	keys := make([]string, 0, len(n.md))
	for k := range n.md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Label, 0, len(keys))
	for _, k := range keys {
		out = append(out, Label{Key: k, Value: n.md[k]})
	}
	return out
}

// MarshalText will return the metadata encoded as a modified logfmt representation.  Metadata opens with a [
// followed by (key, value) pairs k=v in sorted key order and closes with a ].  Example: [chart=xbar line=upper]
func MarshalText(m metadata) ([]byte, error) {
	if len(m) == 0 {
		return []byte{}, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	b.WriteString("[")
	e := logfmt.NewEncoder(&b)
	for _, k := range keys {
		if err := e.EncodeKeyval(k, m[k]); err != nil {
			return nil, fmt.Errorf("failed to encode %s=%s: %v", k, m[k], err)
		}
	}
	b.WriteString("]")
	return b.Bytes(), nil
}
