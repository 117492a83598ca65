package spc

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/BTBurke/spc/pkg/stat"
	"gopkg.in/yaml.v3"
)

// sampleRecord is one subgroup as stored on disk, e.g. {"sample": 1, "data": [4.93, 4.92, 4.94]}.
// Files exported by the older Portuguese tooling use Amostra and Dados for the same fields.
type sampleRecord struct {
	Sample  interface{} `yaml:"sample"`
	Data    []float64   `yaml:"data"`
	Amostra interface{} `yaml:"Amostra"`
	Dados   []float64   `yaml:"Dados"`
}

func (rec sampleRecord) id() interface{} {
	if rec.Sample != nil {
		return rec.Sample
	}
	return rec.Amostra
}

func (rec sampleRecord) values() []float64 {
	if rec.Data != nil {
		return rec.Data
	}
	return rec.Dados
}

// LoadSamples reads a JSON or YAML list of sample records.  Documents are decoded as YAML 1.2,
// which is a superset of JSON, so JSON escapes such as \/ are accepted.  Records without a sample
// identifier are labeled with their 1-based position.
func LoadSamples(r io.Reader) ([]stat.Subgroup, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = untab(data)

	var records []sampleRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, stat.InputError{Msg: fmt.Sprintf("could not parse samples: %s", err)}
	}
	if len(records) == 0 {
		return nil, stat.InputError{Msg: "no samples found"}
	}

	subgroups := make([]stat.Subgroup, 0, len(records))
	for i, rec := range records {
		id := strconv.Itoa(i + 1)
		if v := rec.id(); v != nil {
			id = fmt.Sprint(v)
		}
		subgroups = append(subgroups, stat.NewSubgroup(id, rec.values()...))
	}
	return subgroups, nil
}

// untab replaces tabs outside double quoted strings with spaces.  JSON allows tabs as
// indentation but YAML does not.
func untab(data []byte) []byte {
	out := make([]byte, 0, len(data))
	quoted, escaped := false, false
	for _, b := range data {
		switch {
		case escaped:
			escaped = false
		case quoted && b == '\\':
			escaped = true
		case b == '"':
			quoted = !quoted
		case b == '\t' && !quoted:
			out = append(out, ' ', ' ')
			continue
		}
		out = append(out, b)
	}
	return out
}

// LoadSamplesFile reads sample records from the file at path
func LoadSamplesFile(path string) ([]stat.Subgroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	subgroups, err := LoadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return subgroups, nil
}
