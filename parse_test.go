package spc

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/go-yaml/yaml"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	tt := []struct {
		Name     string
		Cmdline  string
		Expected []ConfigOption
		Files    []string
		Error    bool
	}{
		{Name: "subgroup-size", Cmdline: "--subgroup-size 4", Expected: []ConfigOption{SubgroupSize("4")}},
		{Name: "factors", Cmdline: "--a2 0.5 --d3 0 --d4 2 --d2 2.3", Expected: []ConfigOption{A2("0.5"), D3("0"), D4("2"), D2("2.3")}},
		{Name: "spec limits", Cmdline: "--lsl 4.92 --usl 4.94", Expected: []ConfigOption{LowerSpec("4.92"), UpperSpec("4.94")}},
		{Name: "threshold", Cmdline: "--threshold 4.952", Expected: []ConfigOption{Threshold("4.952")}},
		{Name: "multiple thresholds", Cmdline: "--threshold 1 --threshold 2", Expected: []ConfigOption{Threshold("1"), Threshold("2")}},
		{Name: "reliability", Cmdline: "--reliability-items 10 --reliability-min-good 8", Expected: []ConfigOption{ReliabilityItems("10"), ReliabilityMinGood("8")}},
		{Name: "reliability tolerance", Cmdline: "--reliability-half-width 4 --reliability-shift 1", Expected: []ConfigOption{ReliabilityHalfWidth("4"), ReliabilityShift("1")}},
		{Name: "format", Cmdline: "-f prom", Expected: []ConfigOption{Format("prom")}},
		{Name: "fail-on-violation", Cmdline: "--fail-on-violation", Expected: []ConfigOption{FailOnViolation()}},
		{Name: "log-level", Cmdline: "--log-level debug", Expected: []ConfigOption{LogLevel("debug")}},
		{Name: "files", Cmdline: "--lsl 1 a.json b.yaml", Expected: []ConfigOption{LowerSpec("1")}, Files: []string{"a.json", "b.yaml"}},
		{Name: "error on unknown flag", Cmdline: "--does-not-exist", Error: true},
		{Name: "error on bad number", Cmdline: "--lsl abc", Error: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			pf := createFlagSet()
			files, options, err := parse(strings.Split(tc.Cmdline, " "), pf)
			if tc.Error {
				assert.Error(t, err)
			} else {
				expected, received := createComparisonConfigs(tc.Expected, options)
				assert.Equal(t, expected, received)
				assert.NoError(t, err)
				if tc.Files != nil {
					assert.Equal(t, tc.Files, files)
				}
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	tt := []struct {
		Name     string
		Yaml     map[string]interface{}
		Expected []ConfigOption
		Error    bool
	}{
		{Name: "subgroup-size", Yaml: map[string]interface{}{"subgroup-size": 5}, Expected: []ConfigOption{SubgroupSize("5")}},
		{Name: "spec limits", Yaml: map[string]interface{}{"lsl": 4.92, "usl": 4.94}, Expected: []ConfigOption{LowerSpec("4.92"), UpperSpec("4.94")}},
		{Name: "integer spec limits", Yaml: map[string]interface{}{"lsl": 4, "usl": 6}, Expected: []ConfigOption{LowerSpec("4"), UpperSpec("6")}},
		{Name: "factors", Yaml: map[string]interface{}{"a2": 0.577, "d2": 2.326}, Expected: []ConfigOption{A2("0.577"), D2("2.326")}},
		{Name: "threshold", Yaml: map[string]interface{}{"threshold": 4.952}, Expected: []ConfigOption{Threshold("4.952")}},
		{Name: "threshold list", Yaml: map[string]interface{}{"threshold": []float64{4.95, 4.96}}, Expected: []ConfigOption{Threshold("4.95"), Threshold("4.96")}},
		{Name: "reliability", Yaml: map[string]interface{}{"reliability-items": 10, "reliability-min-good": 8}, Expected: []ConfigOption{ReliabilityItems("10"), ReliabilityMinGood("8")}},
		{Name: "format", Yaml: map[string]interface{}{"format": "logfmt"}, Expected: []ConfigOption{Format("logfmt")}},
		{Name: "fail-on-violation", Yaml: map[string]interface{}{"fail-on-violation": true}, Expected: []ConfigOption{FailOnViolation()}},
		{Name: "fail-on-violation false", Yaml: map[string]interface{}{"fail-on-violation": false}, Expected: []ConfigOption{}},
		{Name: "error on unknown key", Yaml: map[string]interface{}{"does-not-exist": "test"}, Error: true},
		{Name: "error on unknown list", Yaml: map[string]interface{}{"lsl": []string{"a", "b"}}, Error: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			f, err := ioutil.TempFile("", "spccfg")
			if err != nil {
				t.Fatalf("unexpected error creating temp config file: %s", err)
			}
			defer os.Remove(f.Name())

			y, err := yaml.Marshal(tc.Yaml)
			if err != nil {
				t.Fatalf("unexpected error marshaling YAML: %s", err)
			}
			if _, err := f.Write(y); err != nil {
				t.Fatalf("unexpected error writing to file: %s", err)
			}
			if err := f.Close(); err != nil {
				t.Fatalf("unexpected error closing file: %s", err)
			}

			pf := createFlagSet()
			_, options, err := parse([]string{"-c", f.Name()}, pf)
			if tc.Error {
				assert.Error(t, err)
			} else {
				expected, received := createComparisonConfigs(tc.Expected, options)
				assert.Equal(t, expected, received)
				assert.NoError(t, err)
			}
		})
	}
}

func createComparisonConfigs(expected []ConfigOption, received []ConfigOption) (Config, Config) {
	expectedConfig := Config{}
	for _, eo := range expected {
		eo(&expectedConfig)
	}
	receivedConfig := Config{}
	for _, to := range received {
		to(&receivedConfig)
	}
	return expectedConfig, receivedConfig
}
