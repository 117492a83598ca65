package spc

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"
)

type options struct {
	options []ConfigOption
	err     error
}

// ParseCommandLine configures the analysis from command line options or from
// a YAML configuration file passed with the -c flag.  Returns the sample files to analyze
// and a slice of functional options that can be applied to the configuration.
func ParseCommandLine() ([]string, []ConfigOption, error) {
	pf := createFlagSet()
	return parse(os.Args[1:], pf)
}

func parse(args []string, pf *pflag.FlagSet) ([]string, []ConfigOption, error) {
	options := options{}
	if err := pf.ParseAll(args, parseFlag(&options)); err != nil {
		return pf.Args(), options.options, err
	}
	return pf.Args(), options.options, options.err
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("spc", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of spc:\nspc --lsl <value> --usl <value> <options> samples.json [more.yaml...]\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
		fmt.Printf("\nSample files are JSON or YAML lists of records like {\"sample\": 1, \"data\": [4.93, 4.92, 4.94, 4.93, 4.93]}\n")
	}

	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.Int("subgroup-size", 0, "Subgroup size used to select control chart factors.  Defaults to the size of the first subgroup.")
	pf.Float64("a2", 0, "Override the A2 factor for the X-bar chart limits")
	pf.Float64("d3", 0, "Override the D3 factor for the lower R chart limit")
	pf.Float64("d4", 0, "Override the D4 factor for the upper R chart limit")
	pf.Float64("d2", 0, "Override the d2 factor used to estimate sigma from the mean range")
	pf.Float64("lsl", 0, "Lower specification limit (required)")
	pf.Float64("usl", 0, "Upper specification limit (required)")
	pf.String("threshold", "", "Report the probability that a measurement exceeds this value.  Repeat for several thresholds.")
	pf.Int("reliability-items", 0, "Number of parts in the reliability calculation")
	pf.Int("reliability-min-good", 0, "Minimum number of good parts in the reliability calculation")
	pf.Float64("reliability-half-width", DefaultHalfWidth, "Tolerance half width in sigma for the reliability calculation")
	pf.Float64("reliability-shift", DefaultShift, "Mean drift in sigma for the reliability calculation")
	pf.StringP("format", "f", FormatText, "Output format: text, logfmt or prom")
	pf.Bool("fail-on-violation", false, "Exit with status 2 if any point is out of control or any rule is violated")
	pf.Bool("no-error-reports", false, "Do not send reports when there are unexpected errors")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")

	return pf
}

func parseFlag(o *options) func(*pflag.Flag, string) error {
	return func(flag *pflag.Flag, value string) error {
		switch flag.Name {
		case "config":
			opts, err := parseFromFile(value)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, opts...)
		default:
			option, err := handleOption(flag.Name, value)
			if err == nil {
				err = checkOption(option)
			}
			if err != nil {
				o.err = err
				return err
			}
			if option != nil {
				o.options = append(o.options, option)
			}
		}
		return nil
	}
}

// handleOption maps a flag or config key to its option.  A false boolean returns a nil option.
func handleOption(name string, value string) (ConfigOption, error) {
	switch name {
	case "subgroup-size":
		return SubgroupSize(value), nil
	case "a2":
		return A2(value), nil
	case "d3":
		return D3(value), nil
	case "d4":
		return D4(value), nil
	case "d2":
		return D2(value), nil
	case "lsl":
		return LowerSpec(value), nil
	case "usl":
		return UpperSpec(value), nil
	case "threshold":
		return Threshold(value), nil
	case "reliability-items":
		return ReliabilityItems(value), nil
	case "reliability-min-good":
		return ReliabilityMinGood(value), nil
	case "reliability-half-width":
		return ReliabilityHalfWidth(value), nil
	case "reliability-shift":
		return ReliabilityShift(value), nil
	case "format":
		return Format(value), nil
	case "log-level":
		return LogLevel(value), nil
	case "fail-on-violation", "no-error-reports":
		set, err := parseBool(name, value)
		if err != nil || !set {
			return nil, err
		}
		if name == "fail-on-violation" {
			return FailOnViolation(), nil
		}
		return NoErrorReports(), nil
	default:
		return nil, fmt.Errorf("Unknown option: %s", name)
	}
}

// checkOption applies the option to a scratch config so malformed values are rejected while parsing
func checkOption(opt ConfigOption) error {
	if opt == nil {
		return nil
	}
	var scratch Config
	return opt(&scratch)
}

func parseBool(name string, value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("could not convert %s to a boolean: %s", name, value)
	}
	return b, nil
}

func parseFromFile(fpath string) ([]ConfigOption, error) {
	var options []ConfigOption
	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return options, err
	}

	cfg := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return options, err
	}
	for k, v := range cfg {
		var value string
		switch v.(type) {
		case string:
			value = v.(string)
		case int:
			value = strconv.Itoa(v.(int))
		case float64:
			value = strconv.FormatFloat(v.(float64), 'g', -1, 64)
		case bool:
			value = strconv.FormatBool(v.(bool))
		// handles the case of a list of thresholds
		case []interface{}:
			alt := listFieldsYAML{}
			if err := yaml.Unmarshal(data, &alt); err != nil {
				return options, fmt.Errorf("Could not unmarshal config value for key: %s", k)
			}
			if k != "threshold" {
				return options, fmt.Errorf("Unknown option: %s", k)
			}
			for _, val := range alt.Threshold {
				opt, err := handleOption("threshold", strconv.FormatFloat(val, 'g', -1, 64))
				if err == nil {
					err = checkOption(opt)
				}
				if err != nil {
					return options, err
				}
				options = append(options, opt)
			}
			continue
		default:
			return options, fmt.Errorf("Could not process config key %s, unknown type", k)
		}

		opt, err := handleOption(k, value)
		if err == nil {
			err = checkOption(opt)
		}
		if err != nil {
			return options, err
		}
		if opt != nil {
			options = append(options, opt)
		}
	}
	return options, nil
}

type listFieldsYAML struct {
	Threshold []float64 `yaml:"threshold"`
}
