package spc

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/BTBurke/spc/pkg/stat"
)

// Output formats understood by WriteReport
const (
	FormatText   = "text"
	FormatLogfmt = "logfmt"
	FormatProm   = "prom"
)

// Defaults for the reliability calculation: a +/- 3 sigma tolerance and a 1.5 sigma long term mean drift
const (
	DefaultHalfWidth = 3.0
	DefaultShift     = 1.5
)

// Config holds the settings of one analysis run
type Config struct {
	// SubgroupSize selects the control chart factors.  When zero the size of the first subgroup is used.
	SubgroupSize    int
	Spec            stat.SpecLimits
	Thresholds      []float64
	Reliability     *ReliabilityConfig
	Format          string
	FailOnViolation bool
	LogLevel        slog.Level

	factors  factorOverrides
	hasLower bool
	hasUpper bool
	logger   *slog.Logger
}

// ReliabilityConfig describes the question "what is the probability that at least MinGood of Items
// parts are within a +/- HalfWidth sigma tolerance when the mean has drifted by Shift sigma"
type ReliabilityConfig struct {
	Items     int
	MinGood   int
	HalfWidth float64
	Shift     float64
}

// factorOverrides replace individual entries of the tabulated factors
type factorOverrides struct {
	a2 *float64
	d3 *float64
	d4 *float64
	d2 *float64
}

func (f factorOverrides) complete() bool {
	return f.a2 != nil && f.d3 != nil && f.d4 != nil && f.d2 != nil
}

func (f factorOverrides) any() bool {
	return f.a2 != nil || f.d3 != nil || f.d4 != nil || f.d2 != nil
}

func (f factorOverrides) apply(base stat.Factors) stat.Factors {
	if f.a2 != nil {
		base.A2 = *f.a2
	}
	if f.d3 != nil {
		base.D3 = *f.d3
	}
	if f.d4 != nil {
		base.D4 = *f.d4
	}
	if f.d2 != nil {
		base.D2 = *f.d2
	}
	return base
}

type ConfigOption func(c *Config) error

// NewConfig applies the options and validates the result.  Every option error is returned, not just the first.
func NewConfig(options ...ConfigOption) (Config, []error) {
	c := Config{
		Format:   FormatText,
		LogLevel: slog.LevelInfo,
	}

	var errors []error
	for _, option := range options {
		if err := option(&c); err != nil {
			errors = append(errors, err)
		}
	}
	if !c.hasLower || !c.hasUpper {
		errors = append(errors, fmt.Errorf("both specification limits are required, use --lsl <value> --usl <value>"))
	} else if err := c.Spec.Validate(); err != nil {
		errors = append(errors, err)
	}
	if r := c.Reliability; r != nil {
		switch {
		case r.Items <= 0:
			errors = append(errors, fmt.Errorf("reliability-items must be positive when a reliability option is set"))
		case r.MinGood < 0 || r.MinGood > r.Items:
			errors = append(errors, fmt.Errorf("reliability-min-good must be within 0 and reliability-items (%d), got %d", r.Items, r.MinGood))
		}
	}

	if len(errors) > 0 {
		return Config{}, errors
	}
	return c, nil
}

// Factors returns the control chart factors for subgroups of the given size, with any explicit overrides applied
func (c Config) Factors(size int) (stat.Factors, error) {
	if c.SubgroupSize > 0 {
		size = c.SubgroupSize
	}
	var base stat.Factors
	if !c.factors.complete() {
		f, err := stat.FactorsFor(size)
		if err != nil {
			return stat.Factors{}, err
		}
		base = f
	}
	f := c.factors.apply(base)
	if err := f.Validate(); err != nil {
		return stat.Factors{}, err
	}
	return f, nil
}

// Logger returns the configured logger or the default logger at the time of the call
func (c Config) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func SubgroupSize(n string) ConfigOption {
	return func(c *Config) error {
		size, err := strconv.Atoi(n)
		if err != nil {
			return fmt.Errorf("could not convert subgroup-size to integer")
		}
		if size < stat.MinSubgroupSize {
			return fmt.Errorf("subgroup-size must be at least %d, got %d", stat.MinSubgroupSize, size)
		}
		c.SubgroupSize = size
		return nil
	}
}

func A2(value string) ConfigOption {
	return factorOption("a2", value, func(f *factorOverrides, v float64) { f.a2 = &v })
}

func D3(value string) ConfigOption {
	return factorOption("d3", value, func(f *factorOverrides, v float64) { f.d3 = &v })
}

func D4(value string) ConfigOption {
	return factorOption("d4", value, func(f *factorOverrides, v float64) { f.d4 = &v })
}

func D2(value string) ConfigOption {
	return factorOption("d2", value, func(f *factorOverrides, v float64) { f.d2 = &v })
}

func factorOption(name string, value string, set func(f *factorOverrides, v float64)) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat(name, value)
		if err != nil {
			return err
		}
		set(&c.factors, v)
		return nil
	}
}

// LowerSpec sets the lower specification limit
func LowerSpec(value string) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat("lsl", value)
		if err != nil {
			return err
		}
		c.Spec.Lower = v
		c.hasLower = true
		return nil
	}
}

// UpperSpec sets the upper specification limit
func UpperSpec(value string) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat("usl", value)
		if err != nil {
			return err
		}
		c.Spec.Upper = v
		c.hasUpper = true
		return nil
	}
}

// Threshold adds a value at which to report the probability of a measurement exceeding it
func Threshold(value string) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat("threshold", value)
		if err != nil {
			return err
		}
		c.Thresholds = append(c.Thresholds, v)
		return nil
	}
}

func ReliabilityItems(value string) ConfigOption {
	return func(c *Config) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("could not convert reliability-items to integer")
		}
		c.reliability().Items = n
		return nil
	}
}

func ReliabilityMinGood(value string) ConfigOption {
	return func(c *Config) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("could not convert reliability-min-good to integer")
		}
		c.reliability().MinGood = n
		return nil
	}
}

func ReliabilityHalfWidth(value string) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat("reliability-half-width", value)
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("reliability-half-width must be positive, got %s", value)
		}
		c.reliability().HalfWidth = v
		return nil
	}
}

func ReliabilityShift(value string) ConfigOption {
	return func(c *Config) error {
		v, err := parseFloat("reliability-shift", value)
		if err != nil {
			return err
		}
		c.reliability().Shift = v
		return nil
	}
}

func (c *Config) reliability() *ReliabilityConfig {
	if c.Reliability == nil {
		c.Reliability = &ReliabilityConfig{HalfWidth: DefaultHalfWidth, Shift: DefaultShift}
	}
	return c.Reliability
}

func Format(format string) ConfigOption {
	return func(c *Config) error {
		switch format {
		case FormatText, FormatLogfmt, FormatProm:
			c.Format = format
			return nil
		default:
			return fmt.Errorf("unknown format %s, use one of %s, %s, %s", format, FormatText, FormatLogfmt, FormatProm)
		}
	}
}

func FailOnViolation() ConfigOption {
	return func(c *Config) error {
		c.FailOnViolation = true
		return nil
	}
}

func LogLevel(level string) ConfigOption {
	return func(c *Config) error {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("unknown log level: %s", level)
		}
		c.LogLevel = l
		return nil
	}
}

// Logger sets the logger used by Analyze
func Logger(l *slog.Logger) ConfigOption {
	return func(c *Config) error {
		c.logger = l
		return nil
	}
}

func NoErrorReports() ConfigOption {
	return func(c *Config) error {
		SuppressErrorReporting = true
		return nil
	}
}

func parseFloat(name string, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %s", name, value)
	}
	return v, nil
}
