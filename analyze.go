package spc

import (
	"fmt"

	"github.com/BTBurke/spc/pkg/stat"
)

// Result is the outcome of analyzing one set of subgroups
type Result struct {
	// Source names the input the subgroups were loaded from, if any
	Source  string
	Factors stat.Factors

	MeanChart  stat.Chart
	RangeChart stat.Chart
	GrandMean  float64
	MeanRange  float64

	// InControl is false when any point of either chart falls outside its limits
	InControl   bool
	Violations  []stat.Violation
	Capability  *stat.Capability
	// CapabilityErr is set instead of Capability when the data cannot support a capability
	// estimate, e.g. every subgroup range is zero.  The charts and violations are still valid.
	CapabilityErr error
	Reliability *stat.Reliability
	Warnings    []stat.Warning
}

// Descriptions renders the rule violations, or the no violations sentinel when none fired
func (r *Result) Descriptions() []string {
	return stat.Describe(r.Violations)
}

// Violated reports whether the process is out of control or any rule fired
func (r *Result) Violated() bool {
	return !r.InControl || len(r.Violations) > 0
}

// Analyze computes the X-bar and R charts of the subgroups, runs the Western Electric rules over
// the subgroup means and estimates process capability against the configured specification limits.
// Errors wrapping stat.InputError mean the data cannot be analyzed.  A capability failure on
// otherwise valid data does not fail the analysis; it is returned in Result.CapabilityErr.
func Analyze(subgroups []stat.Subgroup, cfg Config) (*Result, error) {
	log := cfg.Logger()
	if len(subgroups) == 0 {
		return nil, stat.InputError{Msg: "no subgroups to analyze"}
	}
	if err := subgroups[0].Validate(); err != nil {
		return nil, fmt.Errorf("subgroup 1: %w", err)
	}

	factors, err := cfg.Factors(len(subgroups[0].Values))
	if err != nil {
		return nil, fmt.Errorf("control chart factors: %w", err)
	}

	charts, err := stat.ControlLimits(subgroups, factors)
	if err != nil {
		return nil, fmt.Errorf("control limits: %w", err)
	}
	if n := cfg.SubgroupSize; n > 0 && n != len(subgroups[0].Values) {
		charts.Warnings = append(charts.Warnings, stat.WarnSizeOverride)
	}
	for _, w := range charts.Warnings {
		log.Warn(string(w), "subgroups", len(subgroups))
	}
	log.Debug("control limits",
		"subgroups", len(subgroups),
		"grand_mean", charts.GrandMean,
		"mean_range", charts.MeanRange,
		"xbar_lcl", charts.Mean.Limits.Lower,
		"xbar_ucl", charts.Mean.Limits.Upper,
		"range_lcl", charts.Range.Limits.Lower,
		"range_ucl", charts.Range.Limits.Upper,
		"out_of_control", len(charts.Mean.OutOfControl)+len(charts.Range.OutOfControl),
	)

	violations, err := stat.DetectViolations(charts.Mean.Series, charts.Mean.Limits.Center, charts.Mean.Limits.Upper)
	if err != nil {
		return nil, fmt.Errorf("rule violations: %w", err)
	}
	log.Debug("rule violations", "count", len(violations))

	res := &Result{
		Factors:    factors,
		MeanChart:  charts.Mean,
		RangeChart: charts.Range,
		GrandMean:  charts.GrandMean,
		MeanRange:  charts.MeanRange,
		InControl:  charts.InControl(),
		Violations: violations,
		Warnings:   charts.Warnings,
	}

	capability, err := capabilityOf(charts, factors, cfg)
	if err != nil {
		log.Warn("capability not estimated", "err", err)
		res.CapabilityErr = err
	} else {
		log.Debug("capability", "sigma_hat", capability.SigmaHat, "yield", capability.Yield, "cp", capability.Cp, "cpk", capability.Cpk)
		res.Capability = capability
	}

	if r := cfg.Reliability; r != nil {
		rel, err := stat.AnalyzeReliability(r.Items, r.MinGood, r.HalfWidth, r.Shift)
		if err != nil {
			return nil, fmt.Errorf("reliability: %w", err)
		}
		log.Debug("reliability", "items", rel.Items, "min_good", rel.MinGood, "p_good", rel.PGood, "probability", rel.Probability)
		res.Reliability = rel
	}
	return res, nil
}

func capabilityOf(charts *stat.ControlCharts, factors stat.Factors, cfg Config) (*stat.Capability, error) {
	sigma, err := stat.SigmaHat(charts.MeanRange, factors)
	if err != nil {
		return nil, fmt.Errorf("capability: %w", err)
	}
	c, err := stat.AnalyzeCapability(charts.GrandMean, sigma, cfg.Spec, cfg.Thresholds...)
	if err != nil {
		return nil, fmt.Errorf("capability: %w", err)
	}
	return c, nil
}
