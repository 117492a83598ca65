package spc

import (
	"fmt"
	"io"
	"strconv"

	"github.com/BTBurke/spc/constants"
	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/stat"
	"github.com/go-logfmt/logfmt"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// WriteReport writes the result in the given format
func WriteReport(w io.Writer, r *Result, format string) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatLogfmt:
		return WriteLogfmt(w, r)
	case FormatProm:
		return WritePrometheus(w, r)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

// WriteText writes a human readable summary of the result
func WriteText(w io.Writer, r *Result) error {
	ew := &errWriter{w: w}
	if r.Source != "" {
		ew.printf("Source: %s\n", r.Source)
	}
	ew.printf("Subgroups: %d  Factors: A2=%g D3=%g D4=%g d2=%g\n", r.MeanChart.Series.Len(), r.Factors.A2, r.Factors.D3, r.Factors.D4, r.Factors.D2)
	ew.printf("X-bar chart: LCL=%.4f CL=%.4f UCL=%.4f\n", r.MeanChart.Limits.Lower, r.MeanChart.Limits.Center, r.MeanChart.Limits.Upper)
	ew.printf("R chart:     LCL=%.4f CL=%.4f UCL=%.4f\n", r.RangeChart.Limits.Lower, r.RangeChart.Limits.Center, r.RangeChart.Limits.Upper)

	if r.InControl {
		ew.printf("In control: yes\n")
	} else {
		ew.printf("In control: no\n")
		for _, c := range []stat.Chart{r.MeanChart, r.RangeChart} {
			for _, p := range c.OutOfControl {
				ew.printf("  %s sample %s (%.4f) is outside [%.4f, %.4f]\n", chartName(r, c), p.ID, p.Value, c.Limits.Lower, c.Limits.Upper)
			}
		}
	}

	ew.printf("Violations:\n")
	for _, d := range r.Descriptions() {
		ew.printf("  %s\n", d)
	}

	if c := r.Capability; c != nil {
		ew.printf("Capability: sigma_hat=%.6f Cp=%.4f Cpk=%.4f (Cpu=%.4f Cpl=%.4f)\n", c.SigmaHat, c.Cp, c.Cpk, c.Cpu, c.Cpl)
		ew.printf("Yield: P(%g <= X <= %g) = %.6f\n", c.Limits.Lower, c.Limits.Upper, c.Yield)
		for _, t := range c.Tails {
			ew.printf("Tail: P(X > %g) = %.6f\n", t.Threshold, t.Probability)
		}
	} else if r.CapabilityErr != nil {
		ew.printf("Capability: not estimated (%s)\n", r.CapabilityErr)
	}
	if rel := r.Reliability; rel != nil {
		ew.printf("Reliability: P(at least %d of %d good | +/-%g sigma, shift %g sigma) = %.6f (p_good=%.6f)\n",
			rel.MinGood, rel.Items, rel.HalfWidth, rel.Shift, rel.Probability, rel.PGood)
	}
	for _, warning := range r.Warnings {
		ew.printf("Warning: %s\n", warning)
	}
	return ew.err
}

// chartName is the chart's series name tagged with the result's source, e.g. xbar[source=a.json]
func chartName(r *Result, c stat.Chart) string {
	name := c.Series.Name()
	if r.Source != "" {
		name = name.With("source", r.Source)
	}
	return name.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteLogfmt writes the result as logfmt records, one per limit line set, plotted point,
// violation, capability figure and warning
func WriteLogfmt(w io.Writer, r *Result) error {
	enc := logfmt.NewEncoder(w)
	record := func(msg string, keyvals ...interface{}) error {
		kv := []interface{}{"msg", msg}
		if r.Source != "" {
			kv = append(kv, "source", r.Source)
		}
		if err := enc.EncodeKeyvals(append(kv, keyvals...)...); err != nil {
			return err
		}
		return enc.EndRecord()
	}

	for _, c := range []stat.Chart{r.MeanChart, r.RangeChart} {
		chart := c.Series.Name().Base()
		if err := record("limits", "chart", chart, "lcl", c.Limits.Lower, "cl", c.Limits.Center, "ucl", c.Limits.Upper); err != nil {
			return err
		}
		for i := 0; i < c.Series.Len(); i++ {
			id, v := c.Series.At(i)
			if err := record("point", "chart", chart, "sample", id, "index", i, "value", v, "in_limits", c.Limits.Contains(v)); err != nil {
				return err
			}
		}
	}
	for _, v := range r.Violations {
		if err := record("violation", "rule", int(v.Rule), "side", v.Side, "first", v.FirstID, "last", v.LastID, "description", v.String()); err != nil {
			return err
		}
	}
	if c := r.Capability; c != nil {
		if err := record("capability", "sigma_hat", c.SigmaHat, "cp", c.Cp, "cpk", c.Cpk, "cpu", c.Cpu, "cpl", c.Cpl, "yield", c.Yield); err != nil {
			return err
		}
		for _, t := range c.Tails {
			if err := record("tail", "threshold", t.Threshold, "probability", t.Probability); err != nil {
				return err
			}
		}
	} else if r.CapabilityErr != nil {
		if err := record("capability", "err", r.CapabilityErr.Error()); err != nil {
			return err
		}
	}
	if rel := r.Reliability; rel != nil {
		if err := record("reliability", "items", rel.Items, "min_good", rel.MinGood, "half_width", rel.HalfWidth, "shift", rel.Shift, "p_good", rel.PGood, "probability", rel.Probability); err != nil {
			return err
		}
	}
	for _, warning := range r.Warnings {
		if err := record("warning", "warning", string(warning)); err != nil {
			return err
		}
	}
	return record("summary", "in_control", r.InControl, "violations", len(r.Violations))
}

// WritePrometheus writes the result in the Prometheus text exposition format, suitable for
// the node exporter textfile collector or for rendering the charts externally
func WritePrometheus(w io.Writer, r *Result) error {
	return WritePrometheusAll(w, []*Result{r})
}

// WritePrometheusAll writes several results as one exposition.  Results are told apart by
// their source label, so each should have a distinct Source.
func WritePrometheusAll(w io.Writer, results []*Result) error {
	var merged []*dto.MetricFamily
	for _, r := range results {
		for i, mf := range metricFamilies(r) {
			if i == len(merged) {
				merged = append(merged, mf)
				continue
			}
			merged[i].Metric = append(merged[i].Metric, mf.Metric...)
		}
	}
	for _, mf := range merged {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func metricFamilies(r *Result) []*dto.MetricFamily {
	base := metric.NewName("spc", nil)
	if r.Source != "" {
		base = base.With("source", r.Source)
	}

	limits := gaugeFamily("spc_control_limit", "Center line and control limits of the X-bar and R charts.")
	points := gaugeFamily("spc_subgroup_statistic", "Plotted subgroup mean (xbar) or range (range).")
	outside := gaugeFamily("spc_out_of_control_points", "Number of points outside the control limits.")
	for _, c := range []stat.Chart{r.MeanChart, r.RangeChart} {
		chart := base.With("chart", c.Series.Name().Base())
		limits.Metric = append(limits.Metric,
			gauge(chart.With("line", "lower"), c.Limits.Lower),
			gauge(chart.With("line", "center"), c.Limits.Center),
			gauge(chart.With("line", "upper"), c.Limits.Upper),
		)
		for i := 0; i < c.Series.Len(); i++ {
			id, v := c.Series.At(i)
			points.Metric = append(points.Metric, gauge(chart.With("sample", id).With("index", strconv.Itoa(i)), v))
		}
		outside.Metric = append(outside.Metric, gauge(chart, float64(len(c.OutOfControl))))
	}

	inControl := gaugeFamily("spc_in_control", "1 when every point is within the control limits.")
	inControl.Metric = append(inControl.Metric, gauge(base, boolValue(r.InControl)))

	counts := map[constants.Rule]int{}
	for _, v := range r.Violations {
		counts[v.Rule]++
	}
	violations := gaugeFamily("spc_rule_violations", "Number of Western Electric rule violations.")
	for _, rule := range constants.Rules {
		violations.Metric = append(violations.Metric, gauge(base.With("rule", strconv.Itoa(int(rule))), float64(counts[rule])))
	}

	capability := gaugeFamily("spc_capability_index", "Process capability indices.")
	sigma := gaugeFamily("spc_sigma_hat", "Process standard deviation estimated from the mean range.")
	yield := gaugeFamily("spc_yield_probability", "Probability that a measurement is within the specification limits.")
	tails := gaugeFamily("spc_tail_probability", "Probability that a measurement exceeds the threshold.")
	if c := r.Capability; c != nil {
		capability.Metric = append(capability.Metric,
			gauge(base.With("index", "cp"), c.Cp),
			gauge(base.With("index", "cpk"), c.Cpk),
			gauge(base.With("index", "cpu"), c.Cpu),
			gauge(base.With("index", "cpl"), c.Cpl),
		)
		sigma.Metric = append(sigma.Metric, gauge(base, c.SigmaHat))
		yield.Metric = append(yield.Metric, gauge(base, c.Yield))
		for _, t := range c.Tails {
			tails.Metric = append(tails.Metric, gauge(base.With("threshold", strconv.FormatFloat(t.Threshold, 'g', -1, 64)), t.Probability))
		}
	}

	reliability := gaugeFamily("spc_reliability_probability", "Probability that at least min_good of items parts are good.")
	if rel := r.Reliability; rel != nil {
		name := base.With("items", strconv.Itoa(rel.Items)).With("min_good", strconv.Itoa(rel.MinGood))
		reliability.Metric = append(reliability.Metric, gauge(name, rel.Probability))
	}

	return []*dto.MetricFamily{limits, points, outside, inControl, violations, capability, sigma, yield, tails, reliability}
}

func gaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(name metric.Name, v float64) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(v)}}
	for _, l := range name.Labels() {
		m.Label = append(m.Label, &dto.LabelPair{Name: proto.String(l.Key), Value: proto.String(l.Value)})
	}
	return m
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
