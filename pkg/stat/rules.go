package stat

import (
	"fmt"
	"sort"

	"github.com/BTBurke/spc/constants"
	"github.com/BTBurke/spc/pkg/metric"
)

// NoViolations is the description returned by Describe when no rule fired
const NoViolations = "No Western Electric rule (1-4) violations detected."

// Violation is one occurrence of a rule firing.  First and Last are the indices of the first
// and last sample of the window that triggered it (equal for rule 1), and Value is the
// triggering value for rule 1 and zero for the window rules.  Violations are comparable
// and two violations with identical fields describe the same event.
type Violation struct {
	Rule    constants.Rule
	Side    constants.Side
	First   int
	Last    int
	FirstID string
	LastID  string
	Value   float64
}

// window describes a "need of width consecutive points beyond the k-sigma edge" rule
type window struct {
	rule  constants.Rule
	width int
	need  int
	k     int
}

var (
	rule2 = window{rule: constants.Rule2, width: 3, need: 2, k: 2}
	rule3 = window{rule: constants.Rule3, width: 5, need: 4, k: 1}
	rule4 = window{rule: constants.Rule4, width: 9, need: 9, k: 0}
)

// String renders the violation as a human readable sentence
func (v Violation) String() string {
	switch v.Rule {
	case constants.Rule1:
		limit := "upper"
		if v.Side == constants.Below {
			limit = "lower"
		}
		return fmt.Sprintf("%s: sample %s (%.4f) is beyond the %s 3-sigma limit.", v.Rule, v.FirstID, v.Value, limit)
	case constants.Rule2:
		return fmt.Sprintf("%s: %d of %d points (samples %s to %s) are %s %s2 sigma.", v.Rule, rule2.need, rule2.width, v.FirstID, v.LastID, v.Side, sign(v.Side))
	case constants.Rule3:
		return fmt.Sprintf("%s: %d of %d points (samples %s to %s) are %s %s1 sigma.", v.Rule, rule3.need, rule3.width, v.FirstID, v.LastID, v.Side, sign(v.Side))
	case constants.Rule4:
		return fmt.Sprintf("%s: %d consecutive points (samples %s to %s) are %s the center line.", v.Rule, rule4.width, v.FirstID, v.LastID, v.Side)
	default:
		return fmt.Sprintf("%s: samples %s to %s %s", v.Rule, v.FirstID, v.LastID, v.Side)
	}
}

func sign(s constants.Side) string {
	if s == constants.Below {
		return "-"
	}
	return "+"
}

// Rule1 finds every point strictly outside the 3-sigma limits
func Rule1(s *metric.Series, z Zones) []Violation {
	var out []Violation
	for i := 0; i < s.Len(); i++ {
		id, v := s.At(i)
		for _, side := range []constants.Side{constants.Above, constants.Below} {
			if z.Beyond(v, side, 3) {
				out = append(out, Violation{
					Rule:    constants.Rule1,
					Side:    side,
					First:   i,
					Last:    i,
					FirstID: id,
					LastID:  id,
					Value:   v,
				})
			}
		}
	}
	return out
}

// Rule2 finds every window of 3 consecutive points in which at least 2 lie beyond the same-side 2-sigma edge
func Rule2(s *metric.Series, z Zones) []Violation {
	return scan(s, z, rule2)
}

// Rule3 finds every window of 5 consecutive points in which at least 4 lie beyond the same-side 1-sigma edge
func Rule3(s *metric.Series, z Zones) []Violation {
	return scan(s, z, rule3)
}

// Rule4 finds every window of 9 consecutive points strictly on one side of the center line.
// A point exactly on the center line belongs to neither side.
func Rule4(s *metric.Series, z Zones) []Violation {
	return scan(s, z, rule4)
}

// scan slides a window of w.width points one sample at a time and records a violation for
// each side on which at least w.need points are beyond the k-sigma edge.  Overlapping windows
// fire independently.
func scan(s *metric.Series, z Zones, w window) []Violation {
	var out []Violation
	values := s.Values()
	ids := s.IDs()
	for start := 0; start+w.width <= len(values); start++ {
		end := start + w.width - 1
		for _, side := range []constants.Side{constants.Above, constants.Below} {
			count := 0
			for _, v := range values[start : end+1] {
				if z.Beyond(v, side, w.k) {
					count++
				}
			}
			if count >= w.need {
				out = append(out, Violation{
					Rule:    w.rule,
					Side:    side,
					First:   start,
					Last:    end,
					FirstID: ids[start],
					LastID:  ids[end],
				})
			}
		}
	}
	return out
}

// DetectViolations evaluates all four rules over the series using zones derived from the center line
// and upper control limit.  The result is free of duplicates and sorted by description so repeated
// runs over the same data return the same list.
func DetectViolations(s *metric.Series, center, upper float64) ([]Violation, error) {
	if undefined(center) || undefined(upper) {
		return nil, inputErrorf("center line and upper limit must be finite, got center=%g upper=%g", center, upper)
	}
	if upper < center {
		return nil, inputErrorf("upper control limit %g is below the center line %g", upper, center)
	}
	z := NewZones(center, upper)

	seen := make(map[Violation]struct{})
	var out []Violation
	for _, rule := range []func(*metric.Series, Zones) []Violation{Rule1, Rule2, Rule3, Rule4} {
		for _, v := range rule(s, z) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sortViolations(out)
	return out, nil
}

func sortViolations(vs []Violation) {
	desc := make(map[Violation]string, len(vs))
	for _, v := range vs {
		desc[v] = v.String()
	}
	sort.SliceStable(vs, func(i, j int) bool {
		di, dj := desc[vs[i]], desc[vs[j]]
		if di != dj {
			return di < dj
		}
		return vs[i].First < vs[j].First
	})
}

// Describe renders violations as sentences.  An empty list is described by the single NoViolations sentence.
func Describe(vs []Violation) []string {
	if len(vs) == 0 {
		return []string{NoViolations}
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}
