package constants

import "strconv"

// Rule identifies one of the Western Electric zone rules
type Rule int

const (
	// Rule1 is a single point beyond the 3-sigma limits
	Rule1 Rule = iota + 1
	// Rule2 is 2 of 3 consecutive points beyond 2-sigma on the same side
	Rule2
	// Rule3 is 4 of 5 consecutive points beyond 1-sigma on the same side
	Rule3
	// Rule4 is 9 consecutive points on the same side of the center line
	Rule4
)

// Rules lists every rule in evaluation order
var Rules = []Rule{Rule1, Rule2, Rule3, Rule4}

func (r Rule) String() string {
	switch r {
	case Rule1, Rule2, Rule3, Rule4:
		return "Rule " + strconv.Itoa(int(r))
	default:
		return "Rule(" + strconv.Itoa(int(r)) + ")"
	}
}

// Side is the direction of a violation relative to the center line
type Side int

const (
	Above Side = iota + 1
	Below
)

func (s Side) String() string {
	switch s {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
}
