package stat

import "fmt"

// InputError is returned when the data or parameters passed to an analysis would
// make every derived number meaningless, such as an empty subgroup or a non-positive sigma
type InputError struct {
	Msg string
}

func (e InputError) Error() string {
	return e.Msg
}

func inputErrorf(format string, args ...interface{}) error {
	return InputError{Msg: fmt.Sprintf(format, args...)}
}

// Warning describes unusual but valid data.  Analysis proceeds and the warning is
// returned alongside the result.
type Warning string

const (
	// WarnZeroRange is raised when every subgroup has zero range, so sigma is zero and
	// all zones collapse to the center line
	WarnZeroRange Warning = "zero range across all subgroups, sigma zones collapse to the center line"
	// WarnMixedSizes is raised when subgroups differ in size and a single factor table entry is applied to all of them
	WarnMixedSizes Warning = "subgroups differ in size, control chart factors apply to one size only"
	// WarnSizeOverride is raised when the configured subgroup size differs from the size of the
	// subgroups, so the factors do not match the data
	WarnSizeOverride Warning = "configured subgroup size differs from the sample size, control chart factors do not match the data"
)
