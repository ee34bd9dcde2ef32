package climate

import "errors"

// Fatal stage errors. Each one short-circuits the enclosing stage before any
// partial output is published; callers observe the previous (or absent)
// output unchanged.
var (
	// ErrMissingUpstream is returned when an input field is still absent
	// after one synchronous regeneration of the producing stage.
	ErrMissingUpstream = errors.New("climate: upstream field missing after regeneration")

	// ErrNoTerrain is returned when no elevation source is wired.
	ErrNoTerrain = errors.New("climate: terrain elevation source unavailable")

	// ErrResolutionMismatch is returned when two fields expected to align do
	// not share dimensions.
	ErrResolutionMismatch = errors.New("climate: field resolution mismatch")

	// ErrInvalidConfig is returned for degenerate configuration detected at
	// stage entry, before any buffer allocation.
	ErrInvalidConfig = errors.New("climate: invalid configuration")
)
