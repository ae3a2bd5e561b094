// Package sentinel defines the error values shared across shellbench.
//
// These errors can be checked using errors.Is() after any amount of wrapping:
//
//	if errors.Is(err, sentinel.ErrEmptyResults) {
//	    // nothing was measured
//	}
//
// All errors are created with ewrap so callers can attach context with
// ewrap.Wrap or ewrap.Wrapf without losing the sentinel identity.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrInvalidGapSequence is returned when a gap sequence specification is
	// neither a known name nor a comma-separated list of non-negative integers.
	ErrInvalidGapSequence = ewrap.New("invalid gap sequence")

	// ErrInvalidProbability is returned when a shuffle probability lies outside [0, 1].
	ErrInvalidProbability = ewrap.New("shuffle probability must be within [0, 1]")

	// ErrEmptyResults is returned when statistics are requested over zero trials.
	ErrEmptyResults = ewrap.New("no results to report")

	// ErrInvalidLength is returned when an array length is negative.
	ErrInvalidLength = ewrap.New("length cannot be negative")

	// ErrInvalidRounds is returned when a round count is negative.
	ErrInvalidRounds = ewrap.New("rounds cannot be negative")

	// ErrUnsortedGaps is returned by validation when a custom gap list is not strictly ascending.
	ErrUnsortedGaps = ewrap.New("gaps are not strictly ascending")

	// ErrZeroGap is returned by validation when a custom gap list contains 0.
	ErrZeroGap = ewrap.New("gap list contains 0")

	// ErrMissingUnitGap is returned by validation when a custom gap list does not
	// start with a gap of 1, so the final pass is not a plain insertion sort.
	ErrMissingUnitGap = ewrap.New("gap list does not include a final pass of 1")

	// ErrUnknownFormat is returned when an output or plan format is not supported.
	ErrUnknownFormat = ewrap.New("unknown format")

	// ErrFingerprintMismatch is returned when a re-run does not reproduce a recorded report.
	ErrFingerprintMismatch = ewrap.New("fingerprint mismatch")

	// ErrIncompatibleReport is returned when a recorded report was produced by an
	// incompatible major version.
	ErrIncompatibleReport = ewrap.New("incompatible report version")
)
