// Package astro provides the astronomical primitives behind the Vietnamese
// lunisolar calendar: Julian Day Number conversions, new moon instants, and
// the apparent ecliptic longitude of the sun.
//
// The new moon and sun longitude functions evaluate truncated periodic
// series (the AA98 approximations, after Meeus, Astronomical Algorithms,
// 1998). The coefficients encode a physical approximation that is accurate
// to a few minutes of time over a bounded span of years, which is why the
// package enforces MinYear and MaxYear on calendar input: outside that span
// a result would look plausible without being validated.
//
// Everything in this package is pure. Two calls with equal arguments return
// equal results, and no function performs I/O or holds state.
package astro

import "errors"

// Supported span of Gregorian years. The truncated series drift as the
// evaluation time moves away from their reference epochs, so input outside
// this span is rejected with ErrOutOfRange instead of silently converted.
const (
	MinYear = 1200
	MaxYear = 2199
)

var (
	// ErrInvalidDate reports a year/month/day triple that does not name a
	// real proleptic Gregorian calendar date, such as April 31.
	ErrInvalidDate = errors.New("invalid gregorian date")

	// ErrOutOfRange reports a syntactically valid date whose year falls
	// outside the span the astronomical series are validated for.
	ErrOutOfRange = errors.New("year outside supported range")
)
