package astro

import "math"

// Time scale constants shared by the periodic series.
const (
	// epochJ2000 is the Julian Date of the J2000.0 epoch, 2000-01-01 12:00 TT.
	epochJ2000 = 2451545.0

	// julianCentury is the number of days in a Julian century.
	julianCentury = 36525.0

	// degToRad converts degrees to radians.
	degToRad = math.Pi / 180.0
)

// SunLongitude computes the apparent geocentric ecliptic longitude of the
// sun, in degrees, at the instant given as a fractional Julian Date.
//
// The computation evaluates the sun's mean anomaly and mean longitude as
// cubic polynomials in Julian centuries from J2000.0 and applies a
// three-harmonic equation of the center, which keeps the result within a
// few hundredths of a degree of the true value over the supported span.
// The result is normalized to [0, 360).
func SunLongitude(jd float64) float64 {
	t := (jd - epochJ2000) / julianCentury
	t2 := t * t

	// Mean anomaly of the sun, degrees.
	m := 357.52910 + 35999.05030*t - 0.0001559*t2 - 0.00000048*t*t2

	// Mean longitude of the sun, degrees.
	l0 := 280.46645 + 36000.76983*t + 0.0003032*t2

	// Equation of the center.
	dl := (1.914600 - 0.004817*t - 0.000014*t2) * math.Sin(degToRad*m)
	dl += (0.019993 - 0.000101*t) * math.Sin(degToRad*2*m)
	dl += 0.000290 * math.Sin(degToRad*3*m)

	return normalizeDegrees(l0 + dl)
}

// SunLongitudeAtDayStart computes the sun's ecliptic longitude at the local
// midnight that opens civil day jdn in a zone offset tz hours east of UTC.
//
// Civil day jdn begins at Julian Date jdn - 0.5 - tz/24, so this is the
// sample the calendar rules use when asking "which solar term decade is the
// sun in on the morning this lunar month begins".
func SunLongitudeAtDayStart(jdn int, tz float64) float64 {
	return SunLongitude(float64(jdn) - 0.5 - tz/24.0)
}

// MajorTermIndex returns the index 0-11 of the major solar term (Zhongqi)
// decade the sun occupies at the start of civil day jdn: index i covers
// longitudes [i*30, (i+1)*30). Index 9 begins at 270 degrees, the winter
// solstice, which anchors lunar month 11.
func MajorTermIndex(jdn int, tz float64) int {
	return int(SunLongitudeAtDayStart(jdn, tz) / 30.0)
}

// MajorTermDay locates the most recent civil day, at or before ref, during
// which the sun crossed into the major term termIndex. The day resolution
// matches the calendar rules: a crossing that lands exactly on a day
// boundary resolves to the earlier day.
//
// The scan walks backward from ref and always terminates within a tropical
// year, since the sun revisits every term annually.
func MajorTermDay(termIndex, ref int, tz float64) int {
	for d := ref; d >= ref-370; d-- {
		if MajorTermIndex(d, tz) != termIndex && MajorTermIndex(d+1, tz) == termIndex {
			return d
		}
	}
	return ref - 370
}

// normalizeDegrees reduces an angle to [0, 360). The polynomial terms grow
// to hundreds of thousands of degrees, and they go negative before the
// J2000 epoch, so a plain remainder is not enough.
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
