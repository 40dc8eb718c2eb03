package lunar

// Official Vietnamese calendars before 1968 were computed for UTC+8,
// matching the Chinese calendar; since 1968-01-01 they use UTC+7.
// Every astronomical event is bucketed onto the civil day grid with
// the offset in force at the time, so month boundaries before the
// change reproduce the calendar actually in use then.
const (
	// CutoverJDN is the Julian day number of 1968-01-01, the first
	// civil day reckoned at UTC+7.
	CutoverJDN = 2439857

	// cutoverInstant is the Julian date of 1967-12-31 16:00 UT, the
	// midnight that began 1968-01-01 in the outgoing UTC+8 offset.
	cutoverInstant = 2439856.1666667
)

// OffsetForJDN returns the UTC offset, in hours, used to reckon the
// given civil day.
func OffsetForJDN(jdn int) float64 {
	if jdn < CutoverJDN {
		return 8.0
	}
	return 7.0
}

// offsetAt returns the UTC offset, in hours, in force at an
// astronomical instant.
func offsetAt(jd float64) float64 {
	if jd < cutoverInstant {
		return 8.0
	}
	return 7.0
}
