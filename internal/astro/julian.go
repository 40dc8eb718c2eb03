package astro

import "fmt"

// GregorianToJDN converts a Gregorian calendar date to its Julian day
// number after validating it. The Julian day number counts whole civil
// days, with 2000-01-01 mapping to 2451545.
//
// Dates that do not exist on the Gregorian calendar return
// ErrInvalidDate. Dates outside the supported year span return
// ErrOutOfRange.
//
// Examples:
//   - GregorianToJDN(2000, 1, 1) = 2451545
//   - GregorianToJDN(1968, 1, 1) = 2439857
//   - GregorianToJDN(2023, 4, 31) returns ErrInvalidDate
func GregorianToJDN(year, month, day int) (int, error) {
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		return 0, fmt.Errorf("%04d-%02d-%02d: %w", year, month, day, ErrInvalidDate)
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("year %d not in [%d, %d]: %w", year, MinYear, MaxYear, ErrOutOfRange)
	}
	return JDN(year, month, day), nil
}

// JDN converts a Gregorian calendar date to its Julian day number
// without validation. The integer arithmetic is exact for any date,
// including dates outside the supported year span; callers that accept
// external input should use GregorianToJDN instead.
func JDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// JDNToGregorian converts a Julian day number back to its Gregorian
// calendar date.
func JDNToGregorian(jdn int) (year, month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day = e - (153*m+2)/5 + 1
	month = m + 3 - 12*(m/10)
	year = 100*b + d - 4800 + m/10
	return year, month, day
}

// IsLeapYear reports whether the Gregorian year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the
// given Gregorian year, or 0 when the month is out of range.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}
