// Package lunar implements the Vietnamese lunisolar calendar.
//
// Calendar months begin on the civil day of an astronomical new moon,
// reckoned in the Vietnamese civil timezone. The month containing the
// winter solstice is always month 11, and in years where thirteen new
// moons fall between successive solstice months, the first month after
// month 11 that contains no major solar term repeats the ordinal of the
// month before it as a leap month.
package lunar

import "fmt"

// Date is a date in the Vietnamese lunisolar calendar.
type Date struct {
	Day   int
	Month int
	Year  int
	Leap  bool
}

// String formats the date as day/month/year, with an "n" suffix on the
// month ordinal when it is a leap month (thang nhuan).
//
// Examples:
//   - {17, 4, 2024, false} -> "17/4/2024"
//   - {10, 1, 2023, true}  -> "10/1n/2023"
func (d Date) String() string {
	if d.Leap {
		return fmt.Sprintf("%d/%dn/%d", d.Day, d.Month, d.Year)
	}
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

// Month is one lunar month laid out on the civil day grid.
//
// Start is the Julian day number of the month's first civil day and End
// is the Julian day number of the first day of the following month, so
// a day number j belongs to the month when Start <= j < End.
type Month struct {
	Ordinal   int
	Leap      bool
	Start     int
	End       int
	LunarYear int
}

// Days returns the length of the month in days, always 29 or 30.
func (m Month) Days() int {
	return m.End - m.Start
}

// Year is the lunar month table for one civil year. Months holds every
// lunar month that begins during the civil year, plus the one or two
// months carried in from the end of the previous civil year, ordered by
// Start. Together they cover every civil day of the year.
type Year struct {
	CivilYear int
	Months    []Month
}

// LeapMonth returns the leap month the table holds, or nil when it has
// none. The leap month can belong to the previous lunar year: a leap
// month 11 begins in late December and is carried into the next civil
// year's table as well.
func (y *Year) LeapMonth() *Month {
	for i := range y.Months {
		if y.Months[i].Leap {
			return &y.Months[i]
		}
	}
	return nil
}

// Tet returns the Julian day number of the lunar new year that falls in
// the civil year, the first day of month 1.
func (y *Year) Tet() (int, bool) {
	for i := range y.Months {
		m := y.Months[i]
		if m.Ordinal == 1 && !m.Leap && m.LunarYear == y.CivilYear {
			return m.Start, true
		}
	}
	return 0, false
}
