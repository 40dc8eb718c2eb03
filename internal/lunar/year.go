package lunar

import (
	"fmt"
	"math"

	"github.com/lichviet/amlich-api/internal/astro"
)

// BuildYear computes the lunar month table for one civil year.
//
// The table is anchored on winter solstice months: the month containing
// the December solstice is month 11 by rule, so the months of the civil
// year are laid out across the two solstice-to-solstice spans that
// touch it. A span of thirteen new moons holds a leap month, the first
// month after month 11 in which the sun crosses no major term boundary.
//
// Examples:
//   - BuildYear(2024) has 14 months and no leap month
//   - BuildYear(2023) has 14 months, one of them a leap month
//   - BuildYear(2200) returns an error, past the supported span
func BuildYear(civilYear int) (*Year, error) {
	if civilYear < astro.MinYear || civilYear > astro.MaxYear {
		return nil, fmt.Errorf("year %d: %w", civilYear, astro.ErrOutOfRange)
	}

	// The three solstice anchors bounding the two spans. Anchors one
	// year outside the supported range stay within series tolerance.
	_, prevK := month11(civilYear - 1)
	_, curK := month11(civilYear)
	_, nextK := month11(civilYear + 1)

	months := monthsInSpan(prevK, curK, civilYear-1)
	months = append(months, monthsInSpan(curK, nextK, civilYear)...)

	// Drop trailing months that begin after the civil year ends. The
	// last kept month still carries its real end day, so the table
	// covers every day through December 31.
	dec31 := astro.JDN(civilYear, 12, 31)
	n := len(months)
	for n > 0 && months[n-1].Start > dec31 {
		n--
	}

	return &Year{CivilYear: civilYear, Months: months[:n]}, nil
}

// monthsInSpan lays out the lunar months between two successive
// month-11 new moons. kFrom and kTo index the bounding new moons, and
// anchorYear is the lunar year that owns the opening month 11.
func monthsInSpan(kFrom, kTo, anchorYear int) []Month {
	count := kTo - kFrom
	days := make([]int, count+1)
	for i := range days {
		days[i] = newMoonDay(kFrom + i)
	}

	// Twelve lunar months fall about eleven days short of a solar
	// year, so a span longer than 365 days must hold thirteen months
	// and one of them is the leap month.
	leapIdx := -1
	if days[count]-days[0] > 365 {
		leapIdx = findLeapMonth(days)
	}

	months := make([]Month, count)
	for j := 0; j < count; j++ {
		ordinal := 11 + j
		leap := false
		if leapIdx > 0 && j >= leapIdx {
			ordinal--
			if j == leapIdx {
				leap = true
			}
		}
		if ordinal > 12 {
			ordinal -= 12
		}
		year := anchorYear
		if ordinal < 11 {
			year = anchorYear + 1
		}
		months[j] = Month{
			Ordinal:   ordinal,
			Leap:      leap,
			Start:     days[j],
			End:       days[j+1],
			LunarYear: year,
		}
	}
	return months
}

// findLeapMonth returns the index within days of the first month after
// the opening month 11 that contains no major solar term. A month is
// termless when the sun sits in the same 30-degree segment of the
// ecliptic at the start of the month and at the start of the next.
func findLeapMonth(days []int) int {
	last := astro.MajorTermIndex(days[1], OffsetForJDN(days[1]))
	for i := 2; i < len(days); i++ {
		arc := astro.MajorTermIndex(days[i], OffsetForJDN(days[i]))
		if arc == last {
			return i - 1
		}
		last = arc
	}
	return -1
}

// month11 locates the start of the lunar month containing the winter
// solstice of the given civil year. It returns the month's first civil
// day and the lunation index of its new moon.
//
// The last new moon on or before December 31 opens either month 11 or
// month 12: when the sun has already reached 270 degrees by the start
// of that day the solstice lies in the previous month, and the anchor
// steps back one lunation.
func month11(civilYear int) (int, int) {
	dec31 := astro.JDN(civilYear, 12, 31)
	k := astro.LunationIndex(float64(dec31))
	day := newMoonDay(k)
	if astro.MajorTermIndex(day, OffsetForJDN(day)) >= 9 {
		k--
		day = newMoonDay(k)
	}
	return day, k
}

// newMoonDay returns the civil day on which lunation k's new moon
// falls, bucketed with the UTC offset in force at the instant.
func newMoonDay(k int) int {
	jd := astro.NewMoon(k)
	return int(math.Floor(jd + 0.5 + offsetAt(jd)/24.0))
}
