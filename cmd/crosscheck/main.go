// Command crosscheck audits the lunar tables against independent
// implementations.
//
// Phase 1 checks structural invariants on every year table in the
// range: month lengths, contiguity, leap counts, Tết bounds, and full
// coverage of the civil year.
//
// Phase 2 locates the December solstice with the Meeus series from
// learnmeeus and verifies it falls in the month numbered 11.
//
// Phase 3 sweeps every civil day: conversions must be total, lunar
// days must advance one at a time, and every date must round-trip.
//
// With -diff-cn the sweep also compares each day against the Chinese
// calendar, which runs on Beijing time rather than Hanoi time. A
// handful of divergent days per decade is expected; they are reported,
// never fatal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"

	"github.com/lichviet/amlich-api/internal/astro"
	"github.com/lichviet/amlich-api/internal/lunar"
)

// Failure records a single broken invariant.
type Failure struct {
	Year   int
	Kind   string
	Detail string
}

func main() {
	startYear := flag.Int("start", 1900, "First civil year to audit")
	endYear := flag.Int("end", 2100, "Last civil year to audit")
	diffCN := flag.Bool("diff-cn", false, "Compare every day against the Chinese calendar")
	flag.Parse()

	if *startYear < astro.MinYear || *endYear > astro.MaxYear || *startYear > *endYear {
		fmt.Printf("Error: year range must be within %d..%d\n", astro.MinYear, astro.MaxYear)
		os.Exit(1)
	}

	fmt.Println("================================================================")
	fmt.Println("Lunar Calendar Cross-Check")
	fmt.Println("================================================================")
	fmt.Printf("Year Range:  %d to %d\n", *startYear, *endYear)
	fmt.Printf("Diff vs CN:  %v\n", *diffCN)
	fmt.Println()

	conv := lunar.NewConverter(lunar.NewMemoryCache())

	var failures []Failure
	add := func(year int, kind, format string, args ...interface{}) {
		failures = append(failures, Failure{year, kind, fmt.Sprintf(format, args...)})
	}

	checkTables(conv, *startYear, *endYear, add)
	checkSolstices(conv, *startYear, *endYear, add)
	checkDaySweep(conv, *startYear, *endYear, add)

	if *diffCN {
		diffChinese(conv, *startYear, *endYear)
	}

	printFailures(failures)

	if len(failures) > 0 {
		os.Exit(1)
	}
}

// checkTables verifies the structural invariants of every year table.
func checkTables(conv *lunar.Converter, startYear, endYear int, add func(int, string, string, ...interface{})) {
	fmt.Printf("Phase 1: table invariants for %d years...\n", endYear-startYear+1)

	// Months shared by consecutive tables must agree exactly.
	type monthKey struct {
		lunarYear int
		ordinal   int
		leap      bool
	}
	prevSpans := map[monthKey][2]int{}

	for y := startYear; y <= endYear; y++ {
		table, err := conv.YearTable(y)
		if err != nil {
			add(y, "table-build", "YearTable failed: %v", err)
			continue
		}
		ms := table.Months

		if len(ms) < 13 || len(ms) > 14 {
			add(y, "table-size", "%d months", len(ms))
		}
		if ms[0].Ordinal != 11 || ms[0].LunarYear != y-1 || ms[0].Leap {
			add(y, "table-anchor", "first month is %d/%d leap=%v, want 11/%d",
				ms[0].Ordinal, ms[0].LunarYear, ms[0].Leap, y-1)
		}

		leaps := 0
		for i := range ms {
			m := &ms[i]
			if n := m.Days(); n != 29 && n != 30 {
				add(y, "month-length", "month %d/%d has %d days", m.Ordinal, m.LunarYear, n)
			}
			if m.Leap {
				leaps++
			}
			if i > 0 && ms[i-1].End != m.Start {
				add(y, "table-gap", "month %d/%d does not start where %d/%d ends",
					m.Ordinal, m.LunarYear, ms[i-1].Ordinal, ms[i-1].LunarYear)
			}
		}
		if leaps > 1 {
			add(y, "leap-count", "%d leap months in one table", leaps)
		}
		if lm := table.LeapMonth(); (lm != nil) != (leaps == 1) {
			add(y, "leap-count", "LeapMonth() disagrees with the month list")
		}

		jan1 := astro.JDN(y, 1, 1)
		dec31 := astro.JDN(y, 12, 31)
		if ms[0].Start > jan1 || ms[len(ms)-1].End <= dec31 {
			add(y, "table-coverage", "table does not span the civil year")
		}

		// Tết must fall between January 21 and February 21
		if tet, ok := table.Tet(); !ok {
			add(y, "tet", "no month 1 in table")
		} else {
			_, tm, td := astro.JDNToGregorian(tet)
			if !(tm == 1 && td >= 21 || tm == 2 && td <= 21) {
				add(y, "tet", "Tết on %02d-%02d", tm, td)
			}
		}

		spans := map[monthKey][2]int{}
		for _, m := range ms {
			key := monthKey{m.LunarYear, m.Ordinal, m.Leap}
			spans[key] = [2]int{m.Start, m.End}
			if prev, ok := prevSpans[key]; ok && prev != spans[key] {
				add(y, "table-overlap", "month %d/%d differs from previous year's table",
					m.Ordinal, m.LunarYear)
			}
		}
		prevSpans = spans
	}
}

// checkSolstices verifies month 11 against an independent solstice
// computation.
func checkSolstices(conv *lunar.Converter, startYear, endYear int, add func(int, string, string, ...interface{})) {
	fmt.Printf("Phase 2: solstice audit...\n")

	offByOne := 0
	for y := startYear; y <= endYear; y++ {
		table, err := conv.YearTable(y)
		if err != nil {
			continue // already reported in phase 1
		}

		var m11 *lunar.Month
		for i := range table.Months {
			m := &table.Months[i]
			if m.Ordinal == 11 && m.LunarYear == y && !m.Leap {
				m11 = m
				break
			}
		}
		if m11 == nil {
			add(y, "solstice", "no month 11 for lunar year %d", y)
			continue
		}

		dec31 := astro.JDN(y, 12, 31)
		mine := astro.MajorTermDay(9, dec31, lunar.OffsetForJDN(dec31))
		if mine < m11.Start || mine >= m11.End {
			add(y, "solstice", "solstice day %d outside month 11 [%d, %d)", mine, m11.Start, m11.End)
		}

		// The Meeus solstice series and the truncated sun longitude can
		// land on different civil days when the instant falls within
		// minutes of midnight, so a one day gap is tolerated.
		ly, lm, ld := julian.JDToCalendar(solstice.December(y) + 7.0/24)
		indep := astro.JDN(ly, lm, int(ld))
		switch d := indep - mine; {
		case d < -1 || d > 1:
			add(y, "solstice", "independent solstice %04d-%02d-%02d is %d days from ours", ly, lm, int(ld), d)
		case d != 0:
			offByOne++
		}
	}

	if offByOne > 0 {
		fmt.Printf("  Note: %d solstices land one day from the reference series (within tolerance)\n", offByOne)
	}
}

// checkDaySweep converts every civil day in the range and verifies
// totality, day increments, and round-trips.
func checkDaySweep(conv *lunar.Converter, startYear, endYear int, add func(int, string, string, ...interface{})) {
	first := astro.JDN(startYear, 1, 1)
	last := astro.JDN(endYear, 12, 31)
	totalDays := last - first + 1

	fmt.Printf("Phase 3: sweeping %d days...\n", totalDays)

	var prev lunar.Date
	lastProgress := -1

	for j := first; j <= last; j++ {
		y, m, d := astro.JDNToGregorian(j)

		ld, err := conv.Convert(y, m, d)
		if err != nil {
			add(y, "totality", "%04d-%02d-%02d: %v", y, m, d, err)
			continue
		}

		if j > first {
			sameMonth := ld.Month == prev.Month && ld.Leap == prev.Leap && ld.Year == prev.Year
			if ld.Day == 1 {
				if prev.Day != 29 && prev.Day != 30 {
					add(y, "day-increment", "%04d-%02d-%02d: month rolled over after day %d", y, m, d, prev.Day)
				}
				if sameMonth {
					add(y, "day-increment", "%04d-%02d-%02d: day reset without a month change", y, m, d)
				}
			} else {
				if ld.Day != prev.Day+1 {
					add(y, "day-increment", "%04d-%02d-%02d: day %d follows day %d", y, m, d, ld.Day, prev.Day)
				}
				if !sameMonth {
					add(y, "day-increment", "%04d-%02d-%02d: month changed mid-month", y, m, d)
				}
			}
		}

		gy, gm, gd, err := conv.ToGregorian(ld)
		if err != nil {
			add(y, "round-trip", "%04d-%02d-%02d: %v", y, m, d, err)
		} else if gy != y || gm != m || gd != d {
			add(y, "round-trip", "%04d-%02d-%02d came back as %04d-%02d-%02d", y, m, d, gy, gm, gd)
		}

		prev = ld

		progress := (j - first + 1) * 100 / totalDays
		if progress != lastProgress && progress%10 == 0 {
			fmt.Printf("  Progress: %d%%\n", progress)
			lastProgress = progress
		}
	}
}

// diffChinese compares every day against the Chinese lunisolar
// calendar. The Vietnamese calendar runs on UTC+7 and the Chinese on
// UTC+8, so months occasionally begin a day apart, and in rare years
// the leap month itself differs.
func diffChinese(conv *lunar.Converter, startYear, endYear int) {
	// The upstream library only covers 1900 onward
	if startYear < 1900 {
		startYear = 1900
	}
	if endYear > 2100 {
		endYear = 2100
	}
	if startYear > endYear {
		return
	}

	fmt.Printf("Phase 4: diffing against the Chinese calendar (%d to %d)...\n", startYear, endYear)

	type cnLunar struct {
		Year        int64 `json:"year"`
		Month       int64 `json:"month"`
		Day         int64 `json:"day"`
		IsLeapMonth bool  `json:"is_leap_month"`
	}

	first := astro.JDN(startYear, 1, 1)
	last := astro.JDN(endYear, 12, 31)

	compared := 0
	diffs := 0
	var samples []string

	for j := first; j <= last; j++ {
		y, m, d := astro.JDNToGregorian(j)

		ld, err := conv.Convert(y, m, d)
		if err != nil {
			continue
		}

		cal := calendarlib.BySolar(int64(y), int64(m), int64(d), 12, 0, 0)
		raw, err := json.Marshal(cal.Lunar)
		if err != nil {
			continue
		}
		var cn cnLunar
		if err := json.Unmarshal(raw, &cn); err != nil {
			continue
		}
		compared++

		if int(cn.Year) != ld.Year || int(cn.Month) != ld.Month ||
			int(cn.Day) != ld.Day || cn.IsLeapMonth != ld.Leap {
			diffs++
			if len(samples) < 10 {
				leap := ""
				if cn.IsLeapMonth {
					leap = "n"
				}
				samples = append(samples, fmt.Sprintf("%04d-%02d-%02d  vi=%s  cn=%d/%d%s/%d",
					y, m, d, ld, cn.Day, cn.Month, leap, cn.Year))
			}
		}
	}

	fmt.Printf("  Compared %d days, %d differ (%.2f%%)\n",
		compared, diffs, float64(diffs)/float64(compared)*100)
	if len(samples) > 0 {
		fmt.Println("  Sample differences (expected, the calendars use different meridians):")
		for _, s := range samples {
			fmt.Printf("    %s\n", s)
		}
	}
	fmt.Println()
}

func printFailures(failures []Failure) {
	fmt.Println()
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")

	if len(failures) == 0 {
		fmt.Println("All invariants hold.")
		return
	}

	fmt.Printf("%d failures\n\n", len(failures))

	// Group by kind
	byKind := make(map[string][]Failure)
	var kinds []string
	for _, f := range failures {
		if _, ok := byKind[f.Kind]; !ok {
			kinds = append(kinds, f.Kind)
		}
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}

	for _, kind := range kinds {
		group := byKind[kind]
		fmt.Printf("%s: %d failures\n", kind, len(group))
		shown := 0
		for _, f := range group {
			if shown >= 5 {
				fmt.Printf("  ... and %d more\n", len(group)-5)
				break
			}
			fmt.Printf("  %d: %s\n", f.Year, f.Detail)
			shown++
		}
	}
}
