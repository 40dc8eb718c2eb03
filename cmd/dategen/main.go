package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lichviet/amlich-api/internal/astro"
	"github.com/lichviet/amlich-api/internal/lunar"
)

// This tool dumps a Gregorian to lunar conversion table as CSV, one row
// per civil day. Useful for eyeballing month boundaries and for diffing
// against published almanacs.

func main() {
	start := flag.String("start", "2024-01-01", "First Gregorian date (YYYY-MM-DD)")
	end := flag.String("end", "2024-12-31", "Last Gregorian date (YYYY-MM-DD, inclusive)")
	out := flag.String("out", "", "Output file (default stdout)")
	flag.Parse()

	startJDN, err := parseDay(*start)
	if err != nil {
		fatalf("invalid -start date %q: %v", *start, err)
	}
	endJDN, err := parseDay(*end)
	if err != nil {
		fatalf("invalid -end date %q: %v", *end, err)
	}
	if endJDN < startJDN {
		fatalf("-start must be on or before -end")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	conv := lunar.NewConverter(lunar.NewMemoryCache())

	type monthKey struct {
		year  int
		month int
		leap  bool
	}
	months := make(map[monthKey]bool)
	var leapMonths []string

	fmt.Fprintln(w, "gregorian,lunar_day,lunar_month,leap,lunar_year,day_name")

	for jdn := startJDN; jdn <= endJDN; jdn++ {
		y, m, d := astro.JDNToGregorian(jdn)
		ld, err := conv.Convert(y, m, d)
		if err != nil {
			fatalf("convert %04d-%02d-%02d: %v", y, m, d, err)
		}

		leap := 0
		if ld.Leap {
			leap = 1
		}
		fmt.Fprintf(w, "%04d-%02d-%02d,%d,%d,%d,%d,%s\n",
			y, m, d, ld.Day, ld.Month, leap, ld.Year, lunar.DayName(jdn))

		key := monthKey{ld.Year, ld.Month, ld.Leap}
		if !months[key] {
			months[key] = true
			if ld.Leap {
				leapMonths = append(leapMonths, fmt.Sprintf("%d/%d", ld.Month, ld.Year))
			}
		}
	}

	// Summary goes to stderr so it never lands in the CSV
	fmt.Fprintf(os.Stderr, "%d days across %d lunar months\n", endJDN-startJDN+1, len(months))
	if len(leapMonths) > 0 {
		fmt.Fprintf(os.Stderr, "leap months: %s\n", strings.Join(leapMonths, ", "))
	}
}

func parseDay(s string) (int, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	return astro.GregorianToJDN(t.Year(), int(t.Month()), t.Day())
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
