package astro

import (
	"errors"
	"testing"
)

func TestGregorianToJDN_KnownDates(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
		want  int
	}{
		{"J2000 epoch", 2000, 1, 1, 2451545},
		{"unix epoch", 1970, 1, 1, 2440588},
		{"timezone cutover day", 1968, 1, 1, 2439857},
		{"lunar new year 2023", 2023, 1, 22, 2459967},
		{"gregorian reform date", 1582, 10, 15, 2299161},
		{"start of supported span", 1200, 1, 1, 2159351},
		{"end of supported span", 2199, 12, 31, 2524593},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GregorianToJDN(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("GregorianToJDN(%d, %d, %d) error = %v", tt.year, tt.month, tt.day, err)
			}
			if got != tt.want {
				t.Errorf("GregorianToJDN(%d, %d, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestGregorianToJDN_InvalidDates(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
	}{
		{"april 31", 2023, 4, 31},
		{"february 29 in common year", 2023, 2, 29},
		{"february 30 in leap year", 2024, 2, 30},
		{"month zero", 2023, 0, 10},
		{"month thirteen", 2023, 13, 1},
		{"day zero", 2023, 6, 0},
		{"day thirty-two", 2023, 1, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GregorianToJDN(tt.year, tt.month, tt.day)
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("GregorianToJDN(%d, %d, %d) error = %v, want ErrInvalidDate", tt.year, tt.month, tt.day, err)
			}
		})
	}
}

func TestGregorianToJDN_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
	}{
		{"just before supported span", 1199, 12, 31},
		{"just after supported span", 2200, 1, 1},
		{"far future", 9999, 6, 15},
		{"antiquity", 150, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GregorianToJDN(tt.year, tt.month, tt.day)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("GregorianToJDN(%d, %d, %d) error = %v, want ErrOutOfRange", tt.year, tt.month, tt.day, err)
			}
			if errors.Is(err, ErrInvalidDate) {
				t.Errorf("GregorianToJDN(%d, %d, %d) error = %v, should not match ErrInvalidDate", tt.year, tt.month, tt.day, err)
			}
		})
	}
}

func TestJDNToGregorian_RoundTrip(t *testing.T) {
	first, err := GregorianToJDN(MinYear, 1, 1)
	if err != nil {
		t.Fatalf("GregorianToJDN(%d, 1, 1) error = %v", MinYear, err)
	}
	last, err := GregorianToJDN(MaxYear, 12, 31)
	if err != nil {
		t.Fatalf("GregorianToJDN(%d, 12, 31) error = %v", MaxYear, err)
	}

	// A prime stride keeps the sweep cheap while still crossing every
	// month length and leap-year pattern many times over.
	for jdn := first; jdn <= last; jdn += 137 {
		y, m, d := JDNToGregorian(jdn)
		back, err := GregorianToJDN(y, m, d)
		if err != nil {
			t.Fatalf("GregorianToJDN(%d, %d, %d) error = %v", y, m, d, err)
		}
		if back != jdn {
			t.Fatalf("round trip of JDN %d = (%d, %d, %d) -> %d", jdn, y, m, d, back)
		}
	}
}

func TestJDNToGregorian_DayIncrement(t *testing.T) {
	// Consecutive day numbers must decode to consecutive calendar dates.
	start, _ := GregorianToJDN(2023, 12, 25)
	prevY, prevM, prevD := JDNToGregorian(start)
	for jdn := start + 1; jdn <= start+40; jdn++ {
		y, m, d := JDNToGregorian(jdn)
		if d == prevD+1 && m == prevM && y == prevY {
			prevY, prevM, prevD = y, m, d
			continue
		}
		if d == 1 && (m == prevM+1 || (m == 1 && prevM == 12 && y == prevY+1)) {
			prevY, prevM, prevD = y, m, d
			continue
		}
		t.Fatalf("JDN %d decoded to (%d, %d, %d) after (%d, %d, %d)", jdn, y, m, d, prevY, prevM, prevD)
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2000, true},
		{2024, true},
		{2023, false},
		{1900, false},
		{2100, false},
		{1600, true},
	}

	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month int
		want  int
	}{
		{2023, 1, 31},
		{2023, 2, 28},
		{2024, 2, 29},
		{2023, 4, 30},
		{2023, 12, 31},
		{2023, 0, 0},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func BenchmarkGregorianToJDN(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := GregorianToJDN(2024, 5, 24); err != nil {
			b.Fatal(err)
		}
	}
}
