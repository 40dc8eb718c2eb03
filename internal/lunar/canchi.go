package lunar

import "fmt"

// The sexagenary cycle names years, months and days by pairing ten
// heavenly stems (can) with twelve earthly branches (chi). Sixty pairs
// exhaust the combinations, so each name repeats on a 60-step cycle.
var (
	cans = [10]string{"Giáp", "Ất", "Bính", "Đinh", "Mậu", "Kỷ", "Canh", "Tân", "Nhâm", "Quý"}
	chis = [12]string{"Tý", "Sửu", "Dần", "Mão", "Thìn", "Tỵ", "Ngọ", "Mùi", "Thân", "Dậu", "Tuất", "Hợi"}
)

// YearName returns the sexagenary name of a lunar year.
//
// Examples:
//   - YearName(2024) = "Giáp Thìn"
//   - YearName(1968) = "Mậu Thân"
func YearName(lunarYear int) string {
	return fmt.Sprintf("%s %s", cans[(lunarYear+6)%10], chis[(lunarYear+8)%12])
}

// MonthName returns the sexagenary name of a lunar month. The stem
// follows the five-tigers rule, fixing month 1 of a Giáp year to Bính
// Dần; the branch depends on the ordinal alone, month 1 always being a
// Dần month. A leap month carries the same name as the month it
// repeats.
//
// Examples:
//   - MonthName(1, 2024) = "Bính Dần"
//   - MonthName(11, 2023) = "Giáp Tý"
func MonthName(month, lunarYear int) string {
	return fmt.Sprintf("%s %s", cans[(lunarYear*12+month+3)%10], chis[(month+1)%12])
}

// DayName returns the sexagenary name of a civil day. Day names run on
// an unbroken 60-day cycle tied to the Julian day number, independent
// of any calendar.
//
// Examples:
//   - DayName(2451545) = "Mậu Ngọ" (2000-01-01)
func DayName(jdn int) string {
	return fmt.Sprintf("%s %s", cans[(jdn+9)%10], chis[(jdn+1)%12])
}
