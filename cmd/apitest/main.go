package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DayData is the response for /convert/{date}, /convert/today and /reverse
type DayData struct {
	Gregorian  string `json:"gregorian"`
	LunarDay   int    `json:"lunar_day"`
	LunarMonth int    `json:"lunar_month"`
	LeapMonth  bool   `json:"leap_month"`
	LunarYear  int    `json:"lunar_year"`
	LunarDate  string `json:"lunar_date"`
	YearName   string `json:"year_name"`
	MonthName  string `json:"month_name"`
	DayName    string `json:"day_name"`
}

// RangeData is the response for /convert?from=&to=
type RangeData struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Days []DayData `json:"days"`
}

// YearData is the response for /years/{year}
type YearData struct {
	CivilYear      int    `json:"civil_year"`
	YearName       string `json:"year_name"`
	Tet            string `json:"tet"`
	WinterSolstice string `json:"winter_solstice"`
	LeapMonth      int    `json:"leap_month"`
	Months         []struct {
		Month int `json:"month"`
		Days  int `json:"days"`
	} `json:"months"`
}

// HealthData is the response for /health
type HealthData struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Amlich API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testReverse()
	tr.testYears()
	tr.testRanges()
	tr.testEdgeCases()
	tr.testFeed()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthData
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/convert/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var day DayData
	if err := tr.parseDataAs(resp, &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today %s is %s (%s)", day.Gregorian, day.LunarDate, day.DayName))
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Conversions")

	testCases := []struct {
		date        string
		day         int
		month       int
		year        int
		leap        bool
		description string
	}{
		{"2024-02-10", 1, 1, 2024, false, "Tết Giáp Thìn"},
		{"2025-01-29", 1, 1, 2025, false, "Tết Ất Tỵ"},
		{"2023-01-22", 1, 1, 2023, false, "Tết Quý Mão"},
		{"2000-02-05", 1, 1, 2000, false, "Tết Canh Thìn"},
		{"1968-01-29", 1, 1, 1968, false, "Tết Mậu Thân, first year on UTC+7"},
		{"2023-03-01", 10, 1, 2023, true, "inside the leap month of 2023"},
		{"2024-09-17", 15, 8, 2024, false, "Trung Thu 2024"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/convert/%s", tc.date))
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var day DayData
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.LunarDay == tc.day && day.LunarMonth == tc.month &&
			day.LunarYear == tc.year && day.LeapMonth == tc.leap {
			tr.recordSuccess(fmt.Sprintf("%s → %s (%s)", tc.date, day.LunarDate, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("got %s, want %d/%d/%d leap=%v",
				day.LunarDate, tc.day, tc.month, tc.year, tc.leap))
		}

		if tr.verbose {
			fmt.Printf("    %s năm %s, ngày %s\n", day.MonthName, day.YearName, day.DayName)
		}
	}
}

func (tr *TestRunner) testReverse() {
	tr.printSection("Reverse Conversions")

	testCases := []struct {
		query       string
		gregorian   string
		description string
	}{
		{"year=2024&month=1&day=1", "2024-02-10", "Tết 2024"},
		{"year=2024&month=8&day=15", "2024-09-17", "Trung Thu 2024"},
		{"year=2023&month=1&day=10&leap=true", "2023-03-01", "leap month day"},
		{"year=2024&month=12&day=23", "2025-01-22", "Ông Công Ông Táo, lands in the next civil year"},
	}

	for _, tc := range testCases {
		resp, err := tr.get("/api/v1/reverse?" + tc.query)
		if err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}

		var day DayData
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}

		if day.Gregorian == tc.gregorian {
			tr.recordSuccess(fmt.Sprintf("%s → %s (%s)", tc.query, day.Gregorian, tc.description))
		} else {
			tr.recordError(tc.query, fmt.Sprintf("got %s, want %s", day.Gregorian, tc.gregorian))
		}
	}
}

func (tr *TestRunner) testYears() {
	tr.printSection("Year Tables")

	resp, err := tr.get("/api/v1/years/2024")
	if err != nil {
		tr.recordError("Year 2024", err.Error())
	} else {
		var year YearData
		if err := tr.parseDataAs(resp, &year); err != nil {
			tr.recordError("Year 2024", err.Error())
		} else {
			if year.Tet == "2024-02-10" && year.LeapMonth == 0 && year.YearName == "Giáp Thìn" {
				tr.recordSuccess(fmt.Sprintf("2024: Tết %s, %s, solstice %s, %d months",
					year.Tet, year.YearName, year.WinterSolstice, len(year.Months)))
			} else {
				tr.recordError("Year 2024", fmt.Sprintf("Tết %s, leap %d, name %s",
					year.Tet, year.LeapMonth, year.YearName))
			}
		}
	}

	resp2, err := tr.get("/api/v1/years/2023")
	if err != nil {
		tr.recordError("Year 2023", err.Error())
		return
	}
	var year2 YearData
	if err := tr.parseDataAs(resp2, &year2); err != nil {
		tr.recordError("Year 2023", err.Error())
		return
	}
	if year2.LeapMonth == 1 {
		tr.recordSuccess("2023 carries a leap month 1")
	} else {
		tr.recordError("Year 2023", fmt.Sprintf("leap_month = %d, want 1", year2.LeapMonth))
	}
}

func (tr *TestRunner) testRanges() {
	tr.printSection("Date Range Tests")

	// One week around Tết 2024
	resp, err := tr.get("/api/v1/convert?from=2024-02-08&to=2024-02-14")
	if err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	var rangeData RangeData
	if err := tr.parseDataAs(resp, &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if len(rangeData.Days) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(rangeData.Days)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", len(rangeData.Days)))
	}

	// Test range limit (should reject > 366 days)
	resp2, _ := tr.getRaw("/api/v1/convert?from=2020-01-01&to=2022-01-01")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Range limit enforced (>366 days rejected)")
	} else {
		tr.recordError("Range limit", "Should reject ranges > 366 days")
	}

	// Test invalid range (to before from)
	resp3, _ := tr.getRaw("/api/v1/convert?from=2024-12-31&to=2024-01-01")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Invalid range rejected (to before from)")
	} else {
		tr.recordError("Invalid range", "Should reject to < from")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	// Invalid date format
	resp, _ := tr.getRaw("/api/v1/convert/invalid")
	if resp != nil && resp.StatusCode == 400 {
		tr.recordSuccess("Invalid date format rejected")
	} else {
		tr.recordError("Invalid date", "Should return 400")
	}

	// Well-formed but impossible date
	resp2, _ := tr.getRaw("/api/v1/convert/2023-02-29")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Nonexistent date (2023-02-29) rejected")
	} else {
		tr.recordError("Nonexistent date", "Should return 400")
	}

	// Gregorian leap day converts fine
	_, err := tr.get("/api/v1/convert/2024-02-29")
	if err != nil {
		tr.recordError("Leap day", err.Error())
	} else {
		tr.recordSuccess("Gregorian leap day (2024-02-29) handled")
	}

	// Outside the supported era
	resp3, _ := tr.getRaw("/api/v1/convert/2500-01-01")
	if resp3 != nil && resp3.StatusCode == 422 {
		tr.recordSuccess("Out of range date returns 422")
	} else {
		tr.recordError("Out of range", "Should return 422")
	}

	// Missing range parameter
	resp4, _ := tr.getRaw("/api/v1/convert?from=2024-01-01")
	if resp4 != nil && resp4.StatusCode == 400 {
		tr.recordSuccess("Missing to parameter rejected")
	} else {
		tr.recordError("Missing param", "Should reject missing to")
	}

	// Nonexistent leap month
	resp5, _ := tr.getRaw("/api/v1/reverse?year=2024&month=4&day=1&leap=true")
	if resp5 != nil && resp5.StatusCode == 400 {
		tr.recordSuccess("Nonexistent leap month rejected")
	} else {
		tr.recordError("Leap month", "Should reject leap 4/2024")
	}
}

func (tr *TestRunner) testFeed() {
	tr.printSection("Calendar Feed")

	resp, err := tr.getRaw("/api/v1/calendar.ics?from=2024&to=2025")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		tr.recordError("Feed", fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		tr.recordError("Feed", fmt.Sprintf("Content-Type = %s", ct))
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	if !strings.Contains(string(body), "BEGIN:VCALENDAR") {
		tr.recordError("Feed", "missing VCALENDAR envelope")
		return
	}

	events := strings.Count(string(body), "BEGIN:VEVENT")
	tr.recordSuccess(fmt.Sprintf("Feed serves %d events", events))
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	url := tr.baseURL + path
	return tr.client.Get(url)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show Can Chi names)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	_, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
