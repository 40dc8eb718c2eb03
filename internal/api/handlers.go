package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lichviet/amlich-api/internal/astro"
	"github.com/lichviet/amlich-api/internal/config"
	"github.com/lichviet/amlich-api/internal/database"
	"github.com/lichviet/amlich-api/internal/lunar"
)

// ict is the fixed Vietnamese civil clock used to resolve "today".
// The server's own timezone must not leak into calendar results.
var ict = time.FixedZone("ICT", 7*3600)

// maxRangeDays bounds the /convert range endpoint to one year of days.
const maxRangeDays = 366

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	conv   *lunar.Converter
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, conv *lunar.Converter, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// =============================================================================
// Response shapes
// =============================================================================

// DayResponse is the conversion result for one Gregorian day.
type DayResponse struct {
	Gregorian  string              `json:"gregorian"`
	LunarDay   int                 `json:"lunar_day"`
	LunarMonth int                 `json:"lunar_month"`
	LeapMonth  bool                `json:"leap_month"`
	LunarYear  int                 `json:"lunar_year"`
	LunarDate  string              `json:"lunar_date"` // display form, e.g. "10/1n/2023"
	YearName   string              `json:"year_name"`  // Can Chi, e.g. "Giáp Thìn"
	MonthName  string              `json:"month_name"`
	DayName    string              `json:"day_name"`
	Festivals  []database.Festival `json:"festivals,omitempty"`
}

// MonthResponse is one row of a year table.
type MonthResponse struct {
	Month     int    `json:"month"`
	Leap      bool   `json:"leap,omitempty"`
	LunarYear int    `json:"lunar_year"`
	Start     string `json:"start"` // first civil day
	End       string `json:"end"`   // last civil day, inclusive
	Days      int    `json:"days"`
}

// YearResponse is the full lunar month table for a civil year.
type YearResponse struct {
	CivilYear      int             `json:"civil_year"`
	YearName       string          `json:"year_name"` // lunar year beginning in this civil year
	Tet            string          `json:"tet,omitempty"`
	WinterSolstice string          `json:"winter_solstice"`
	LeapMonth      int             `json:"leap_month,omitempty"`
	Months         []MonthResponse `json:"months"`
}

// FestivalOccurrence is a festival resolved onto a Gregorian date for
// one lunar year.
type FestivalOccurrence struct {
	database.Festival
	LunarDate string `json:"lunar_date"`
	Gregorian string `json:"gregorian"`
}

// =============================================================================
// Health
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	stats, err := h.db.GetFestivalStats(ctx)
	if err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"status":    "healthy",
		"festivals": stats.Total,
	})
}

// =============================================================================
// Conversion
// =============================================================================

// ConvertDate handles GET /api/v1/convert/{date} with date as YYYY-MM-DD.
func (h *Handlers) ConvertDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	year, month, day, err := parseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	resp, err := h.dayResponse(r.Context(), year, month, day)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	WriteSuccess(w, resp)
}

// ConvertToday handles GET /api/v1/convert/today
func (h *Handlers) ConvertToday(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(ict)
	year, month, day := now.Date()

	resp, err := h.dayResponse(r.Context(), year, int(month), day)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	WriteSuccess(w, resp)
}

// ConvertRange handles GET /api/v1/convert?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handlers) ConvertRange(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr == "" || toStr == "" {
		WriteBadRequest(w, "Both from and to date parameters are required")
		return
	}

	fy, fm, fd, err := parseDate(fromStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid from date: %s. Use YYYY-MM-DD", fromStr))
		return
	}
	ty, tm, td, err := parseDate(toStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid to date: %s. Use YYYY-MM-DD", toStr))
		return
	}

	fromJDN, err := astro.GregorianToJDN(fy, fm, fd)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}
	toJDN, err := astro.GregorianToJDN(ty, tm, td)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	if toJDN < fromJDN {
		WriteBadRequest(w, "from date must be on or before to date")
		return
	}
	if toJDN-fromJDN+1 > maxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", maxRangeDays))
		return
	}

	days := make([]*DayResponse, 0, toJDN-fromJDN+1)
	for jdn := fromJDN; jdn <= toJDN; jdn++ {
		y, m, d := astro.JDNToGregorian(jdn)
		resp, err := h.dayResponse(r.Context(), y, m, d)
		if err != nil {
			h.writeConvertError(w, r, err)
			return
		}
		days = append(days, resp)
	}

	WriteSuccess(w, map[string]interface{}{
		"from": fromStr,
		"to":   toStr,
		"days": days,
	})
}

// Reverse handles GET /api/v1/reverse?year=&month=&day=&leap=
// and maps a lunar date back to its Gregorian day.
func (h *Handlers) Reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		WriteBadRequest(w, "month must be an integer")
		return
	}
	day, err := strconv.Atoi(q.Get("day"))
	if err != nil {
		WriteBadRequest(w, "day must be an integer")
		return
	}

	leap := false
	if leapStr := q.Get("leap"); leapStr != "" {
		leap, err = strconv.ParseBool(leapStr)
		if err != nil {
			WriteBadRequest(w, "leap must be a boolean")
			return
		}
	}

	gy, gm, gd, err := h.conv.ToGregorian(lunar.Date{
		Day:   day,
		Month: month,
		Year:  year,
		Leap:  leap,
	})
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	resp, err := h.dayResponse(r.Context(), gy, gm, gd)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	WriteSuccess(w, resp)
}

// =============================================================================
// Year tables
// =============================================================================

// GetYear handles GET /api/v1/years/{year} and returns the full lunar
// month table for a civil year.
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}

	table, err := h.conv.YearTable(year)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	resp := YearResponse{
		CivilYear: year,
		YearName:  lunar.YearName(year),
	}

	if tet, ok := table.Tet(); ok {
		resp.Tet = formatJDN(tet)
	}

	// The reported leap month belongs to the lunar year YearName names,
	// not to whichever lunar year's leap month the table happens to
	// carry. A leap month 12 can begin after December 31 and only
	// surface in the next table.
	if lm := table.LeapMonth(); lm != nil && lm.LunarYear == year {
		resp.LeapMonth = lm.Ordinal
	} else if next, nerr := h.conv.YearTable(year + 1); nerr == nil {
		if lm := next.LeapMonth(); lm != nil && lm.LunarYear == year {
			resp.LeapMonth = lm.Ordinal
		}
	}

	dec31 := astro.JDN(year, 12, 31)
	resp.WinterSolstice = formatJDN(astro.MajorTermDay(9, dec31, lunar.OffsetForJDN(dec31)))

	resp.Months = make([]MonthResponse, len(table.Months))
	for i, m := range table.Months {
		resp.Months[i] = MonthResponse{
			Month:     m.Ordinal,
			Leap:      m.Leap,
			LunarYear: m.LunarYear,
			Start:     formatJDN(m.Start),
			End:       formatJDN(m.End - 1),
			Days:      m.Days(),
		}
	}

	WriteSuccess(w, resp)
}

// GetYearFestivals handles GET /api/v1/years/{year}/festivals.
// Here {year} names the lunar year: occurrences run from its month 1
// through its month 12, so late-month festivals land in the following
// civil year.
func (h *Handlers) GetYearFestivals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}

	festivals, err := h.db.ListFestivals(ctx)
	if err != nil {
		h.logger.Error("failed to list festivals", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}

	occurrences, err := h.resolveOccurrences(festivals, year)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"lunar_year": year,
		"year_name":  lunar.YearName(year),
		"festivals":  occurrences,
	})
}

// resolveOccurrences maps festival definitions onto Gregorian dates for
// one lunar year. Festivals are observed in the regular month, never
// the leap duplicate. A festival whose day does not exist that year
// (day 30 of a 29-day month) is skipped.
func (h *Handlers) resolveOccurrences(festivals []database.Festival, lunarYear int) ([]FestivalOccurrence, error) {
	occurrences := make([]FestivalOccurrence, 0, len(festivals))

	for _, f := range festivals {
		d := lunar.Date{Day: f.LunarDay, Month: f.LunarMonth, Year: lunarYear}

		gy, gm, gd, err := h.conv.ToGregorian(d)
		if err != nil {
			if errors.Is(err, astro.ErrInvalidDate) {
				h.logger.Debug("festival date does not exist this year",
					slog.String("festival", f.Name),
					slog.Int("lunar_year", lunarYear),
				)
				continue
			}
			return nil, err
		}

		occurrences = append(occurrences, FestivalOccurrence{
			Festival:  f,
			LunarDate: d.String(),
			Gregorian: fmt.Sprintf("%04d-%02d-%02d", gy, gm, gd),
		})
	}

	return occurrences, nil
}

// =============================================================================
// Festival CRUD
// =============================================================================

// ListFestivals handles GET /api/v1/festivals
func (h *Handlers) ListFestivals(w http.ResponseWriter, r *http.Request) {
	festivals, err := h.db.ListFestivals(r.Context())
	if err != nil {
		h.logger.Error("failed to list festivals", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}

	if festivals == nil {
		festivals = []database.Festival{}
	}

	WriteSuccess(w, festivals)
}

// CreateFestival handles POST /api/v1/festivals
func (h *Handlers) CreateFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var f database.Festival
	if err := decodeJSON(r, &f); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := f.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.db.CreateFestival(ctx, &f); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteError(w, http.StatusConflict, "A festival with that name already exists", "DUPLICATE")
			return
		}
		h.logger.Error("failed to create festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to create festival")
		return
	}

	created, err := h.db.GetFestival(ctx, f.ID)
	if err != nil {
		h.logger.Error("failed to reload festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to create festival")
		return
	}

	WriteSuccess(w, created)
}

// UpdateFestival handles PUT /api/v1/festivals/{id}
func (h *Handlers) UpdateFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid festival ID")
		return
	}

	var f database.Festival
	if err := decodeJSON(r, &f); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	f.ID = id

	if err := f.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.db.UpdateFestival(ctx, &f); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			WriteNotFound(w, "Festival not found")
		case errors.Is(err, database.ErrDuplicate):
			WriteError(w, http.StatusConflict, "A festival with that name already exists", "DUPLICATE")
		default:
			h.logger.Error("failed to update festival", slog.Any("error", err))
			WriteInternalError(w, "Failed to update festival")
		}
		return
	}

	updated, err := h.db.GetFestival(ctx, id)
	if err != nil {
		h.logger.Error("failed to reload festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to update festival")
		return
	}

	WriteSuccess(w, updated)
}

// DeleteFestival handles DELETE /api/v1/festivals/{id}
func (h *Handlers) DeleteFestival(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid festival ID")
		return
	}

	if err := h.db.DeleteFestival(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			WriteNotFound(w, "Festival not found")
			return
		}
		h.logger.Error("failed to delete festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to delete festival")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Festival deleted"})
}

// =============================================================================
// Helpers
// =============================================================================

// dayResponse converts one Gregorian day and decorates it with Can Chi
// names and any festivals on the lunar date. The conversion never
// depends on the store; a festival lookup failure only drops the
// decoration.
func (h *Handlers) dayResponse(ctx context.Context, year, month, day int) (*DayResponse, error) {
	d, err := h.conv.Convert(year, month, day)
	if err != nil {
		return nil, err
	}

	jdn := astro.JDN(year, month, day)

	resp := &DayResponse{
		Gregorian:  fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		LunarDay:   d.Day,
		LunarMonth: d.Month,
		LeapMonth:  d.Leap,
		LunarYear:  d.Year,
		LunarDate:  d.String(),
		YearName:   lunar.YearName(d.Year),
		MonthName:  lunar.MonthName(d.Month, d.Year),
		DayName:    lunar.DayName(jdn),
	}

	// Festivals are observed in the regular month only
	if !d.Leap {
		festivals, err := h.db.GetFestivalsByLunarDate(ctx, d.Month, d.Day)
		if err != nil {
			h.logger.Warn("festival lookup failed",
				slog.String("date", resp.Gregorian),
				slog.Any("error", err),
			)
		} else {
			resp.Festivals = festivals
		}
	}

	return resp, nil
}

// writeConvertError maps core conversion errors onto HTTP statuses.
func (h *Handlers) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, astro.ErrInvalidDate):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, astro.ErrOutOfRange):
		WriteOutOfRange(w, err.Error())
	default:
		h.logger.Error("conversion failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		WriteInternalError(w, "Failed to convert date")
	}
}

// parseDate splits a strict YYYY-MM-DD string into its parts. It only
// checks the shape; whether the date exists is the converter's call, so
// impossible dates like April 31 surface the converter's own error.
func parseDate(s string) (year, month, day int, err error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, fmt.Errorf("malformed date %q", s)
	}
	if year, err = strconv.Atoi(s[0:4]); err != nil {
		return 0, 0, 0, err
	}
	if month, err = strconv.Atoi(s[5:7]); err != nil {
		return 0, 0, 0, err
	}
	if day, err = strconv.Atoi(s[8:10]); err != nil {
		return 0, 0, 0, err
	}
	return year, month, day, nil
}

// formatJDN renders a Julian day number as YYYY-MM-DD.
func formatJDN(jdn int) string {
	y, m, d := astro.JDNToGregorian(jdn)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}
