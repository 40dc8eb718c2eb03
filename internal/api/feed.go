package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
)

// maxFeedYears bounds the feed span regardless of configuration.
const maxFeedYears = 10

// emptyCalendar is served when no festival falls in the requested span,
// so subscribers still receive a valid VCALENDAR.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//lichviet//amlich-api//VI\r\nEND:VCALENDAR\r\n"

// CalendarFeed handles GET /api/v1/calendar.ics?from=&to=
//
// from and to are lunar years. When absent, the span starts at the
// lunar year underway today and covers cfg.FeedYears years. Only major
// festivals are included unless all=true.
func (h *Handlers) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	now := time.Now().In(ict)
	y, m, d := now.Date()
	today, err := h.conv.Convert(y, int(m), d)
	if err != nil {
		h.logger.Error("failed to resolve current lunar year", slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
		return
	}

	from := today.Year
	to := from + h.cfg.FeedYears - 1

	if s := q.Get("from"); s != "" {
		if from, err = strconv.Atoi(s); err != nil {
			WriteBadRequest(w, "from must be an integer lunar year")
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if to, err = strconv.Atoi(s); err != nil {
			WriteBadRequest(w, "to must be an integer lunar year")
			return
		}
	}

	if to < from {
		WriteBadRequest(w, "from year must be on or before to year")
		return
	}
	if to-from+1 > maxFeedYears {
		WriteBadRequest(w, fmt.Sprintf("Feed span cannot exceed %d years", maxFeedYears))
		return
	}

	festivals, err := h.db.ListFestivals(ctx)
	if err != nil {
		h.logger.Error("failed to list festivals", slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
		return
	}

	if q.Get("all") != "true" {
		major := festivals[:0]
		for _, f := range festivals {
			if f.IsMajor {
				major = append(major, f)
			}
		}
		festivals = major
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//lichviet//amlich-api//VI")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText("X-WR-CALNAME", "Lịch âm Việt Nam")

	dtStamp := time.Now().UTC()

	for year := from; year <= to; year++ {
		occurrences, err := h.resolveOccurrences(festivals, year)
		if err != nil {
			h.writeConvertError(w, r, err)
			return
		}

		for _, occ := range occurrences {
			event := ical.NewEvent()

			// Deterministic UID so subscribers can refresh without duplicates
			event.Props.SetText(ical.PropUID,
				fmt.Sprintf("festival-%d-%d@lichviet", occ.ID, year))

			dtStampProp := ical.NewProp(ical.PropDateTimeStamp)
			dtStampProp.SetDateTime(dtStamp)
			event.Props.Set(dtStampProp)

			summary := occ.Name
			if occ.NameEn != nil {
				summary = fmt.Sprintf("%s (%s)", occ.Name, *occ.NameEn)
			}
			event.Props.SetText(ical.PropSummary, summary)

			desc := fmt.Sprintf("Âm lịch %s", occ.LunarDate)
			if occ.Description != nil {
				desc = *occ.Description + "\n" + desc
			}
			event.Props.SetText(ical.PropDescription, desc)

			// All-day event on the Gregorian occurrence
			date, err := time.Parse("2006-01-02", occ.Gregorian)
			if err != nil {
				h.logger.Error("bad occurrence date", slog.String("date", occ.Gregorian))
				continue
			}
			dtStart := ical.NewProp(ical.PropDateTimeStart)
			dtStart.SetDate(date)
			event.Props.Set(dtStart)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	if len(cal.Children) == 0 {
		fmt.Fprint(w, emptyCalendar)
		return
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		h.logger.Error("failed to encode calendar", slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
		return
	}

	w.Write(buf.Bytes())
}
