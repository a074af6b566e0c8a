package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/export"
	"github.com/Tomlord1122/planner-backend/internal/service"
)

const calendarName = "Household planner"

func (s *Server) calendarICSHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Upcoming.CalendarEntries(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpExport)
		return
	}

	var buf bytes.Buffer
	cal := export.Calendar{Name: calendarName, Location: s.dates.Location(), Now: s.dates.Now()}
	if err := export.WriteICS(&buf, cal, entries); err != nil {
		s.respondWithServiceError(w, r, err, service.OpExport)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="planner.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type monthResponse struct {
	Month string             `json:"month"`
	Label string             `json:"label"`
	Days  []dates.DisplayDay `json:"days"`
}

// calendarMonthHandler lists the days of a month ("2006-01") for the
// calendar header.
func (s *Server) calendarMonthHandler(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "month")
	var month time.Time
	if raw == "current" {
		month = s.dates.Today()
	} else {
		m, err := time.Parse("2006-01", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
			return
		}
		month = m
	}

	respondWithJSON(w, http.StatusOK, monthResponse{
		Month: month.Format("2006-01"),
		Label: s.dates.MonthLabel(month),
		Days:  s.dates.MonthDays(month.Year(), month.Month()),
	})
}
