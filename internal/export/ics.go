// Package export renders planner entries for other calendar applications.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

const (
	ICSProductID = "-//Household Planner//Planner//EN"
	uidDomain    = "household-planner"

	// Timed appointments have no end in the planner; feeds show them as one hour.
	defaultEventLength = time.Hour

	// Content lines longer than this many octets are folded.
	maxLineOctets = 75
)

// Calendar describes the feed being written.
type Calendar struct {
	Name     string
	Location *time.Location
	Now      time.Time
}

// errWriter keeps the first write error so the renderer can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) line(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, fold(fmt.Sprintf(format, args...)))
}

// fold terminates a content line with CRLF, breaking it into chunks of at
// most 75 octets. Continuation lines start with a space and never split a
// UTF-8 sequence.
func fold(line string) string {
	var b strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
	return b.String()
}

// WriteICS writes an iCalendar subscription feed with one VEVENT per dated
// entry. Undated entries are skipped. Entries with a time are interpreted in
// the calendar's zone and written as UTC timed events, the rest are all-day
// events.
func WriteICS(w io.Writer, cal Calendar, entries []upcoming.Entry) error {
	loc := cal.Location
	if loc == nil {
		loc = time.UTC
	}
	stamp := formatUTC(cal.Now)

	ew := &errWriter{w: w}
	ew.line("BEGIN:VCALENDAR")
	ew.line("VERSION:2.0")
	ew.line("PRODID:%s", ICSProductID)
	ew.line("METHOD:PUBLISH")
	ew.line("CALSCALE:GREGORIAN")
	ew.line("X-WR-CALNAME:%s", escapeText(cal.Name))
	ew.line("X-WR-TIMEZONE:%s", loc.String())
	ew.line("X-PUBLISHED-TTL:PT1H")

	for _, e := range entries {
		if e.Date == nil {
			continue
		}
		ew.line("BEGIN:VEVENT")
		ew.line("UID:%s-%d@%s", kind(e.Type), e.ID, uidDomain)
		ew.line("DTSTAMP:%s", stamp)

		if start, ok := startOf(e, loc); ok {
			ew.line("DTSTART:%s", formatUTC(start))
			ew.line("DTEND:%s", formatUTC(start.Add(defaultEventLength)))
		} else {
			ew.line("DTSTART;VALUE=DATE:%s", e.Date.Format("20060102"))
			ew.line("DTEND;VALUE=DATE:%s", e.Date.AddDate(0, 0, 1).Format("20060102"))
		}

		ew.line("SUMMARY:%s", escapeText(e.Name))
		if e.Notes != "" {
			ew.line("DESCRIPTION:%s", escapeText(e.Notes))
		}
		ew.line("CATEGORIES:%s", strings.ToUpper(kind(e.Type)))
		if e.Type == domain.EntryTodo && e.Done {
			ew.line("STATUS:CANCELLED")
		}
		ew.line("END:VEVENT")
	}

	ew.line("END:VCALENDAR")
	return ew.err
}

func formatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func kind(t domain.EntryType) string {
	if t == domain.EntryTodo {
		return "todo"
	}
	return "appointment"
}

// startOf combines the entry's day and time in loc.
func startOf(e upcoming.Entry, loc *time.Location) (time.Time, bool) {
	if e.Time == nil {
		return time.Time{}, false
	}
	tod, err := time.Parse("15:04", *e.Time)
	if err != nil {
		return time.Time{}, false
	}
	d := e.Date
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), true
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
