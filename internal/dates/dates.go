// Package dates holds the calendar arithmetic and display formatting shared by
// the planner, the upcoming view and the exports.
//
// Calendar days are represented as time.Time values at midnight UTC carrying
// the civil year, month and day. "Today" is resolved in the configured zone
// and then converted to that representation, so comparisons never depend on
// the server's local zone.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// TimeLayout is the wire and display format for times of day.
const TimeLayout = "15:04"

// Service answers questions about days relative to "now".
type Service struct {
	loc    *time.Location
	labels labels
	now    func() time.Time
}

// New returns a Service resolving "today" in loc and labelling days in the
// given locale ("en" or "de"; anything else is treated as "en").
func New(loc *time.Location, locale string) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{loc: loc, labels: labelsFor(locale), now: time.Now}
}

// WithNow returns a copy of s that uses now as its clock.
func (s *Service) WithNow(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

// Location returns the zone "today" is resolved in.
func (s *Service) Location() *time.Location { return s.loc }

// Day strips the time of day from t, keeping t's own calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// NormalizeTime accepts "H:MM", "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04", "3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

// Now returns the current instant in the configured zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar day in the configured zone.
func (s *Service) Today() time.Time {
	return Day(s.Now())
}

// Tomorrow returns the calendar day after Today.
func (s *Service) Tomorrow() time.Time {
	return s.Today().AddDate(0, 0, 1)
}

// CurrentTime returns the current time of day as "HH:MM".
func (s *Service) CurrentTime() string {
	return s.Now().Format(TimeLayout)
}

func (s *Service) IsToday(d time.Time) bool {
	return Day(d).Equal(s.Today())
}

func (s *Service) IsTomorrow(d time.Time) bool {
	return Day(d).Equal(s.Tomorrow())
}

// IsPast reports whether d lies strictly before today.
func (s *Service) IsPast(d time.Time) bool {
	return Day(d).Before(s.Today())
}

// SameDate compares calendar days only.
func SameDate(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsInThisWeek uses ISO weeks (Monday first).
func (s *Service) IsInThisWeek(d time.Time) bool {
	y1, w1 := Day(d).ISOWeek()
	y2, w2 := s.Today().ISOWeek()
	return y1 == y2 && w1 == w2
}

func (s *Service) IsNextWeek(d time.Time) bool {
	y1, w1 := Day(d).ISOWeek()
	y2, w2 := s.Today().AddDate(0, 0, 7).ISOWeek()
	return y1 == y2 && w1 == w2
}

func (s *Service) IsInThisMonth(d time.Time) bool {
	d = Day(d)
	today := s.Today()
	return d.Year() == today.Year() && d.Month() == today.Month()
}

func (s *Service) IsInNextMonth(d time.Time) bool {
	d = Day(d)
	today := s.Today()
	next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return d.Year() == next.Year() && d.Month() == next.Month()
}

// DayName returns the localized weekday name.
func (s *Service) DayName(d time.Time) string {
	return s.labels.days[Day(d).Weekday()]
}

// DayNameShort returns the localized two-letter weekday abbreviation.
func (s *Service) DayNameShort(d time.Time) string {
	return s.labels.daysShort[Day(d).Weekday()]
}

// DayLabel renders a group heading: today, tomorrow, or the weekday name.
// A nil day renders as the "no date" label.
func (s *Service) DayLabel(d *time.Time) string {
	switch {
	case d == nil:
		return s.labels.noDate
	case s.IsToday(*d):
		return s.labels.today
	case s.IsTomorrow(*d):
		return s.labels.tomorrow
	default:
		return s.DayName(*d)
	}
}

// NoDateLabel is the heading used for entries without a day.
func (s *Service) NoDateLabel() string { return s.labels.noDate }

// FormatDisplay renders a day the way the locale writes short dates
// (en: 1/2/2021, de: 2.1.2021).
func (s *Service) FormatDisplay(d time.Time) string {
	d = Day(d)
	if s.labels.dayFirst {
		return fmt.Sprintf("%d.%d.%d", d.Day(), int(d.Month()), d.Year())
	}
	return fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())
}

// MonthLabel renders "October 2026" / "Oktober 2026".
func (s *Service) MonthLabel(d time.Time) string {
	return fmt.Sprintf("%s %d", s.labels.months[d.Month()-1], d.Year())
}

// DisplayDay is one cell in the calendar header's day strip.
type DisplayDay struct {
	Day    string    `json:"day"`
	Number string    `json:"number"`
	Date   time.Time `json:"date"`
	Past   bool      `json:"past"`
}

// MonthDays lists every day of the given month.
func (s *Service) MonthDays(year int, month time.Month) []DisplayDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]DisplayDay, 0, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		days = append(days, DisplayDay{
			Day:    s.DayNameShort(d),
			Number: fmt.Sprintf("%02d", d.Day()),
			Date:   d,
			Past:   s.IsPast(d),
		})
	}
	return days
}
